package handlers

import (
	"errors"

	"deepnap-crm/internal/adapters/http/middleware"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/core/services"
	"deepnap-crm/internal/pkg/pagination"
	"deepnap-crm/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LeadHandler handles lead endpoints
type LeadHandler struct {
	leadService *services.LeadService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *services.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// AssignRequest represents a lead assignment request body
type AssignRequest struct {
	AssigneeID uint `json:"assignee_id"`
}

// DemoRemarkRequest represents a demo completion request body
type DemoRemarkRequest struct {
	Remark string `json:"remark"`
}

// Create handles lead creation
// @Summary Create lead
// @Description Create a lead against an existing company or person
// @Tags Lead
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateLeadInput true "Lead data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /lead/create [post]
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)

	var input services.CreateLeadInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	lead, err := h.leadService.Create(c.Context(), authCtx.Admin.OrganizationID, authCtx.Admin.ID, &input)
	if err != nil {
		return leadError(c, err)
	}

	return response.Created(c, "Lead created", lead)
}

// List handles lead listing
// @Summary List leads
// @Tags Lead
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /lead/all [get]
func (h *LeadHandler) List(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	params := pagination.GetParams(c)

	leads, total, err := h.leadService.List(c.Context(), authCtx.Admin.OrganizationID, authCtx.Admin.ID, authCtx.Admin.Role, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list leads")
	}

	return response.Success(c, "", pagination.NewResponse(leads, params, total))
}

// ListAssigned lists leads assigned to the caller
// @Summary List assigned leads
// @Tags Lead
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /lead/assigned [get]
func (h *LeadHandler) ListAssigned(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	params := pagination.GetParams(c)

	leads, total, err := h.leadService.ListAssigned(c.Context(), authCtx.Admin.ID, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list assigned leads")
	}

	return response.Success(c, "", pagination.NewResponse(leads, params, total))
}

// Get handles single lead retrieval
// @Summary Get lead
// @Tags Lead
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /lead/{id} [get]
func (h *LeadHandler) Get(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid lead id")
	}

	lead, err := h.leadService.GetByID(c.Context(), authCtx.Admin.OrganizationID, id)
	if err != nil {
		return leadError(c, err)
	}

	return response.Success(c, "", lead)
}

// Update handles lead update
// @Summary Update lead
// @Tags Lead
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param body body services.UpdateLeadInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /lead/{id} [put]
func (h *LeadHandler) Update(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid lead id")
	}

	var input services.UpdateLeadInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	lead, err := h.leadService.Update(c.Context(), authCtx.Admin.OrganizationID, id, &input)
	if err != nil {
		return leadError(c, err)
	}

	return response.Success(c, "Lead updated", lead)
}

// Delete handles lead deletion
// @Summary Delete lead
// @Tags Lead
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /lead/{id} [delete]
func (h *LeadHandler) Delete(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid lead id")
	}

	if err := h.leadService.Delete(c.Context(), authCtx.Admin.OrganizationID, id); err != nil {
		return leadError(c, err)
	}

	return response.Success(c, "Lead deleted", nil)
}

// Assign hands a lead to another admin
// @Summary Assign lead
// @Tags Lead
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param body body AssignRequest true "Assignee"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /lead/{id}/assign [post]
func (h *LeadHandler) Assign(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid lead id")
	}

	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.AssigneeID == 0 {
		return response.BadRequest(c, "Assignee id is required")
	}

	lead, err := h.leadService.Assign(c.Context(), authCtx.Admin.OrganizationID, id, req.AssigneeID)
	if err != nil {
		return leadError(c, err)
	}

	return response.Success(c, "Lead assigned", lead)
}

// ScheduleFollowup sets the follow-up date on a lead
// @Summary Schedule follow-up
// @Tags Lead
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param body body services.FollowupInput true "Follow-up data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /lead/{id}/followup [post]
func (h *LeadHandler) ScheduleFollowup(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid lead id")
	}

	var input services.FollowupInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.FollowupDate.IsZero() {
		return response.BadRequest(c, "Follow-up date is required")
	}

	lead, err := h.leadService.ScheduleFollowup(c.Context(), authCtx.Admin.OrganizationID, id, &input)
	if err != nil {
		return leadError(c, err)
	}

	return response.Success(c, "Follow-up scheduled", lead)
}

// DueFollowups returns today's due follow-ups and marks them seen
// @Summary Due follow-ups
// @Tags Lead
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /lead/followups/due [get]
func (h *LeadHandler) DueFollowups(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)

	leads, err := h.leadService.DueFollowups(c.Context(), authCtx.Admin.OrganizationID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load follow-ups")
	}

	return response.Success(c, "", leads)
}

// ScheduleDemo sets demo details on a lead
// @Summary Schedule demo
// @Tags Lead
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param body body services.DemoInput true "Demo data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /lead/{id}/demo [post]
func (h *LeadHandler) ScheduleDemo(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid lead id")
	}

	var input services.DemoInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.DemoDateTime.IsZero() {
		return response.BadRequest(c, "Demo date is required")
	}

	lead, err := h.leadService.ScheduleDemo(c.Context(), authCtx.Admin.OrganizationID, id, &input)
	if err != nil {
		return leadError(c, err)
	}

	return response.Success(c, "Demo scheduled", lead)
}

// CompleteDemo marks a scheduled demo as done
// @Summary Complete demo
// @Tags Lead
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param body body DemoRemarkRequest true "Closing remark"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /lead/{id}/demo/complete [post]
func (h *LeadHandler) CompleteDemo(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid lead id")
	}

	var req DemoRemarkRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	lead, err := h.leadService.CompleteDemo(c.Context(), authCtx.Admin.OrganizationID, id, req.Remark)
	if err != nil {
		return leadError(c, err)
	}

	return response.Success(c, "Demo completed", lead)
}

// AddComment appends a comment to a lead
// @Summary Comment on lead
// @Tags Lead
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param body body CommentRequest true "Comment"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /lead/{id}/comment [post]
func (h *LeadHandler) AddComment(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid lead id")
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	comment, err := h.leadService.AddComment(c.Context(), authCtx.Admin.OrganizationID, id, authCtx.Admin.ID, req.Comment)
	if err != nil {
		return leadError(c, err)
	}

	return response.Created(c, "Comment added", comment)
}

// ListComments returns a lead's comment log
// @Summary List lead comments
// @Tags Lead
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /lead/{id}/comments [get]
func (h *LeadHandler) ListComments(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid lead id")
	}

	comments, err := h.leadService.ListComments(c.Context(), authCtx.Admin.OrganizationID, id)
	if err != nil {
		return leadError(c, err)
	}

	return response.Success(c, "", comments)
}

// ListStatuses returns the organization's lead status labels
// @Summary List lead statuses
// @Tags Lead
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /lead/statuses [get]
func (h *LeadHandler) ListStatuses(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)

	statuses, err := h.leadService.ListStatuses(c.Context(), authCtx.Admin.OrganizationID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load statuses")
	}

	return response.Success(c, "", statuses)
}

// ListSources returns the lead source suggestions
// @Summary List lead sources
// @Tags Lead
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /lead/sources [get]
func (h *LeadHandler) ListSources(c *fiber.Ctx) error {
	return response.Success(c, "", domain.LeadSources)
}

// leadError maps lead service errors to responses
func leadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrLeadNotFound):
		return response.NotFound(c, "Lead not found")
	case errors.Is(err, domain.ErrCompanyNotFound):
		return response.NotFound(c, "Company not found")
	case errors.Is(err, domain.ErrPeopleNotFound):
		return response.NotFound(c, "Person not found")
	case errors.Is(err, domain.ErrAdminNotFound):
		return response.NotFound(c, "Assignee not found")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "Assignee belongs to another organization")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid input")
	default:
		return response.InternalServerError(c, "Lead operation failed")
	}
}
