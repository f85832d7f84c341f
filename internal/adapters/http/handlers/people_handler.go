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

// PeopleHandler handles individual prospect endpoints
type PeopleHandler struct {
	peopleService *services.PeopleService
}

// NewPeopleHandler creates a new people handler
func NewPeopleHandler(peopleService *services.PeopleService) *PeopleHandler {
	return &PeopleHandler{peopleService: peopleService}
}

// RemarkRequest represents a remark creation request body
type RemarkRequest struct {
	Remark string `json:"remark"`
}

// Create handles person creation
// @Summary Create person
// @Description Create an individual prospect with a creator-scoped code
// @Tags People
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreatePeopleInput true "Person data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /people/create [post]
func (h *PeopleHandler) Create(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)

	var input services.CreatePeopleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Firstname == "" {
		return response.BadRequest(c, "First name is required")
	}

	person, err := h.peopleService.Create(c.Context(), authCtx.Admin.OrganizationID, authCtx.Admin.ID, &input)
	if err != nil {
		return peopleError(c, err)
	}

	return response.Created(c, "Person created", person)
}

// List handles people listing
// @Summary List people
// @Tags People
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /people/all [get]
func (h *PeopleHandler) List(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	params := pagination.GetParams(c)

	people, total, err := h.peopleService.List(c.Context(), authCtx.Admin.OrganizationID, authCtx.Admin.ID, authCtx.Admin.Role, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list people")
	}

	return response.Success(c, "", pagination.NewResponse(people, params, total))
}

// Get handles single person retrieval
// @Summary Get person
// @Tags People
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /people/{id} [get]
func (h *PeopleHandler) Get(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid person id")
	}

	person, err := h.peopleService.GetByID(c.Context(), authCtx.Admin.OrganizationID, id)
	if err != nil {
		return peopleError(c, err)
	}

	return response.Success(c, "", person)
}

// Update handles person update
// @Summary Update person
// @Tags People
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Param body body services.UpdatePeopleInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /people/{id} [put]
func (h *PeopleHandler) Update(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid person id")
	}

	var input services.UpdatePeopleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	person, err := h.peopleService.Update(c.Context(), authCtx.Admin.OrganizationID, id, &input)
	if err != nil {
		return peopleError(c, err)
	}

	return response.Success(c, "Person updated", person)
}

// Delete handles person deletion
// @Summary Delete person
// @Tags People
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /people/{id} [delete]
func (h *PeopleHandler) Delete(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid person id")
	}

	if err := h.peopleService.Delete(c.Context(), authCtx.Admin.OrganizationID, id); err != nil {
		return peopleError(c, err)
	}

	return response.Success(c, "Person deleted", nil)
}

// AddRemark appends a remark to a person's log
// @Summary Add remark
// @Tags People
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Param body body RemarkRequest true "Remark"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /people/{id}/remark [post]
func (h *PeopleHandler) AddRemark(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid person id")
	}

	var req RemarkRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	remark, err := h.peopleService.AddRemark(c.Context(), authCtx.Admin.OrganizationID, id, authCtx.Admin.ID, req.Remark)
	if err != nil {
		return peopleError(c, err)
	}

	return response.Created(c, "Remark added", remark)
}

// peopleError maps people service errors to responses
func peopleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrPeopleNotFound):
		return response.NotFound(c, "Person not found")
	case errors.Is(err, domain.ErrInvalidPhone):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrProspectCapHit):
		return response.Forbidden(c, "Prospect limit reached for your plan")
	case errors.Is(err, domain.ErrCodeExhausted):
		return response.Conflict(c, "Could not allocate a person code, please retry")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid input")
	default:
		return response.InternalServerError(c, "People operation failed")
	}
}
