package handlers

import (
	"errors"
	"strconv"

	"deepnap-crm/internal/adapters/http/middleware"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/core/services"
	"deepnap-crm/internal/pkg/pagination"
	"deepnap-crm/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CompanyHandler handles corporate prospect endpoints
type CompanyHandler struct {
	companyService *services.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// CommentRequest represents a comment/remark creation request body
type CommentRequest struct {
	Comment string `json:"comment"`
}

// Create handles company creation
// @Summary Create company
// @Description Create a corporate prospect with an organization-scoped code
// @Tags Company
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateCompanyInput true "Company data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /company/create [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)

	var input services.CreateCompanyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.CompanyName == "" {
		return response.BadRequest(c, "Company name is required")
	}
	if input.ContactPersonName == "" {
		return response.BadRequest(c, "Contact person name is required")
	}

	company, err := h.companyService.Create(c.Context(), authCtx.Admin.OrganizationID, authCtx.Admin.ID, &input)
	if err != nil {
		return companyError(c, err)
	}

	return response.Created(c, "Company created", company)
}

// List handles company listing
// @Summary List companies
// @Tags Company
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /company/all [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	params := pagination.GetParams(c)

	companies, total, err := h.companyService.List(c.Context(), authCtx.Admin.OrganizationID, authCtx.Admin.ID, authCtx.Admin.Role, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list companies")
	}

	return response.Success(c, "", pagination.NewResponse(companies, params, total))
}

// Get handles single company retrieval
// @Summary Get company
// @Tags Company
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /company/{id} [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid company id")
	}

	company, err := h.companyService.GetByID(c.Context(), authCtx.Admin.OrganizationID, id)
	if err != nil {
		return companyError(c, err)
	}

	return response.Success(c, "", company)
}

// Update handles company update
// @Summary Update company
// @Tags Company
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param body body services.UpdateCompanyInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /company/{id} [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid company id")
	}

	var input services.UpdateCompanyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	company, err := h.companyService.Update(c.Context(), authCtx.Admin.OrganizationID, id, &input)
	if err != nil {
		return companyError(c, err)
	}

	return response.Success(c, "Company updated", company)
}

// Delete handles company deletion
// @Summary Delete company
// @Tags Company
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /company/{id} [delete]
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid company id")
	}

	if err := h.companyService.Delete(c.Context(), authCtx.Admin.OrganizationID, id); err != nil {
		return companyError(c, err)
	}

	return response.Success(c, "Company deleted", nil)
}

// AddComment appends a comment to a company
// @Summary Comment on company
// @Tags Company
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param body body CommentRequest true "Comment"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /company/{id}/comment [post]
func (h *CompanyHandler) AddComment(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid company id")
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	comment, err := h.companyService.AddComment(c.Context(), authCtx.Admin.OrganizationID, id, authCtx.Admin.ID, req.Comment)
	if err != nil {
		return companyError(c, err)
	}

	return response.Created(c, "Comment added", comment)
}

// companyError maps company service errors to responses
func companyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrCompanyNotFound):
		return response.NotFound(c, "Company not found")
	case errors.Is(err, domain.ErrInvalidPhone):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrInvalidGST):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrDuplicateEntry):
		return response.Conflict(c, "A company with this email or phone already exists")
	case errors.Is(err, domain.ErrProspectCapHit):
		return response.Forbidden(c, "Prospect limit reached for your plan")
	case errors.Is(err, domain.ErrCodeExhausted):
		return response.Conflict(c, "Could not allocate a company code, please retry")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid input")
	default:
		return response.InternalServerError(c, "Company operation failed")
	}
}

// parseID extracts the :id path parameter
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
