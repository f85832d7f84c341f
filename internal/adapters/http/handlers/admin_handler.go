package handlers

import (
	"errors"

	"deepnap-crm/internal/adapters/http/middleware"
	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/core/services"
	"deepnap-crm/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles employee management endpoints (Super Admin only)
type AdminHandler struct {
	authService *services.AuthService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *services.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// AllowedRoutesRequest represents an allowlist update request body
type AllowedRoutesRequest struct {
	AllowedRoutes []string `json:"allowedroutes"`
}

// List lists the organization's employees
// @Summary List employees
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/all [get]
func (h *AdminHandler) List(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)

	admins, err := h.authService.ListEmployees(c.Context(), authCtx.Admin.OrganizationID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list employees")
	}

	out := make([]*models.AdminResponse, 0, len(admins))
	for i := range admins {
		out = append(out, admins[i].ToResponse())
	}

	return response.Success(c, "", out)
}

// UpdateAllowedRoutes replaces an employee's route allowlist
// @Summary Update employee routes
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Param body body AllowedRoutesRequest true "Allowed routes"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/{id}/routes [put]
func (h *AdminHandler) UpdateAllowedRoutes(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid admin id")
	}

	var req AllowedRoutesRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err = h.authService.UpdateAllowedRoutes(c.Context(), authCtx.Admin.OrganizationID, id, req.AllowedRoutes)
	if err != nil {
		return adminError(c, err)
	}

	return response.Success(c, "Routes updated", nil)
}

// Delete removes an employee account
// @Summary Delete employee
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/{id} [delete]
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid admin id")
	}

	if err := h.authService.DeleteEmployee(c.Context(), authCtx.Admin.OrganizationID, id); err != nil {
		return adminError(c, err)
	}

	return response.Success(c, "Employee deleted", nil)
}

// adminError maps employee management errors to responses
func adminError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrAdminNotFound):
		return response.NotFound(c, "Employee not found")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "Operation not allowed on this account")
	default:
		return response.InternalServerError(c, "Employee operation failed")
	}
}
