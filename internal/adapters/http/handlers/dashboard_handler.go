package handlers

import (
	"deepnap-crm/internal/adapters/http/middleware"
	"deepnap-crm/internal/core/services"
	"deepnap-crm/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
	leadService      *services.LeadService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, leadService *services.LeadService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		leadService:      leadService,
	}
}

// Summary returns the dashboard counters
// @Summary Dashboard summary
// @Description Counts of companies, people, leads by status and documents
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)

	summary, err := h.dashboardService.Summary(c.Context(), authCtx.Admin.OrganizationID, authCtx.Admin.ID, authCtx.Admin.Role)
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard summary")
	}

	return response.Success(c, "", summary)
}

// AccountState returns the caller's current account state
// @Summary Account state
// @Description Current trial/subscription state and effective routes
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/account-state [get]
func (h *DashboardHandler) AccountState(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	return response.Success(c, "", authCtx.State)
}
