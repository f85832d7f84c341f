package handlers

import (
	"errors"

	"deepnap-crm/internal/adapters/http/middleware"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/core/services"
	"deepnap-crm/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// WhatsAppHandler handles outbound WhatsApp endpoints
type WhatsAppHandler struct {
	whatsappService *services.WhatsAppService
}

// NewWhatsAppHandler creates a new WhatsApp handler
func NewWhatsAppHandler(whatsappService *services.WhatsAppService) *WhatsAppHandler {
	return &WhatsAppHandler{whatsappService: whatsappService}
}

// SendTemplate sends a WhatsApp template message
// @Summary Send WhatsApp template
// @Description Send one template message through the Meta Graph API
// @Tags WhatsApp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SendTemplateInput true "Message data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /whatsapp/send [post]
func (h *WhatsAppHandler) SendTemplate(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)

	var input services.SendTemplateInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Phone == "" || input.TemplateName == "" {
		return response.BadRequest(c, "Phone and template name are required")
	}

	err := h.whatsappService.SendTemplate(c.Context(), authCtx.Admin.OrganizationID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPhone):
			return response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, services.ErrWhatsAppNotConfigured):
			return response.InternalServerError(c, "WhatsApp messaging is not configured")
		case errors.Is(err, services.ErrWhatsAppSendFailed):
			return response.Error(c, fiber.StatusBadGateway, "Failed to send WhatsApp message")
		default:
			return response.InternalServerError(c, "WhatsApp operation failed")
		}
	}

	return response.Success(c, "Message sent", nil)
}

// Count returns how many messages have been sent
// @Summary Sent message count
// @Tags WhatsApp
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /whatsapp/count [get]
func (h *WhatsAppHandler) Count(c *fiber.Ctx) error {
	count, err := h.whatsappService.CountAll(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to count messages")
	}
	return response.Success(c, "Message count", fiber.Map{"count": count})
}

// Redirect opens a WhatsApp chat with the given phone number
// @Summary Open WhatsApp chat
// @Description Redirect to a wa.me chat link for the given 10-digit phone
// @Tags WhatsApp
// @Security BearerAuth
// @Param phone query string true "10-digit phone number"
// @Success 302
// @Failure 422 {object} response.Response
// @Router /whatsapp/redirect [get]
func (h *WhatsAppHandler) Redirect(c *fiber.Ctx) error {
	link, err := h.whatsappService.ChatLink(c.Query("phone"))
	if err != nil {
		return response.UnprocessableEntity(c, "Phone must be 10 digits")
	}
	return c.Redirect(link, fiber.StatusFound)
}
