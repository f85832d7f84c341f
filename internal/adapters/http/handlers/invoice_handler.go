package handlers

import (
	"errors"

	"deepnap-crm/internal/adapters/http/middleware"
	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/core/services"
	"deepnap-crm/internal/pkg/pagination"
	"deepnap-crm/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// InvoiceHandler handles invoice and proforma invoice endpoints. One handler
// serves both document kinds; the kind is fixed at construction so the same
// methods mount under /invoice and /proforma-invoice.
type InvoiceHandler struct {
	invoiceService *services.InvoiceService
	kind           string
}

// NewInvoiceHandler creates a handler for regular invoices
func NewInvoiceHandler(invoiceService *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, kind: models.InvoiceKindInvoice}
}

// NewProformaHandler creates a handler for proforma invoices
func NewProformaHandler(invoiceService *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, kind: models.InvoiceKindProforma}
}

// Create handles document creation
// @Summary Create invoice
// @Description Create an invoice or proforma with a sequential "N/yyyy" name
// @Tags Invoice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateInvoiceInput true "Invoice data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /invoice/create [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)

	var input services.CreateInvoiceInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.CustomerName == "" {
		return response.BadRequest(c, "Customer name is required")
	}
	if len(input.Items) == 0 {
		return response.BadRequest(c, "At least one item is required")
	}

	invoice, err := h.invoiceService.Create(c.Context(), authCtx.Admin.OrganizationID, authCtx.Admin.ID, h.kind, &input)
	if err != nil {
		return invoiceError(c, err)
	}

	return response.Created(c, "Document created", invoice)
}

// List handles document listing
// @Summary List invoices
// @Tags Invoice
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /invoice/all [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	params := pagination.GetParams(c)

	invoices, total, err := h.invoiceService.List(c.Context(), authCtx.Admin.OrganizationID, h.kind, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list documents")
	}

	return response.Success(c, "", pagination.NewResponse(invoices, params, total))
}

// Get handles single document retrieval
// @Summary Get invoice
// @Tags Invoice
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /invoice/{id} [get]
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid document id")
	}

	invoice, err := h.invoiceService.GetByID(c.Context(), authCtx.Admin.OrganizationID, id)
	if err != nil {
		return invoiceError(c, err)
	}

	return response.Success(c, "", invoice)
}

// Delete handles document deletion
// @Summary Delete invoice
// @Tags Invoice
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /invoice/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	authCtx := middleware.GetAuthContext(c)
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid document id")
	}

	if err := h.invoiceService.Delete(c.Context(), authCtx.Admin.OrganizationID, id); err != nil {
		return invoiceError(c, err)
	}

	return response.Success(c, "Document deleted", nil)
}

// invoiceError maps invoice service errors to responses
func invoiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return response.NotFound(c, "Document not found")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid input")
	default:
		return response.InternalServerError(c, "Invoice operation failed")
	}
}
