package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/adapters/persistence/repositories"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/pkg/pagination"

	"gorm.io/gorm"
)

// InvoiceService handles invoice and proforma invoice business logic.
// Both kinds share the table; the per-kind counter never resets, deleted
// documents still advance it.
type InvoiceService struct {
	invoiceRepo repositories.InvoiceRepository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repositories.InvoiceRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo}
}

// InvoiceItemInput represents one invoice line
type InvoiceItemInput struct {
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price" validate:"required,min=0"`
}

// CreateInvoiceInput represents invoice creation input
type CreateInvoiceInput struct {
	CustomerName  string             `json:"customer_name" validate:"required"`
	CustomerEmail string             `json:"customer_email"`
	CustomerPhone string             `json:"customer_phone"`
	StartDate     *time.Time         `json:"startdate"`
	ExpireDate    *time.Time         `json:"expiredate"`
	Remarks       string             `json:"remarks"`
	TaxPercent    float64            `json:"tax_percent"`
	Items         []InvoiceItemInput `json:"items" validate:"required,min=1"`
}

// Create creates a document of the given kind with a "N/yyyy" name derived
// from the organization's document count for that kind.
func (s *InvoiceService) Create(ctx context.Context, orgID, creatorID uint, kind string, input *CreateInvoiceInput) (*models.Invoice, error) {
	if kind != models.InvoiceKindInvoice && kind != models.InvoiceKindProforma {
		return nil, domain.ErrInvalidInput
	}
	if len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.TaxPercent < 0 {
		return nil, domain.ErrInvalidInput
	}

	items := make([]models.InvoiceItem, 0, len(input.Items))
	var subtotal float64
	for _, it := range input.Items {
		if it.Quantity < 1 || it.Price < 0 {
			return nil, domain.ErrInvalidInput
		}
		lineTotal := float64(it.Quantity) * it.Price
		subtotal += lineTotal
		items = append(items, models.InvoiceItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Total:    lineTotal,
		})
	}

	tax := subtotal * input.TaxPercent / 100

	count, err := s.invoiceRepo.CountByOrganization(ctx, orgID, kind)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%d/%s", count+1, time.Now().Format("2006"))

	invoice := &models.Invoice{
		OrganizationID: orgID,
		CreatorID:      creatorID,
		Kind:           kind,
		Name:           name,
		CustomerName:   formatName(input.CustomerName),
		CustomerEmail:  input.CustomerEmail,
		CustomerPhone:  input.CustomerPhone,
		StartDate:      input.StartDate,
		ExpireDate:     input.ExpireDate,
		Remarks:        input.Remarks,
		Subtotal:       subtotal,
		Tax:            tax,
		Total:          subtotal + tax,
		Items:          items,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	log.Printf("✅ %s %s created for organization %d", kind, invoice.Name, orgID)
	return invoice, nil
}

// GetByID gets a document scoped to the organization
func (s *InvoiceService) GetByID(ctx context.Context, orgID, id uint) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return invoice, nil
}

// List lists documents of one kind with pagination
func (s *InvoiceService) List(ctx context.Context, orgID uint, kind string, params *pagination.Params) ([]models.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, orgID, kind, params.Offset, params.Limit)
}

// Delete soft deletes a document. Numbering is count based over all rows
// including deleted ones, so deletion never reuses a name.
func (s *InvoiceService) Delete(ctx context.Context, orgID, id uint) error {
	if _, err := s.GetByID(ctx, orgID, id); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(ctx, orgID, id)
}
