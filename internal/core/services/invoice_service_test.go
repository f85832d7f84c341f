package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceInput() *CreateInvoiceInput {
	return &CreateInvoiceInput{
		CustomerName: "vikram enterprises",
		TaxPercent:   18,
		Items: []InvoiceItemInput{
			{Name: "CRM license", Quantity: 2, Price: 5000},
			{Name: "Onboarding", Quantity: 1, Price: 1500},
		},
	}
}

func TestInvoiceTotals(t *testing.T) {
	svc := NewInvoiceService(newFakeInvoiceRepo())

	invoice, err := svc.Create(context.Background(), 1, 1, models.InvoiceKindInvoice, invoiceInput())
	require.NoError(t, err)

	assert.Equal(t, 11500.0, invoice.Subtotal)
	assert.Equal(t, 2070.0, invoice.Tax)
	assert.Equal(t, 13570.0, invoice.Total)
	assert.Equal(t, "Vikram Enterprises", invoice.CustomerName)
	require.Len(t, invoice.Items, 2)
	assert.Equal(t, 10000.0, invoice.Items[0].Total)
}

func TestInvoiceNamingNeverReusesNumbers(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := NewInvoiceService(repo)
	ctx := context.Background()
	year := time.Now().Format("2006")

	first, err := svc.Create(ctx, 1, 1, models.InvoiceKindInvoice, invoiceInput())
	require.NoError(t, err)
	assert.Equal(t, "1/"+year, first.Name)

	second, err := svc.Create(ctx, 1, 1, models.InvoiceKindInvoice, invoiceInput())
	require.NoError(t, err)
	assert.Equal(t, "2/"+year, second.Name)

	// deletion does not roll the counter back
	require.NoError(t, svc.Delete(ctx, 1, second.ID))
	third, err := svc.Create(ctx, 1, 1, models.InvoiceKindInvoice, invoiceInput())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("3/%s", year), third.Name)
}

func TestInvoiceRejectsInvalidInput(t *testing.T) {
	svc := NewInvoiceService(newFakeInvoiceRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, 1, "quotation", invoiceInput())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	empty := invoiceInput()
	empty.Items = nil
	_, err = svc.Create(ctx, 1, 1, models.InvoiceKindInvoice, empty)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	negative := invoiceInput()
	negative.Items[0].Quantity = 0
	_, err = svc.Create(ctx, 1, 1, models.InvoiceKindInvoice, negative)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	badTax := invoiceInput()
	badTax.TaxPercent = -1
	_, err = svc.Create(ctx, 1, 1, models.InvoiceKindInvoice, badTax)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInvoiceGetScopedToOrganization(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := NewInvoiceService(repo)
	ctx := context.Background()

	invoice, err := svc.Create(ctx, 1, 1, models.InvoiceKindProforma, invoiceInput())
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, 2, invoice.ID)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}
