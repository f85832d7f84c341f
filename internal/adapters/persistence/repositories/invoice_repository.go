package repositories

import (
	"context"

	"deepnap-crm/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// invoiceRepository implements InvoiceRepository interface
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create creates a new invoice with its items
func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// GetByID gets an invoice scoped to an organization
func (r *invoiceRepository) GetByID(ctx context.Context, orgID, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Delete soft deletes an invoice
func (r *invoiceRepository) Delete(ctx context.Context, orgID, id uint) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Delete(&models.Invoice{}, id).Error
}

// List lists invoices of a kind with pagination
func (r *invoiceRepository) List(ctx context.Context, orgID uint, kind string, offset, limit int) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("organization_id = ? AND kind = ?", orgID, kind)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Items").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&invoices).Error
	return invoices, total, err
}

// CountByOrganization counts documents of a kind for sequential naming
func (r *invoiceRepository) CountByOrganization(ctx context.Context, orgID uint, kind string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Unscoped().
		Where("organization_id = ? AND kind = ?", orgID, kind).
		Count(&count).Error
	return count, err
}

// whatsappRepository implements WhatsAppRepository interface
type whatsappRepository struct {
	db *gorm.DB
}

// NewWhatsAppRepository creates a new whatsapp message repository
func NewWhatsAppRepository(db *gorm.DB) WhatsAppRepository {
	return &whatsappRepository{db: db}
}

// Create logs one outbound template send
func (r *whatsappRepository) Create(ctx context.Context, msg *models.WhatsAppMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// CountAll counts every message ever sent
func (r *whatsappRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WhatsAppMessage{}).Count(&count).Error
	return count, err
}

// settingRepository implements SettingRepository interface
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Create creates the settings row of an organization
func (r *settingRepository) Create(ctx context.Context, setting *models.Setting) error {
	return r.db.WithContext(ctx).Create(setting).Error
}

// GetByOrganizationID gets the settings row of an organization
func (r *settingRepository) GetByOrganizationID(ctx context.Context, orgID uint) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Update updates the settings row
func (r *settingRepository) Update(ctx context.Context, setting *models.Setting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}
