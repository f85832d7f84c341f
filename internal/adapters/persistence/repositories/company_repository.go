package repositories

import (
	"context"

	"deepnap-crm/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// CompanyIDPrefix and CompanyIDWidth define the CORP-000001 code scheme
const (
	CompanyIDPrefix = "CORP-"
	CompanyIDWidth  = 6
)

// companyRepository implements CompanyRepository interface
type companyRepository struct {
	db        *gorm.DB
	allocator *SequenceAllocator
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{
		db:        db,
		allocator: NewSequenceAllocator(db, "companies", "unique_id", "organization_id"),
	}
}

// Create creates a new company with its contacts and comments
func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// GetByID gets a company scoped to an organization
func (r *companyRepository) GetByID(ctx context.Context, orgID, id uint) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).
		Preload("Contacts").
		Preload("Comments").
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// Update updates a company
func (r *companyRepository) Update(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// Delete soft deletes a company
func (r *companyRepository) Delete(ctx context.Context, orgID, id uint) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Delete(&models.Company{}, id).Error
}

// List lists companies with pagination, optionally filtered by creator
func (r *companyRepository) List(ctx context.Context, orgID uint, creatorID *uint, offset, limit int) ([]models.Company, int64, error) {
	var companies []models.Company
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("organization_id = ?", orgID)
	if creatorID != nil {
		query = query.Where("creator_id = ?", *creatorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Contacts").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&companies).Error
	return companies, total, err
}

// CountByCreator counts companies created by an admin
func (r *companyRepository) CountByCreator(ctx context.Context, creatorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("creator_id = ?", creatorID).
		Count(&count).Error
	return count, err
}

// ExistsByEmail checks if a company with this email exists in the organization
func (r *companyRepository) ExistsByEmail(ctx context.Context, orgID uint, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("organization_id = ? AND email = ?", orgID, email).
		Count(&count).Error
	return count > 0, err
}

// ExistsByPhone checks if a company with this phone exists in the organization
func (r *companyRepository) ExistsByPhone(ctx context.Context, orgID uint, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("organization_id = ? AND phone = ?", orgID, phone).
		Count(&count).Error
	return count > 0, err
}

// AddComment appends a comment to a company
func (r *companyRepository) AddComment(ctx context.Context, comment *models.CompanyComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// NextUniqueID computes the next CORP-prefixed code for the organization
func (r *companyRepository) NextUniqueID(ctx context.Context, orgID uint) (string, error) {
	return r.allocator.Next(ctx, orgID, CompanyIDPrefix, CompanyIDWidth)
}
