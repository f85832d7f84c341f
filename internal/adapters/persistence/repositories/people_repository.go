package repositories

import (
	"context"

	"deepnap-crm/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PeopleIDPrefix and PeopleIDWidth define the IND-001 code scheme.
// People codes are scoped per creator, not per organization.
const (
	PeopleIDPrefix = "IND-"
	PeopleIDWidth  = 3
)

// peopleRepository implements PeopleRepository interface
type peopleRepository struct {
	db        *gorm.DB
	allocator *SequenceAllocator
}

// NewPeopleRepository creates a new people repository
func NewPeopleRepository(db *gorm.DB) PeopleRepository {
	return &peopleRepository{
		db:        db,
		allocator: NewSequenceAllocator(db, "people", "unique_id", "creator_id"),
	}
}

// Create creates a new people record
func (r *peopleRepository) Create(ctx context.Context, people *models.People) error {
	return r.db.WithContext(ctx).Create(people).Error
}

// GetByID gets a person scoped to an organization
func (r *peopleRepository) GetByID(ctx context.Context, orgID, id uint) (*models.People, error) {
	var people models.People
	err := r.db.WithContext(ctx).
		Preload("Remarks").
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&people).Error
	if err != nil {
		return nil, err
	}
	return &people, nil
}

// Update updates a people record
func (r *peopleRepository) Update(ctx context.Context, people *models.People) error {
	return r.db.WithContext(ctx).Save(people).Error
}

// Delete soft deletes a people record
func (r *peopleRepository) Delete(ctx context.Context, orgID, id uint) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Delete(&models.People{}, id).Error
}

// List lists people with pagination, optionally filtered by creator
func (r *peopleRepository) List(ctx context.Context, orgID uint, creatorID *uint, offset, limit int) ([]models.People, int64, error) {
	var people []models.People
	var total int64

	query := r.db.WithContext(ctx).Model(&models.People{}).
		Where("organization_id = ?", orgID)
	if creatorID != nil {
		query = query.Where("creator_id = ?", *creatorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&people).Error
	return people, total, err
}

// CountByCreator counts people created by an admin
func (r *peopleRepository) CountByCreator(ctx context.Context, creatorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.People{}).
		Where("creator_id = ?", creatorID).
		Count(&count).Error
	return count, err
}

// AddRemark appends a remark to a person
func (r *peopleRepository) AddRemark(ctx context.Context, remark *models.PeopleRemark) error {
	return r.db.WithContext(ctx).Create(remark).Error
}

// NextUniqueID computes the next IND-prefixed code for the creator
func (r *peopleRepository) NextUniqueID(ctx context.Context, creatorID uint) (string, error) {
	return r.allocator.Next(ctx, creatorID, PeopleIDPrefix, PeopleIDWidth)
}
