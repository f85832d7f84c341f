package repositories

import (
	"context"
	"time"

	"deepnap-crm/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// leadRepository implements LeadRepository interface
type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

// Create creates a new lead
func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

// GetByID gets a lead scoped to an organization
func (r *leadRepository) GetByID(ctx context.Context, orgID, id uint) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("People").
		Preload("Assigned").
		Preload("Comments").
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// Update updates a lead
func (r *leadRepository) Update(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

// Delete soft deletes a lead
func (r *leadRepository) Delete(ctx context.Context, orgID, id uint) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Delete(&models.Lead{}, id).Error
}

// List lists leads with pagination, optionally filtered by creator
func (r *leadRepository) List(ctx context.Context, orgID uint, creatorID *uint, offset, limit int) ([]models.Lead, int64, error) {
	var leads []models.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Lead{}).
		Where("organization_id = ?", orgID)
	if creatorID != nil {
		query = query.Where("creator_id = ?", *creatorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Company").
		Preload("People").
		Preload("Assigned").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&leads).Error
	return leads, total, err
}

// ListAssigned lists leads assigned to an admin
func (r *leadRepository) ListAssigned(ctx context.Context, adminID uint, offset, limit int) ([]models.Lead, int64, error) {
	var leads []models.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Lead{}).
		Where("assigned_id = ?", adminID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Company").
		Preload("People").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&leads).Error
	return leads, total, err
}

// CountsByStatus returns lead counts grouped by status
func (r *leadRepository) CountsByStatus(ctx context.Context, orgID uint, creatorID *uint) (map[string]int64, error) {
	type result struct {
		Status string
		Count  int64
	}
	var results []result

	query := r.db.WithContext(ctx).Model(&models.Lead{}).
		Select("status, COUNT(*) as count").
		Where("organization_id = ?", orgID)
	if creatorID != nil {
		query = query.Where("creator_id = ?", *creatorID)
	}

	if err := query.Group("status").Find(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}

// DueFollowups returns unseen leads of an organization whose follow-up
// date has arrived
func (r *leadRepository) DueFollowups(ctx context.Context, orgID uint, until time.Time) ([]models.Lead, error) {
	var leads []models.Lead
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("People").
		Preload("Assigned").
		Where("organization_id = ? AND followup_date IS NOT NULL AND followup_date <= ? AND followup_seen = ?",
			orgID, until, false).
		Order("followup_date ASC").
		Find(&leads).Error
	return leads, err
}

// DueFollowupsForAll returns due unseen follow-ups across all tenants,
// used by the daily reminder sweep
func (r *leadRepository) DueFollowupsForAll(ctx context.Context, until time.Time) ([]models.Lead, error) {
	var leads []models.Lead
	err := r.db.WithContext(ctx).
		Preload("Assigned").
		Where("followup_date IS NOT NULL AND followup_date <= ? AND followup_seen = ?", until, false).
		Order("organization_id ASC, followup_date ASC").
		Find(&leads).Error
	return leads, err
}

// MarkFollowupsSeen flags follow-up reminders as acknowledged
func (r *leadRepository) MarkFollowupsSeen(ctx context.Context, orgID uint, leadIDs []uint) error {
	if len(leadIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Lead{}).
		Where("organization_id = ? AND id IN ?", orgID, leadIDs).
		Update("followup_seen", true).Error
}

// AddComment appends a comment to a lead
func (r *leadRepository) AddComment(ctx context.Context, comment *models.LeadComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListComments lists comments of a lead, newest first
func (r *leadRepository) ListComments(ctx context.Context, leadID uint) ([]models.LeadComment, error) {
	var comments []models.LeadComment
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("id DESC").
		Find(&comments).Error
	return comments, err
}

// SeedDefaultStatuses upserts the default status labels for an
// organization. Duplicates are tolerated so re-seeding is safe.
func (r *leadRepository) SeedDefaultStatuses(ctx context.Context, orgID uint, statuses []string) error {
	for _, status := range statuses {
		row := models.LeadStatus{
			OrganizationID: orgID,
			Status:         status,
			IsDefault:      true,
		}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&row).Error
		if err != nil && !IsDuplicateKey(err) {
			return err
		}
	}
	return nil
}

// ListStatuses lists status labels of an organization
func (r *leadRepository) ListStatuses(ctx context.Context, orgID uint) ([]models.LeadStatus, error) {
	var statuses []models.LeadStatus
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("id ASC").
		Find(&statuses).Error
	return statuses, err
}
