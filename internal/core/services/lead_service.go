package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/adapters/persistence/repositories"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/pkg/pagination"

	"gorm.io/gorm"
)

// LeadService handles lead business logic
type LeadService struct {
	leadRepo    repositories.LeadRepository
	companyRepo repositories.CompanyRepository
	peopleRepo  repositories.PeopleRepository
	adminRepo   repositories.AdminRepository
}

// NewLeadService creates a new lead service
func NewLeadService(
	leadRepo repositories.LeadRepository,
	companyRepo repositories.CompanyRepository,
	peopleRepo repositories.PeopleRepository,
	adminRepo repositories.AdminRepository,
) *LeadService {
	return &LeadService{
		leadRepo:    leadRepo,
		companyRepo: companyRepo,
		peopleRepo:  peopleRepo,
		adminRepo:   adminRepo,
	}
}

// CreateLeadInput represents lead creation input
type CreateLeadInput struct {
	LeadType     string `json:"leadtype" validate:"required"`
	CompanyID    *uint  `json:"company_id"`
	PeopleID     *uint  `json:"people_id"`
	Status       string `json:"status"`
	Source       string `json:"source"`
	LeadCategory string `json:"lead_category"`
	Notes        string `json:"notes"`
	Location     string `json:"location"`
}

// UpdateLeadInput represents lead update input
type UpdateLeadInput struct {
	Status       *string `json:"status"`
	Source       *string `json:"source"`
	LeadCategory *string `json:"lead_category"`
	Notes        *string `json:"notes"`
	Location     *string `json:"location"`
}

// FollowupInput represents a follow-up scheduling request
type FollowupInput struct {
	FollowupDate   time.Time `json:"followup_date" validate:"required"`
	FollowupReason string    `json:"followup_reason"`
}

// DemoInput represents a demo scheduling request
type DemoInput struct {
	DemoDateTime time.Time `json:"demo_date_time" validate:"required"`
	DemoType     string    `json:"demo_type"`
	DemoNotes    string    `json:"demo_notes"`
}

// Create creates a lead against an existing company or person
func (s *LeadService) Create(ctx context.Context, orgID, creatorID uint, input *CreateLeadInput) (*models.Lead, error) {
	// 1. The referenced prospect must exist within the organization
	switch input.LeadType {
	case models.LeadTypeCompany:
		if input.CompanyID == nil {
			return nil, domain.ErrInvalidInput
		}
		if _, err := s.companyRepo.GetByID(ctx, orgID, *input.CompanyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrCompanyNotFound
			}
			return nil, err
		}
		input.PeopleID = nil
	case models.LeadTypePeople:
		if input.PeopleID == nil {
			return nil, domain.ErrInvalidInput
		}
		if _, err := s.peopleRepo.GetByID(ctx, orgID, *input.PeopleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrPeopleNotFound
			}
			return nil, err
		}
		input.CompanyID = nil
	default:
		return nil, domain.ErrInvalidInput
	}

	status := input.Status
	if status == "" {
		status = "New"
	}
	source := input.Source
	if source == "" {
		source = "Social Media"
	}

	lead := &models.Lead{
		OrganizationID: orgID,
		CreatorID:      creatorID,
		LeadType:       input.LeadType,
		CompanyID:      input.CompanyID,
		PeopleID:       input.PeopleID,
		Status:         status,
		Source:         source,
		LeadCategory:   input.LeadCategory,
		Notes:          input.Notes,
		Location:       input.Location,
	}
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}

	log.Printf("✅ Lead created: #%d (%s) in organization %d", lead.ID, lead.LeadType, orgID)
	return lead, nil
}

// GetByID gets a lead scoped to the organization
func (s *LeadService) GetByID(ctx context.Context, orgID, id uint) (*models.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

// List lists leads with pagination. Non Super Admin callers see leads they
// created plus leads assigned to them.
func (s *LeadService) List(ctx context.Context, orgID, callerID uint, role string, params *pagination.Params) ([]models.Lead, int64, error) {
	if role == domain.RoleSuperAdmin {
		return s.leadRepo.List(ctx, orgID, nil, params.Offset, params.Limit)
	}
	return s.leadRepo.List(ctx, orgID, &callerID, params.Offset, params.Limit)
}

// ListAssigned lists leads assigned to an admin
func (s *LeadService) ListAssigned(ctx context.Context, adminID uint, params *pagination.Params) ([]models.Lead, int64, error) {
	return s.leadRepo.ListAssigned(ctx, adminID, params.Offset, params.Limit)
}

// Update applies a partial update to a lead
func (s *LeadService) Update(ctx context.Context, orgID, id uint, input *UpdateLeadInput) (*models.Lead, error) {
	lead, err := s.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		lead.Status = *input.Status
	}
	if input.Source != nil {
		lead.Source = *input.Source
	}
	if input.LeadCategory != nil {
		lead.LeadCategory = *input.LeadCategory
	}
	if input.Notes != nil {
		lead.Notes = *input.Notes
	}
	if input.Location != nil {
		lead.Location = *input.Location
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// Delete soft deletes a lead
func (s *LeadService) Delete(ctx context.Context, orgID, id uint) error {
	if _, err := s.GetByID(ctx, orgID, id); err != nil {
		return err
	}
	return s.leadRepo.Delete(ctx, orgID, id)
}

// Assign hands a lead to another admin of the same organization
func (s *LeadService) Assign(ctx context.Context, orgID, leadID, assigneeID uint) (*models.Lead, error) {
	lead, err := s.GetByID(ctx, orgID, leadID)
	if err != nil {
		return nil, err
	}

	assignee, err := s.adminRepo.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}
	if assignee.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}

	lead.AssignedID = &assigneeID
	lead.Status = "Assigned"
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}

	log.Printf("✅ Lead #%d assigned to %s", lead.ID, assignee.Email)
	return lead, nil
}

// ScheduleFollowup sets the follow-up date on a lead and resets its seen flag
func (s *LeadService) ScheduleFollowup(ctx context.Context, orgID, leadID uint, input *FollowupInput) (*models.Lead, error) {
	lead, err := s.GetByID(ctx, orgID, leadID)
	if err != nil {
		return nil, err
	}

	lead.FollowupDate = &input.FollowupDate
	lead.FollowupReason = input.FollowupReason
	lead.FollowupSeen = false
	lead.Status = "Follow Up"
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// DueFollowups returns leads due for follow-up up to end of today and marks
// them seen so they surface only once.
func (s *LeadService) DueFollowups(ctx context.Context, orgID uint) ([]models.Lead, error) {
	now := time.Now()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	leads, err := s.leadRepo.DueFollowups(ctx, orgID, endOfDay)
	if err != nil {
		return nil, err
	}

	if len(leads) > 0 {
		ids := make([]uint, 0, len(leads))
		for _, l := range leads {
			ids = append(ids, l.ID)
		}
		if err := s.leadRepo.MarkFollowupsSeen(ctx, orgID, ids); err != nil {
			log.Printf("❌ Failed to mark followups seen: %v", err)
		}
	}

	return leads, nil
}

// ScheduleDemo sets demo details on a lead
func (s *LeadService) ScheduleDemo(ctx context.Context, orgID, leadID uint, input *DemoInput) (*models.Lead, error) {
	lead, err := s.GetByID(ctx, orgID, leadID)
	if err != nil {
		return nil, err
	}

	lead.DemoDateTime = &input.DemoDateTime
	lead.DemoType = input.DemoType
	lead.DemoNotes = input.DemoNotes
	lead.DemoCompleted = false
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// CompleteDemo marks a scheduled demo as done with a closing remark
func (s *LeadService) CompleteDemo(ctx context.Context, orgID, leadID uint, remark string) (*models.Lead, error) {
	lead, err := s.GetByID(ctx, orgID, leadID)
	if err != nil {
		return nil, err
	}
	if lead.DemoDateTime == nil {
		return nil, domain.ErrInvalidInput
	}

	lead.DemoCompleted = true
	lead.DemoRemark = remark
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// AddComment appends a comment to a lead
func (s *LeadService) AddComment(ctx context.Context, orgID, leadID, authorID uint, text string) (*models.LeadComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.GetByID(ctx, orgID, leadID); err != nil {
		return nil, err
	}

	comment := &models.LeadComment{
		LeadID:      leadID,
		Comment:     text,
		CreatedByID: authorID,
	}
	if err := s.leadRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns the comment log of a lead
func (s *LeadService) ListComments(ctx context.Context, orgID, leadID uint) ([]models.LeadComment, error) {
	if _, err := s.GetByID(ctx, orgID, leadID); err != nil {
		return nil, err
	}
	return s.leadRepo.ListComments(ctx, leadID)
}

// ListStatuses returns the organization's lead status labels
func (s *LeadService) ListStatuses(ctx context.Context, orgID uint) ([]models.LeadStatus, error) {
	return s.leadRepo.ListStatuses(ctx, orgID)
}

// CountsByStatus returns lead counts grouped by status. Non Super Admin
// callers only see counts over their own leads.
func (s *LeadService) CountsByStatus(ctx context.Context, orgID, callerID uint, role string) (map[string]int64, error) {
	if role == domain.RoleSuperAdmin {
		return s.leadRepo.CountsByStatus(ctx, orgID, nil)
	}
	return s.leadRepo.CountsByStatus(ctx, orgID, &callerID)
}
