package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/adapters/persistence/repositories"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/pkg/pagination"

	"gorm.io/gorm"
)

// PeopleService handles individual prospect business logic
type PeopleService struct {
	peopleRepo  repositories.PeopleRepository
	companyRepo repositories.CompanyRepository
}

// NewPeopleService creates a new people service
func NewPeopleService(peopleRepo repositories.PeopleRepository, companyRepo repositories.CompanyRepository) *PeopleService {
	return &PeopleService{
		peopleRepo:  peopleRepo,
		companyRepo: companyRepo,
	}
}

// CreatePeopleInput represents people creation input
type CreatePeopleInput struct {
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Comment   string `json:"comment"`
}

// UpdatePeopleInput represents people update input
type UpdatePeopleInput struct {
	Firstname  *string `json:"firstname"`
	Lastname   *string `json:"lastname"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Status     *string `json:"status"`
	Comment    *string `json:"comment"`
	IsArchived *bool   `json:"is_archived"`
}

// Create validates input, enforces the prospect cap and allocates the
// creator-scoped IND code, retrying on duplicate-key races.
func (s *PeopleService) Create(ctx context.Context, orgID, creatorID uint, input *CreatePeopleInput) (*models.People, error) {
	if input.Phone != "" && !phoneRegex.MatchString(input.Phone) {
		return nil, domain.ErrInvalidPhone
	}

	if err := s.checkProspectCap(ctx, creatorID); err != nil {
		return nil, err
	}

	var person *models.People
	for attempt := 0; attempt < repositories.MaxCodeAttempts; attempt++ {
		uniqueID, err := s.peopleRepo.NextUniqueID(ctx, creatorID)
		if err != nil {
			return nil, err
		}

		person = &models.People{
			OrganizationID: orgID,
			CreatorID:      creatorID,
			UniqueID:       uniqueID,
			Firstname:      formatName(input.Firstname),
			Lastname:       formatName(input.Lastname),
			Email:          strings.ToLower(strings.TrimSpace(input.Email)),
			Phone:          input.Phone,
			Comment:        input.Comment,
		}

		err = s.peopleRepo.Create(ctx, person)
		if err == nil {
			break
		}
		if !repositories.IsDuplicateKey(err) {
			return nil, err
		}
		person = nil
	}
	if person == nil {
		return nil, domain.ErrCodeExhausted
	}

	log.Printf("✅ Person created: %s %s (%s)", person.Firstname, person.Lastname, person.UniqueID)
	return person, nil
}

// GetByID gets a person scoped to the organization
func (s *PeopleService) GetByID(ctx context.Context, orgID, id uint) (*models.People, error) {
	person, err := s.peopleRepo.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPeopleNotFound
		}
		return nil, err
	}
	return person, nil
}

// List lists people with pagination. Non Super Admin callers only see their
// own records.
func (s *PeopleService) List(ctx context.Context, orgID, callerID uint, role string, params *pagination.Params) ([]models.People, int64, error) {
	var creatorID *uint
	if role != domain.RoleSuperAdmin {
		creatorID = &callerID
	}
	return s.peopleRepo.List(ctx, orgID, creatorID, params.Offset, params.Limit)
}

// Update applies a partial update to a person
func (s *PeopleService) Update(ctx context.Context, orgID, id uint, input *UpdatePeopleInput) (*models.People, error) {
	person, err := s.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if input.Phone != nil && *input.Phone != "" && !phoneRegex.MatchString(*input.Phone) {
		return nil, domain.ErrInvalidPhone
	}

	if input.Firstname != nil {
		person.Firstname = formatName(*input.Firstname)
	}
	if input.Lastname != nil {
		person.Lastname = formatName(*input.Lastname)
	}
	if input.Email != nil {
		person.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		person.Phone = *input.Phone
	}
	if input.Status != nil {
		person.Status = *input.Status
		// marking a prospect not interested moves it out of the working set
		if *input.Status == domain.StatusNotInterested {
			person.IsArchived = true
		}
	}
	if input.Comment != nil {
		person.Comment = *input.Comment
	}
	if input.IsArchived != nil {
		person.IsArchived = *input.IsArchived
	}

	if err := s.peopleRepo.Update(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

// Delete soft deletes a person
func (s *PeopleService) Delete(ctx context.Context, orgID, id uint) error {
	if _, err := s.GetByID(ctx, orgID, id); err != nil {
		return err
	}
	return s.peopleRepo.Delete(ctx, orgID, id)
}

// AddRemark appends a remark to a person's log
func (s *PeopleService) AddRemark(ctx context.Context, orgID, peopleID, authorID uint, text string) (*models.PeopleRemark, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.GetByID(ctx, orgID, peopleID); err != nil {
		return nil, err
	}

	remark := &models.PeopleRemark{
		PeopleID:    peopleID,
		Remark:      text,
		CreatedByID: authorID,
	}
	if err := s.peopleRepo.AddRemark(ctx, remark); err != nil {
		return nil, err
	}
	return remark, nil
}

func (s *PeopleService) checkProspectCap(ctx context.Context, creatorID uint) error {
	companies, err := s.companyRepo.CountByCreator(ctx, creatorID)
	if err != nil {
		return err
	}
	people, err := s.peopleRepo.CountByCreator(ctx, creatorID)
	if err != nil {
		return err
	}
	if companies+people >= ProspectCap {
		return domain.ErrProspectCapHit
	}
	return nil
}
