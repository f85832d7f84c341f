package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"unicode"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/adapters/persistence/repositories"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/pkg/pagination"

	"gorm.io/gorm"
)

// ProspectCap limits how many prospects one creator can hold on the base plan
const ProspectCap = 1000

var (
	phoneRegex = regexp.MustCompile(`^\d{10}$`)
	gstRegex   = regexp.MustCompile(`^[A-Z0-9]{15}$`)
)

// CompanyService handles corporate prospect business logic
type CompanyService struct {
	companyRepo repositories.CompanyRepository
	peopleRepo  repositories.PeopleRepository
}

// NewCompanyService creates a new company service
func NewCompanyService(companyRepo repositories.CompanyRepository, peopleRepo repositories.PeopleRepository) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		peopleRepo:  peopleRepo,
	}
}

// CompanyContactInput represents one additional contact person
type CompanyContactInput struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Designation string `json:"designation"`
	Email       string `json:"email"`
}

// CreateCompanyInput represents company creation input
type CreateCompanyInput struct {
	CompanyName       string                `json:"companyname" validate:"required"`
	ContactPersonName string                `json:"contact_person_name" validate:"required"`
	Designation       string                `json:"designation"`
	Email             string                `json:"email"`
	Phone             string                `json:"phone"`
	Website           string                `json:"website"`
	GSTNo             string                `json:"gst_no"`
	Address           string                `json:"address"`
	Contacts          []CompanyContactInput `json:"additional_contacts"`
}

// UpdateCompanyInput represents company update input
type UpdateCompanyInput struct {
	CompanyName       *string `json:"companyname"`
	ContactPersonName *string `json:"contact_person_name"`
	Designation       *string `json:"designation"`
	Email             *string `json:"email"`
	Phone             *string `json:"phone"`
	Website           *string `json:"website"`
	GSTNo             *string `json:"gst_no"`
	Address           *string `json:"address"`
	Status            *string `json:"status"`
	IsArchived        *bool   `json:"is_archived"`
}

// Create validates input, enforces the prospect cap and allocates the
// organization-scoped CORP code. The insert retries with a fresh code when
// a concurrent allocation wins the race.
func (s *CompanyService) Create(ctx context.Context, orgID, creatorID uint, input *CreateCompanyInput) (*models.Company, error) {
	// 1. Field validation
	if input.Phone != "" && !phoneRegex.MatchString(input.Phone) {
		return nil, domain.ErrInvalidPhone
	}
	if input.GSTNo != "" && !gstRegex.MatchString(input.GSTNo) {
		return nil, domain.ErrInvalidGST
	}
	for _, c := range input.Contacts {
		if !phoneRegex.MatchString(c.Phone) {
			return nil, domain.ErrInvalidPhone
		}
	}

	// 2. Prospect cap counts companies and people together per creator
	if err := s.checkProspectCap(ctx, creatorID); err != nil {
		return nil, err
	}

	// 3. Duplicate contact details within the organization
	if input.Email != "" {
		exists, err := s.companyRepo.ExistsByEmail(ctx, orgID, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateEntry
		}
	}
	if input.Phone != "" {
		exists, err := s.companyRepo.ExistsByPhone(ctx, orgID, input.Phone)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateEntry
		}
	}

	contacts := make([]models.CompanyContact, 0, len(input.Contacts))
	for _, c := range input.Contacts {
		contacts = append(contacts, models.CompanyContact{
			Name:        formatName(c.Name),
			Phone:       c.Phone,
			Designation: c.Designation,
			Email:       strings.ToLower(strings.TrimSpace(c.Email)),
		})
	}

	// 4. Allocate code and insert, retrying on duplicate-key races
	var company *models.Company
	for attempt := 0; attempt < repositories.MaxCodeAttempts; attempt++ {
		uniqueID, err := s.companyRepo.NextUniqueID(ctx, orgID)
		if err != nil {
			return nil, err
		}

		company = &models.Company{
			OrganizationID:    orgID,
			CreatorID:         creatorID,
			UniqueID:          uniqueID,
			CompanyName:       formatName(input.CompanyName),
			ContactPersonName: formatName(input.ContactPersonName),
			Designation:       input.Designation,
			Email:             strings.ToLower(strings.TrimSpace(input.Email)),
			Phone:             input.Phone,
			Website:           input.Website,
			GSTNo:             input.GSTNo,
			Address:           input.Address,
			Contacts:          contacts,
		}

		err = s.companyRepo.Create(ctx, company)
		if err == nil {
			break
		}
		if !repositories.IsDuplicateKey(err) {
			return nil, err
		}
		company = nil
	}
	if company == nil {
		return nil, domain.ErrCodeExhausted
	}

	log.Printf("✅ Company created: %s (%s)", company.CompanyName, company.UniqueID)
	return company, nil
}

// GetByID gets a company scoped to the organization
func (s *CompanyService) GetByID(ctx context.Context, orgID, id uint) (*models.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return company, nil
}

// List lists companies with pagination. Non Super Admin callers only see
// their own records.
func (s *CompanyService) List(ctx context.Context, orgID, callerID uint, role string, params *pagination.Params) ([]models.Company, int64, error) {
	var creatorID *uint
	if role != domain.RoleSuperAdmin {
		creatorID = &callerID
	}
	return s.companyRepo.List(ctx, orgID, creatorID, params.Offset, params.Limit)
}

// Update applies a partial update to a company
func (s *CompanyService) Update(ctx context.Context, orgID, id uint, input *UpdateCompanyInput) (*models.Company, error) {
	company, err := s.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if input.Phone != nil && *input.Phone != "" && !phoneRegex.MatchString(*input.Phone) {
		return nil, domain.ErrInvalidPhone
	}
	if input.GSTNo != nil && *input.GSTNo != "" && !gstRegex.MatchString(*input.GSTNo) {
		return nil, domain.ErrInvalidGST
	}

	if input.CompanyName != nil {
		company.CompanyName = formatName(*input.CompanyName)
	}
	if input.ContactPersonName != nil {
		company.ContactPersonName = formatName(*input.ContactPersonName)
	}
	if input.Designation != nil {
		company.Designation = *input.Designation
	}
	if input.Email != nil {
		company.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		company.Phone = *input.Phone
	}
	if input.Website != nil {
		company.Website = *input.Website
	}
	if input.GSTNo != nil {
		company.GSTNo = *input.GSTNo
	}
	if input.Address != nil {
		company.Address = *input.Address
	}
	if input.Status != nil {
		company.Status = *input.Status
		// marking a prospect not interested moves it out of the working set
		if *input.Status == domain.StatusNotInterested {
			company.IsArchived = true
		}
	}
	if input.IsArchived != nil {
		company.IsArchived = *input.IsArchived
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Delete soft deletes a company
func (s *CompanyService) Delete(ctx context.Context, orgID, id uint) error {
	if _, err := s.GetByID(ctx, orgID, id); err != nil {
		return err
	}
	return s.companyRepo.Delete(ctx, orgID, id)
}

// AddComment appends a comment to a company
func (s *CompanyService) AddComment(ctx context.Context, orgID, companyID, authorID uint, text string) (*models.CompanyComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.GetByID(ctx, orgID, companyID); err != nil {
		return nil, err
	}

	comment := &models.CompanyComment{
		CompanyID:   companyID,
		Comment:     text,
		CreatedByID: authorID,
	}
	if err := s.companyRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// checkProspectCap rejects creation once the creator holds ProspectCap
// prospects across companies and people combined.
func (s *CompanyService) checkProspectCap(ctx context.Context, creatorID uint) error {
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

// formatName trims and title-cases a display name
func formatName(name string) string {
	words := strings.Fields(strings.TrimSpace(name))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
