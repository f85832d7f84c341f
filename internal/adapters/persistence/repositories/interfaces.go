package repositories

import (
	"context"
	"time"

	"deepnap-crm/internal/adapters/persistence/models"
)

// OrganizationRepository defines organization repository interface
type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id uint) (*models.Organization, error)
	GetByEmail(ctx context.Context, email string) (*models.Organization, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	SetVerified(ctx context.Context, email string) (*models.Organization, error)
	AttachAccount(ctx context.Context, orgID, accountID uint) error
	UpdatePassword(ctx context.Context, email, hashedPassword string) error
}

// AccountRepository defines account repository interface
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByOrganizationID(ctx context.Context, orgID uint) (*models.Account, error)
	StartTrial(ctx context.Context, accountID uint, start time.Time) error
	UpdateStatus(ctx context.Context, accountID uint, status string) error
	AttachSubscription(ctx context.Context, accountID, subscriptionID uint) error
}

// SubscriptionRepository defines subscription repository interface
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	UpdateEndDate(ctx context.Context, subscriptionID uint, endDate time.Time) error
}

// AdminRepository defines admin (tenant user) repository interface
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	// GetByIdentifier resolves an admin by email or employee id
	GetByIdentifier(ctx context.Context, identifier string) (*models.Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	CountEmployees(ctx context.Context, orgID uint) (int64, error)
	ListByOrganization(ctx context.Context, orgID uint) ([]models.Admin, error)
	SetVerified(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, hashedPassword string) error
	UpdateAllowedRoutes(ctx context.Context, adminID uint, routes []string) error
	Delete(ctx context.Context, adminID uint) error
	NextEmployeeID(ctx context.Context, orgID uint) (string, error)
}

// SettingRepository defines setting repository interface
type SettingRepository interface {
	Create(ctx context.Context, setting *models.Setting) error
	GetByOrganizationID(ctx context.Context, orgID uint) (*models.Setting, error)
	Update(ctx context.Context, setting *models.Setting) error
}

// CompanyRepository defines company repository interface
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, orgID, id uint) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, orgID, id uint) error
	List(ctx context.Context, orgID uint, creatorID *uint, offset, limit int) ([]models.Company, int64, error)
	CountByCreator(ctx context.Context, creatorID uint) (int64, error)
	ExistsByEmail(ctx context.Context, orgID uint, email string) (bool, error)
	ExistsByPhone(ctx context.Context, orgID uint, phone string) (bool, error)
	AddComment(ctx context.Context, comment *models.CompanyComment) error
	NextUniqueID(ctx context.Context, orgID uint) (string, error)
}

// PeopleRepository defines people repository interface
type PeopleRepository interface {
	Create(ctx context.Context, people *models.People) error
	GetByID(ctx context.Context, orgID, id uint) (*models.People, error)
	Update(ctx context.Context, people *models.People) error
	Delete(ctx context.Context, orgID, id uint) error
	List(ctx context.Context, orgID uint, creatorID *uint, offset, limit int) ([]models.People, int64, error)
	CountByCreator(ctx context.Context, creatorID uint) (int64, error)
	AddRemark(ctx context.Context, remark *models.PeopleRemark) error
	NextUniqueID(ctx context.Context, creatorID uint) (string, error)
}

// LeadRepository defines lead repository interface
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, orgID, id uint) (*models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
	Delete(ctx context.Context, orgID, id uint) error
	List(ctx context.Context, orgID uint, creatorID *uint, offset, limit int) ([]models.Lead, int64, error)
	ListAssigned(ctx context.Context, adminID uint, offset, limit int) ([]models.Lead, int64, error)
	CountsByStatus(ctx context.Context, orgID uint, creatorID *uint) (map[string]int64, error)
	DueFollowups(ctx context.Context, orgID uint, until time.Time) ([]models.Lead, error)
	DueFollowupsForAll(ctx context.Context, until time.Time) ([]models.Lead, error)
	MarkFollowupsSeen(ctx context.Context, orgID uint, leadIDs []uint) error
	AddComment(ctx context.Context, comment *models.LeadComment) error
	ListComments(ctx context.Context, leadID uint) ([]models.LeadComment, error)
	SeedDefaultStatuses(ctx context.Context, orgID uint, statuses []string) error
	ListStatuses(ctx context.Context, orgID uint) ([]models.LeadStatus, error)
}

// InvoiceRepository defines invoice/proforma repository interface
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, orgID, id uint) (*models.Invoice, error)
	Delete(ctx context.Context, orgID, id uint) error
	List(ctx context.Context, orgID uint, kind string, offset, limit int) ([]models.Invoice, int64, error)
	CountByOrganization(ctx context.Context, orgID uint, kind string) (int64, error)
}

// WhatsAppRepository defines whatsapp message log repository interface
type WhatsAppRepository interface {
	Create(ctx context.Context, msg *models.WhatsAppMessage) error
	CountAll(ctx context.Context) (int64, error)
}
