package services

import (
	"context"
	"errors"
	"log"
	"time"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/adapters/persistence/repositories"
	"deepnap-crm/internal/config"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/pkg/jwt"
	"deepnap-crm/internal/pkg/password"

	"gorm.io/gorm"
)

// OrganizationService handles tenant (organization) lifecycle
type OrganizationService struct {
	orgRepo     repositories.OrganizationRepository
	accountRepo repositories.AccountRepository
	adminRepo   repositories.AdminRepository
	settingRepo repositories.SettingRepository
	leadRepo    repositories.LeadRepository
	otpSvc      *OTPService
	emailSvc    *EmailService
	cfg         *config.Config
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(
	orgRepo repositories.OrganizationRepository,
	accountRepo repositories.AccountRepository,
	adminRepo repositories.AdminRepository,
	settingRepo repositories.SettingRepository,
	leadRepo repositories.LeadRepository,
	otpSvc *OTPService,
	emailSvc *EmailService,
	cfg *config.Config,
) *OrganizationService {
	return &OrganizationService{
		orgRepo:     orgRepo,
		accountRepo: accountRepo,
		adminRepo:   adminRepo,
		settingRepo: settingRepo,
		leadRepo:    leadRepo,
		otpSvc:      otpSvc,
		emailSvc:    emailSvc,
		cfg:         cfg,
	}
}

// RegisterOrganizationInput represents organization signup input
type RegisterOrganizationInput struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	Password      string `json:"password" validate:"required,min=8"`
	Company       string `json:"company"`
	City          string `json:"city"`
	EmployeeCount int    `json:"employee_count"`
}

// OrganizationAuthResponse represents an organization login response.
// It carries both the organization token and a Super Admin session so the
// owner lands directly in the dashboard.
type OrganizationAuthResponse struct {
	Organization      *models.Organization  `json:"organization"`
	OrganizationToken string                `json:"organization_token"`
	Admin             *models.AdminResponse `json:"admin,omitempty"`
	AccessToken       string                `json:"access_token,omitempty"`
}

// Register creates an unverified organization and emails a verification code
func (s *OrganizationService) Register(ctx context.Context, input *RegisterOrganizationInput) (*models.Organization, error) {
	// 1. Reject duplicate contact details
	exists, err := s.orgRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEntry
	}
	exists, err = s.orgRepo.ExistsByPhone(ctx, input.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEntry
	}

	// 2. Validate and hash password
	if err := password.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 3. Create unverified organization. The COR code is random, so the
	// insert retries with a fresh draw when it collides.
	var org *models.Organization
	for attempt := 0; attempt < repositories.MaxCodeAttempts; attempt++ {
		orgCode, err := repositories.RandomCode("COR-", 3)
		if err != nil {
			return nil, err
		}

		org = &models.Organization{
			Code:          orgCode,
			Name:          input.Name,
			Email:         input.Email,
			Phone:         input.Phone,
			Password:      hashed,
			Company:       input.Company,
			City:          input.City,
			EmployeeCount: input.EmployeeCount,
			Verified:      false,
		}

		err = s.orgRepo.Create(ctx, org)
		if err == nil {
			break
		}
		if !repositories.IsDuplicateKey(err) {
			return nil, err
		}
		// A duplicate email or phone also lands here; the earlier existence
		// checks make a code collision the likely cause, but give up on the
		// contact-detail race rather than retrying it away.
		if dupErr := s.recheckContactDetails(ctx, input); dupErr != nil {
			return nil, dupErr
		}
		org = nil
	}
	if org == nil {
		return nil, domain.ErrCodeExhausted
	}

	// 4. Send verification code
	code, err := s.otpSvc.GenerateOTP(input.Email)
	if err != nil {
		return nil, err
	}
	if err := s.emailSvc.SendOTP(input.Email, input.Name, code); err != nil {
		return nil, err
	}

	log.Printf("✅ Organization registered: %s (%s)", org.Name, org.Email)
	return org, nil
}

// recheckContactDetails distinguishes a code collision from an email/phone
// race lost to a concurrent signup
func (s *OrganizationService) recheckContactDetails(ctx context.Context, input *RegisterOrganizationInput) error {
	exists, err := s.orgRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateEntry
	}
	exists, err = s.orgRepo.ExistsByPhone(ctx, input.Phone)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateEntry
	}
	return nil
}

// VerifyOTP confirms the signup code and provisions the tenant: a trial
// account, the owning Super Admin, default settings and lead statuses.
func (s *OrganizationService) VerifyOTP(ctx context.Context, email, code string) (*OrganizationAuthResponse, error) {
	if err := s.otpSvc.VerifyOTP(email, code); err != nil {
		return nil, err
	}
	s.otpSvc.ClearOTP(email)

	org, err := s.orgRepo.SetVerified(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}

	// Idempotent: a re-verification of an already provisioned tenant just
	// logs the owner in again.
	if org.AccountID == nil {
		if err := s.provisionTenant(ctx, org); err != nil {
			return nil, err
		}
		org, err = s.orgRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
	}

	return s.issueTokens(ctx, org)
}

// provisionTenant creates the account, Super Admin, settings and default
// lead statuses for a freshly verified organization.
func (s *OrganizationService) provisionTenant(ctx context.Context, org *models.Organization) error {
	// 1. Trial account (trial window not armed until the owner starts it)
	account := &models.Account{
		OrganizationID: org.ID,
		AccountType:    domain.AccountTypeTrial,
		AccountStatus:  domain.AccountStatusActive,
		AccountName:    org.Name,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return err
	}
	if err := s.orgRepo.AttachAccount(ctx, org.ID, account.ID); err != nil {
		return err
	}

	// 2. Super Admin mirrors the organization's credentials
	superAdmin := &models.Admin{
		OrganizationID: org.ID,
		Name:           org.Name,
		Email:          org.Email,
		Phone:          org.Phone,
		Password:       org.Password,
		Role:           domain.RoleSuperAdmin,
		AllowedRoutes:  domain.BaselineSuperAdminRoutes,
		Verified:       true,
	}
	if err := s.adminRepo.Create(ctx, superAdmin); err != nil {
		return err
	}

	// 3. Default settings
	setting := &models.Setting{
		OrganizationID: org.ID,
		CreatorID:      superAdmin.ID,
	}
	if err := s.settingRepo.Create(ctx, setting); err != nil {
		return err
	}

	// 4. Default lead statuses
	if err := s.leadRepo.SeedDefaultStatuses(ctx, org.ID, domain.DefaultLeadStatuses); err != nil {
		return err
	}

	// 5. Welcome mail, best effort
	if err := s.emailSvc.SendWelcome(org.Email, org.Name); err != nil {
		log.Printf("❌ Welcome email failed for %s: %v", org.Email, err)
	}

	log.Printf("✅ Tenant provisioned for organization %d (%s)", org.ID, org.Email)
	return nil
}

// Login authenticates the organization owner
func (s *OrganizationService) Login(ctx context.Context, email, plainPassword string) (*OrganizationAuthResponse, error) {
	org, err := s.orgRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !org.Verified {
		if code, otpErr := s.otpSvc.GenerateOTP(org.Email); otpErr == nil {
			if mailErr := s.emailSvc.SendOTP(org.Email, org.Name, code); mailErr != nil {
				log.Printf("❌ Verification email failed for %s: %v", org.Email, mailErr)
			}
		}
		return nil, domain.ErrNotVerified
	}

	if !password.Verify(plainPassword, org.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	log.Printf("✅ Organization logged in: %s", org.Email)
	return s.issueTokens(ctx, org)
}

// GetByID returns an organization with its account and subscription
func (s *OrganizationService) GetByID(ctx context.Context, orgID uint) (*models.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}
	return org, nil
}

// RequestPasswordReset emails a reset code to the organization owner
func (s *OrganizationService) RequestPasswordReset(ctx context.Context, email string) error {
	org, err := s.orgRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrganizationNotFound
		}
		return err
	}

	code, err := s.otpSvc.GenerateOTP(email)
	if err != nil {
		return err
	}

	return s.emailSvc.SendPasswordResetOTP(email, org.Name, code)
}

// VerifyResetOTP exchanges a valid reset code for a short-lived reset token
func (s *OrganizationService) VerifyResetOTP(ctx context.Context, email, code string) (string, error) {
	if err := s.otpSvc.VerifyOTP(email, code); err != nil {
		return "", err
	}
	s.otpSvc.ClearOTP(email)

	ttl := time.Duration(s.cfg.JWT.ResetTokenMinutes) * time.Minute
	return jwt.GenerateResetToken(email, s.cfg.JWT.ResetSecret, ttl)
}

// ResetPassword validates a reset token and replaces the owner's password.
// The Super Admin shares the owner's credentials, so both records move.
func (s *OrganizationService) ResetPassword(ctx context.Context, tokenString, email, newPassword string) error {
	claims, err := jwt.ValidateResetToken(tokenString, s.cfg.JWT.ResetSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.ErrTokenExpired
		}
		return domain.ErrTokenInvalid
	}
	if claims.Email != email {
		return domain.ErrTokenInvalid
	}

	if err := password.ValidatePassword(newPassword); err != nil {
		return err
	}
	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.orgRepo.UpdatePassword(ctx, email, hashed); err != nil {
		return err
	}
	// Best effort: the Super Admin row may predate credential mirroring.
	if err := s.adminRepo.UpdatePassword(ctx, email, hashed); err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("❌ Failed to mirror password reset to super admin %s: %v", email, err)
	}

	log.Printf("✅ Organization password reset for %s", email)
	return nil
}

// GetSettings returns the organization's settings record
func (s *OrganizationService) GetSettings(ctx context.Context, orgID uint) (*models.Setting, error) {
	setting, err := s.settingRepo.GetByOrganizationID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return setting, nil
}

// UpdateSettingsInput represents a settings update
type UpdateSettingsInput struct {
	IndiamartAPI *string `json:"indiamart_api"`
	FacebookAPI  *string `json:"facebook_api"`
}

// UpdateSettings applies a partial update to the organization's settings
func (s *OrganizationService) UpdateSettings(ctx context.Context, orgID uint, input *UpdateSettingsInput) (*models.Setting, error) {
	setting, err := s.GetSettings(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if input.IndiamartAPI != nil {
		setting.IndiamartAPI = *input.IndiamartAPI
	}
	if input.FacebookAPI != nil {
		setting.FacebookAPI = *input.FacebookAPI
	}

	if err := s.settingRepo.Update(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

// issueTokens signs the organization token plus a Super Admin session
func (s *OrganizationService) issueTokens(ctx context.Context, org *models.Organization) (*OrganizationAuthResponse, error) {
	ttl := time.Duration(s.cfg.JWT.SessionTokenHours) * time.Hour

	orgToken, err := jwt.GenerateOrganizationToken(org.ID, org.Email, org.Name, s.cfg.JWT.Secret, ttl)
	if err != nil {
		return nil, err
	}

	resp := &OrganizationAuthResponse{
		Organization:      org,
		OrganizationToken: orgToken,
	}

	admin, err := s.adminRepo.GetByEmail(ctx, org.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		return nil, err
	}

	token, err := jwt.GenerateSessionToken(
		admin.ID,
		admin.Email,
		admin.Name,
		admin.Role,
		admin.AllowedRoutes,
		s.cfg.JWT.Secret,
		ttl,
	)
	if err != nil {
		return nil, err
	}

	resp.Admin = admin.ToResponse()
	resp.AccessToken = token
	return resp, nil
}
