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

// AuthService handles admin (tenant user) authentication business logic
type AuthService struct {
	adminRepo  repositories.AdminRepository
	orgRepo    repositories.OrganizationRepository
	accountSvc *AccountService
	otpSvc     *OTPService
	emailSvc   *EmailService
	cfg        *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	adminRepo repositories.AdminRepository,
	orgRepo repositories.OrganizationRepository,
	accountSvc *AccountService,
	otpSvc *OTPService,
	emailSvc *EmailService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		orgRepo:    orgRepo,
		accountSvc: accountSvc,
		otpSvc:     otpSvc,
		emailSvc:   emailSvc,
		cfg:        cfg,
	}
}

// RegisterAdminInput represents employee registration input
type RegisterAdminInput struct {
	OrganizationID uint     `json:"organization_id" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone" validate:"required"`
	Password       string   `json:"password" validate:"required,min=8"`
	Designation    string   `json:"designation"`
	AllowedRoutes  []string `json:"allowedroutes"`
}

// LoginInput represents login input. Identifier is an email or employee id.
type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Admin        *models.AdminResponse `json:"admin"`
	AccessToken  string                `json:"access_token"`
	AccountState domain.AccountState   `json:"account_state"`
}

// Register creates an employee account under an organization.
// The parent account must be out of trial and under its seat limit.
func (s *AuthService) Register(ctx context.Context, input *RegisterAdminInput) (*models.AdminResponse, error) {
	// 1. Load parent organization
	org, err := s.orgRepo.GetByID(ctx, input.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}

	// 2. Trial accounts get no employee seats
	if org.Account != nil && org.Account.AccountType == domain.AccountTypeTrial {
		return nil, domain.ErrTrialNoEmployees
	}

	// 3. Enforce the purchased seat limit (Super Admin excluded from the count)
	count, err := s.adminRepo.CountEmployees(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	if count >= int64(org.EmployeeCount) {
		return nil, domain.ErrEmployeeLimitReached
	}

	// 4. Reject duplicate contact details
	exists, err := s.adminRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEntry
	}
	exists, err = s.adminRepo.ExistsByPhone(ctx, input.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEntry
	}

	// 5. Validate and hash password
	if err := password.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	routes := input.AllowedRoutes
	if routes == nil {
		routes = []string{}
	}

	// 6. Allocate employee id and insert. The compound unique index on
	// (organization_id, employee_id) catches races; recompute and retry.
	var admin *models.Admin
	for attempt := 0; attempt < repositories.MaxCodeAttempts; attempt++ {
		employeeID, err := s.adminRepo.NextEmployeeID(ctx, org.ID)
		if err != nil {
			return nil, err
		}

		admin = &models.Admin{
			OrganizationID: org.ID,
			EmployeeID:     employeeID,
			Name:           input.Name,
			Email:          input.Email,
			Phone:          input.Phone,
			Password:       hashed,
			Designation:    input.Designation,
			Role:           domain.RoleAdmin,
			AllowedRoutes:  routes,
			Verified:       false,
		}

		err = s.adminRepo.Create(ctx, admin)
		if err == nil {
			break
		}
		if !repositories.IsDuplicateKey(err) {
			return nil, err
		}
		admin = nil
	}
	if admin == nil {
		return nil, domain.ErrCodeExhausted
	}

	// 7. Send verification code
	code, err := s.otpSvc.GenerateOTP(input.Email)
	if err == nil {
		if err := s.emailSvc.SendOTP(input.Email, input.Name, code); err != nil {
			log.Printf("❌ Verification email failed for %s: %v", input.Email, err)
		}
	}

	log.Printf("✅ Employee registered: %s (%s) in organization %d", admin.Name, admin.EmployeeID, org.ID)
	return admin.ToResponse(), nil
}

// VerifyOTP confirms a registration code and marks the admin verified
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*AuthResponse, error) {
	if err := s.otpSvc.VerifyOTP(email, code); err != nil {
		return nil, err
	}
	s.otpSvc.ClearOTP(email)

	if err := s.adminRepo.SetVerified(ctx, email); err != nil {
		return nil, err
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}

	return s.issueSession(ctx, admin)
}

// Login authenticates an admin by email or employee id
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Resolve by email or employee id
	admin, err := s.adminRepo.GetByIdentifier(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Unverified accounts cannot log in; re-send the code so the user
	// can finish verification
	if !admin.Verified {
		if code, otpErr := s.otpSvc.GenerateOTP(admin.Email); otpErr == nil {
			if mailErr := s.emailSvc.SendOTP(admin.Email, admin.Name, code); mailErr != nil {
				log.Printf("❌ Verification email failed for %s: %v", admin.Email, mailErr)
			}
		}
		return nil, domain.ErrNotVerified
	}

	// 3. Verify password
	if !password.Verify(input.Password, admin.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	log.Printf("✅ Admin logged in: %s (%s)", admin.Email, admin.EmployeeID)
	return s.issueSession(ctx, admin)
}

// LoginWithToken re-authenticates an existing session token and returns a
// fresh view of the admin and account state.
func (s *AuthService) LoginWithToken(ctx context.Context, tokenString string) (*AuthResponse, error) {
	claims, err := jwt.ValidateSessionToken(tokenString, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	admin, err := s.adminRepo.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}

	return s.issueSession(ctx, admin)
}

// RequestPasswordReset emails a reset code to an existing admin
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAdminNotFound
		}
		return err
	}

	code, err := s.otpSvc.GenerateOTP(email)
	if err != nil {
		return err
	}

	return s.emailSvc.SendPasswordResetOTP(email, admin.Name, code)
}

// VerifyResetOTP exchanges a valid reset code for a short-lived reset token
func (s *AuthService) VerifyResetOTP(ctx context.Context, email, code string) (string, error) {
	if err := s.otpSvc.VerifyOTP(email, code); err != nil {
		return "", err
	}
	s.otpSvc.ClearOTP(email)

	ttl := time.Duration(s.cfg.JWT.ResetTokenMinutes) * time.Minute
	return jwt.GenerateResetToken(email, s.cfg.JWT.ResetSecret, ttl)
}

// ResetPassword validates a reset token and replaces the admin's password.
// The token's email claim must match the email being reset; a token issued
// for one account can never reset another.
func (s *AuthService) ResetPassword(ctx context.Context, tokenString, email, newPassword string) error {
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

	if err := s.adminRepo.UpdatePassword(ctx, email, hashed); err != nil {
		return err
	}

	log.Printf("✅ Password reset for %s", email)
	return nil
}

// GetAdminByID gets an admin by ID
func (s *AuthService) GetAdminByID(ctx context.Context, adminID uint) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

// ListEmployees lists all admins of an organization
func (s *AuthService) ListEmployees(ctx context.Context, orgID uint) ([]models.Admin, error) {
	return s.adminRepo.ListByOrganization(ctx, orgID)
}

// UpdateAllowedRoutes replaces an employee's route allowlist
func (s *AuthService) UpdateAllowedRoutes(ctx context.Context, orgID, adminID uint, routes []string) error {
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAdminNotFound
		}
		return err
	}
	if admin.OrganizationID != orgID {
		return domain.ErrForbidden
	}
	if routes == nil {
		routes = []string{}
	}
	return s.adminRepo.UpdateAllowedRoutes(ctx, adminID, routes)
}

// DeleteEmployee removes an employee account. Super Admins cannot be removed.
func (s *AuthService) DeleteEmployee(ctx context.Context, orgID, adminID uint) error {
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAdminNotFound
		}
		return err
	}
	if admin.OrganizationID != orgID {
		return domain.ErrForbidden
	}
	if admin.Role == domain.RoleSuperAdmin {
		return domain.ErrForbidden
	}
	return s.adminRepo.Delete(ctx, adminID)
}

// issueSession evaluates the account state and signs a session token carrying
// the effective allowlist of this moment.
func (s *AuthService) issueSession(ctx context.Context, admin *models.Admin) (*AuthResponse, error) {
	state, _, err := s.accountSvc.Evaluate(ctx, admin.OrganizationID, admin.Role, admin.AllowedRoutes)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(s.cfg.JWT.SessionTokenHours) * time.Hour
	token, err := jwt.GenerateSessionToken(
		admin.ID,
		admin.Email,
		admin.Name,
		admin.Role,
		state.EffectiveRoutes,
		s.cfg.JWT.Secret,
		ttl,
	)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Admin:        admin.ToResponse(),
		AccessToken:  token,
		AccountState: state,
	}, nil
}
