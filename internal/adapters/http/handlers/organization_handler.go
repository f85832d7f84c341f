package handlers

import (
	"errors"
	"strings"

	"deepnap-crm/internal/adapters/http/middleware"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/core/services"
	"deepnap-crm/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OrganizationHandler handles organization lifecycle endpoints
type OrganizationHandler struct {
	orgService     *services.OrganizationService
	accountService *services.AccountService
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgService *services.OrganizationService, accountService *services.AccountService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:     orgService,
		accountService: accountService,
	}
}

// RegisterOrganizationRequest represents organization signup request body
type RegisterOrganizationRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
	Company       string `json:"company"`
	City          string `json:"city"`
	EmployeeCount int    `json:"employee_count"`
}

// OrganizationLoginRequest represents organization login request body
type OrganizationLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SubscribeRequest represents a subscription purchase request body
type SubscribeRequest struct {
	PlanName string `json:"plan_name"`
}

// Register handles organization signup
// @Summary Register organization
// @Description Create an unverified organization and email a verification code
// @Tags Organization
// @Accept json
// @Produce json
// @Param body body RegisterOrganizationRequest true "Signup data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /organization/register [post]
func (h *OrganizationHandler) Register(c *fiber.Ctx) error {
	var req RegisterOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Phone == "" {
		return response.BadRequest(c, "Phone is required")
	}
	if len(req.Password) < 8 {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	input := &services.RegisterOrganizationInput{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         strings.TrimSpace(req.Phone),
		Password:      req.Password,
		Company:       req.Company,
		City:          req.City,
		EmployeeCount: req.EmployeeCount,
	}

	org, err := h.orgService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEntry):
			return response.Conflict(c, "Email or phone already registered")
		case errors.Is(err, domain.ErrCodeExhausted):
			return response.Conflict(c, "Could not assign an organization code, please try again")
		case errors.Is(err, services.ErrOTPRateLimited):
			return response.Error(c, fiber.StatusTooManyRequests, "Please wait before requesting a new code")
		case errors.Is(err, services.ErrEmailServiceUnavailable):
			return response.InternalServerError(c, "Email service unavailable, please try again later")
		default:
			return response.InternalServerError(c, "Failed to register organization")
		}
	}

	return response.Created(c, "Organization registered, verification code sent", fiber.Map{
		"id":    org.ID,
		"email": org.Email,
	})
}

// VerifyOTP handles organization verification
// @Summary Verify organization OTP
// @Description Confirm the signup code and provision the tenant
// @Tags Organization
// @Accept json
// @Produce json
// @Param body body OTPRequest true "Email and OTP"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /organization/verify-otp [post]
func (h *OrganizationHandler) VerifyOTP(c *fiber.Ctx) error {
	var req OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.OTP == "" {
		return response.BadRequest(c, "Email and OTP are required")
	}

	result, err := h.orgService.VerifyOTP(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.OTP)
	if err != nil {
		return otpError(c, err)
	}

	return response.Success(c, "Organization verified", result)
}

// Login handles organization owner login
// @Summary Organization login
// @Description Authenticate the organization owner
// @Tags Organization
// @Accept json
// @Produce json
// @Param body body OrganizationLoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /organization/login [post]
func (h *OrganizationHandler) Login(c *fiber.Ctx) error {
	var req OrganizationLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	result, err := h.orgService.Login(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid credentials")
		case errors.Is(err, domain.ErrNotVerified):
			return response.Forbidden(c, "Organization not verified")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	return response.Success(c, "Login successful", result)
}

// Get returns the authenticated organization
// @Summary Get organization
// @Description Return the organization with its account and subscription
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /organization/me [get]
func (h *OrganizationHandler) Get(c *fiber.Ctx) error {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	org, err := h.orgService.GetByID(c.Context(), orgID)
	if err != nil {
		if errors.Is(err, domain.ErrOrganizationNotFound) {
			return response.NotFound(c, "Organization not found")
		}
		return response.InternalServerError(c, "Failed to load organization")
	}

	return response.Success(c, "", org)
}

// StartTrial arms the 3-day trial window
// @Summary Start trial
// @Description Arm the 3-day trial window for the organization's account
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /organization/start-trial [post]
func (h *OrganizationHandler) StartTrial(c *fiber.Ctx) error {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	account, err := h.accountService.StartTrial(c.Context(), orgID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		case errors.Is(err, domain.ErrDuplicateEntry):
			return response.Conflict(c, "Trial already used")
		default:
			return response.InternalServerError(c, "Failed to start trial")
		}
	}

	return response.Success(c, "Trial started", account)
}

// Subscribe purchases a 30-day subscription
// @Summary Subscribe
// @Description Create a 30-day subscription and activate the account
// @Tags Organization
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubscribeRequest true "Plan"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /organization/subscribe [post]
func (h *OrganizationHandler) Subscribe(c *fiber.Ctx) error {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	sub, err := h.accountService.Subscribe(c.Context(), orgID, req.PlanName)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to subscribe")
	}

	return response.Success(c, "Subscription activated", sub)
}

// SubscriptionDays reports how many days of access remain.
// Trial and subscription accounts count down; fulltime returns -1.
// @Summary Remaining subscription days
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /organization/subscription-days [get]
func (h *OrganizationHandler) SubscriptionDays(c *fiber.Ctx) error {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	state, _, err := h.accountService.Evaluate(c.Context(), orgID, domain.RoleSuperAdmin, nil)
	if err != nil {
		return response.InternalServerError(c, "Failed to evaluate account state")
	}

	return response.Success(c, "Subscription days", fiber.Map{"days_remaining": state.DaysRemaining})
}

// ForgotPassword sends a password reset code to the owner
// @Summary Request organization password reset
// @Tags Organization
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Email"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /organization/forgot-password [post]
func (h *OrganizationHandler) ForgotPassword(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	err := h.orgService.RequestPasswordReset(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			return response.NotFound(c, "No organization with this email")
		case errors.Is(err, services.ErrOTPRateLimited):
			return response.Error(c, fiber.StatusTooManyRequests, "Please wait before requesting a new code")
		case errors.Is(err, services.ErrEmailServiceUnavailable):
			return response.InternalServerError(c, "Email service unavailable, please try again later")
		default:
			return response.InternalServerError(c, "Failed to send reset code")
		}
	}

	return response.Success(c, "Reset code sent", nil)
}

// VerifyResetOTP exchanges the reset code for a reset token
// @Summary Verify organization reset OTP
// @Tags Organization
// @Accept json
// @Produce json
// @Param body body OTPRequest true "Email and OTP"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /organization/verify-reset-otp [post]
func (h *OrganizationHandler) VerifyResetOTP(c *fiber.Ctx) error {
	var req OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.OTP == "" {
		return response.BadRequest(c, "Email and OTP are required")
	}

	token, err := h.orgService.VerifyResetOTP(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.OTP)
	if err != nil {
		return otpError(c, err)
	}

	return response.Success(c, "OTP verified", fiber.Map{"reset_token": token})
}

// ResetPassword replaces the owner's password using a valid reset token
// @Summary Reset organization password
// @Tags Organization
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "Reset data"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /organization/reset-password [post]
func (h *OrganizationHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Token == "" || req.Email == "" {
		return response.BadRequest(c, "Token and email are required")
	}
	if len(req.NewPassword) < 8 {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	err := h.orgService.ResetPassword(c.Context(), req.Token, strings.ToLower(strings.TrimSpace(req.Email)), req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			return response.Unauthorized(c, "Reset token expired")
		case errors.Is(err, domain.ErrTokenInvalid):
			return response.Unauthorized(c, "Invalid reset token")
		default:
			return response.InternalServerError(c, "Failed to reset password")
		}
	}

	return response.Success(c, "Password reset successfully", nil)
}

// GetSettings returns the organization's settings
// @Summary Get settings
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /organization/settings [get]
func (h *OrganizationHandler) GetSettings(c *fiber.Ctx) error {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	setting, err := h.orgService.GetSettings(c.Context(), orgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Settings not found")
		}
		return response.InternalServerError(c, "Failed to load settings")
	}

	return response.Success(c, "", setting)
}

// UpdateSettings applies a partial settings update
// @Summary Update settings
// @Tags Organization
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /organization/settings [put]
func (h *OrganizationHandler) UpdateSettings(c *fiber.Ctx) error {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateSettingsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	setting, err := h.orgService.UpdateSettings(c.Context(), orgID, &input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Settings not found")
		}
		return response.InternalServerError(c, "Failed to update settings")
	}

	return response.Success(c, "Settings updated", setting)
}
