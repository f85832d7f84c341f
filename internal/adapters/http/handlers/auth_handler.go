package handlers

import (
	"errors"
	"strings"

	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/core/services"
	"deepnap-crm/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles admin authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents employee registration request body
type RegisterRequest struct {
	OrganizationID uint     `json:"organization_id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Password       string   `json:"password"`
	Designation    string   `json:"designation"`
	AllowedRoutes  []string `json:"allowedroutes"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// OTPRequest represents an OTP verification request body
type OTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// EmailRequest represents a request identified by email only
type EmailRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents a password reset request body
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

// Register handles employee registration
// @Summary Register employee
// @Description Register a new employee under an organization
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.OrganizationID == 0 {
		return response.BadRequest(c, "Organization id is required")
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

	input := &services.RegisterAdminInput{
		OrganizationID: req.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		Password:       req.Password,
		Designation:    req.Designation,
		AllowedRoutes:  req.AllowedRoutes,
	}

	admin, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			return response.NotFound(c, "Organization not found")
		case errors.Is(err, domain.ErrTrialNoEmployees):
			return response.Forbidden(c, "Trial accounts cannot create employee accounts")
		case errors.Is(err, domain.ErrEmployeeLimitReached):
			return response.Forbidden(c, "Employee account limit reached")
		case errors.Is(err, domain.ErrDuplicateEntry):
			return response.Conflict(c, "Email or phone already registered")
		case errors.Is(err, domain.ErrCodeExhausted):
			return response.Conflict(c, "Could not allocate an employee id, please retry")
		default:
			return response.InternalServerError(c, "Failed to register employee")
		}
	}

	return response.Created(c, "Employee registered, verification code sent", admin)
}

// VerifyOTP handles registration verification
// @Summary Verify registration OTP
// @Description Confirm the emailed code and activate the employee account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body OTPRequest true "Email and OTP"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.OTP == "" {
		return response.BadRequest(c, "Email and OTP are required")
	}

	result, err := h.authService.VerifyOTP(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.OTP)
	if err != nil {
		return otpError(c, err)
	}

	return response.Success(c, "Account verified", result)
}

// Login handles admin login
// @Summary Login
// @Description Authenticate by email or employee id
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Identifier == "" {
		return response.BadRequest(c, "Email or employee id is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.LoginInput{
		Identifier: strings.TrimSpace(req.Identifier),
		Password:   req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid credentials")
		case errors.Is(err, domain.ErrNotVerified):
			return response.Forbidden(c, "Account not verified")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	return response.Success(c, "Login successful", result)
}

// LoginWithToken re-authenticates an existing session token
// @Summary Login with token
// @Description Validate an existing token and return a fresh session
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login-token [post]
func (h *AuthHandler) LoginWithToken(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Unauthorized(c, "Access token required")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	result, err := h.authService.LoginWithToken(c.Context(), tokenString)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			return response.Unauthorized(c, "Access token expired")
		case errors.Is(err, domain.ErrAdminNotFound):
			return response.NotFound(c, "Account no longer exists")
		case errors.Is(err, domain.ErrTokenInvalid):
			return response.Unauthorized(c, "Invalid access token")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	return response.Success(c, "Login successful", result)
}

// ForgotPassword sends a password reset code
// @Summary Request password reset
// @Description Email a password reset code to an admin
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Email"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	err := h.authService.RequestPasswordReset(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAdminNotFound):
			return response.NotFound(c, "No account with this email")
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
// @Summary Verify reset OTP
// @Description Exchange a valid reset code for a short-lived reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body OTPRequest true "Email and OTP"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/verify-reset-otp [post]
func (h *AuthHandler) VerifyResetOTP(c *fiber.Ctx) error {
	var req OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.OTP == "" {
		return response.BadRequest(c, "Email and OTP are required")
	}

	token, err := h.authService.VerifyResetOTP(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.OTP)
	if err != nil {
		return otpError(c, err)
	}

	return response.Success(c, "OTP verified", fiber.Map{"reset_token": token})
}

// ResetPassword replaces the password using a valid reset token
// @Summary Reset password
// @Description Set a new password using the reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "Reset data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
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

	err := h.authService.ResetPassword(c.Context(), req.Token, strings.ToLower(strings.TrimSpace(req.Email)), req.NewPassword)
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

// otpError maps OTP service errors to responses
func otpError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrOTPNotFound),
		errors.Is(err, services.ErrOTPExpired),
		errors.Is(err, services.ErrOTPMismatch),
		errors.Is(err, services.ErrOTPTooManyTries):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrAdminNotFound):
		return response.NotFound(c, "No account with this email")
	case errors.Is(err, domain.ErrOrganizationNotFound):
		return response.NotFound(c, "No organization with this email")
	default:
		return response.InternalServerError(c, "Verification failed")
	}
}
