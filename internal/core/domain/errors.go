package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Tenant errors
var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrNotVerified          = errors.New("account not verified")
	ErrEmployeeLimitReached = errors.New("employee account limit reached")
	ErrTrialNoEmployees     = errors.New("trial accounts cannot create employee accounts")
)

// CRM entity errors
var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrPeopleNotFound  = errors.New("people not found")
	ErrLeadNotFound    = errors.New("lead not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrProspectCapHit  = errors.New("prospect limit reached for your plan")
	ErrCodeExhausted   = errors.New("failed to generate a unique id after multiple attempts")
	ErrInvalidPhone    = errors.New("phone number must be exactly 10 digits")
	ErrInvalidGST      = errors.New("gst number must be exactly 15 characters (capital letters and numbers only)")
)
