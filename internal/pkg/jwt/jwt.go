package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenInvalid     = errors.New("token is invalid")
	ErrTokenNotYetValid = errors.New("token is not valid yet")
)

// IssuedAtSkew is subtracted from the issue time so a token is immediately
// usable by clients whose clocks run slightly behind the server.
const IssuedAtSkew = 30 * time.Second

// Session and organization tokens are signed with the same secret, so each
// carries a type claim that the validators check. Without it an admin session
// token would parse cleanly as an owner token for the organization whose id
// happens to match the admin's.
const (
	tokenTypeSession      = "session"
	tokenTypeOrganization = "organization"
)

// SessionClaims represents the claims of an admin session token
type SessionClaims struct {
	AdminID       uint     `json:"_id"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Role          string   `json:"role"`
	AllowedRoutes []string `json:"allowedroutes"`
	TokenType     string   `json:"type"`
	jwt.RegisteredClaims
}

// OrganizationClaims represents the claims of an organization session token
type OrganizationClaims struct {
	OrganizationID uint   `json:"_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	TokenType      string `json:"type"`
	jwt.RegisteredClaims
}

// ResetClaims represents the claims of a password-reset token.
// It binds the target email so a token issued for one account cannot
// be used to reset another.
type ResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateSessionToken generates a signed admin session token
func GenerateSessionToken(adminID uint, email, name, role string, allowedRoutes []string, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		AdminID:       adminID,
		Email:         email,
		Name:          name,
		Role:          role,
		AllowedRoutes: allowedRoutes,
		TokenType:     tokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now.Add(-IssuedAtSkew)),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "deepnap-crm",
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateOrganizationToken generates a signed organization session token
func GenerateOrganizationToken(organizationID uint, email, name, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := OrganizationClaims{
		OrganizationID: organizationID,
		Email:          email,
		Name:           name,
		TokenType:      tokenTypeOrganization,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now.Add(-IssuedAtSkew)),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "deepnap-crm",
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateResetToken generates a short-lived password-reset token.
// Reset tokens are signed with their own secret so a leaked reset token
// can never be replayed as a session token.
func GenerateResetToken(email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ResetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-IssuedAtSkew)),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "deepnap-crm",
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateSessionToken validates an admin session token and returns claims
func ValidateSessionToken(tokenString, secret string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := parseInto(tokenString, secret, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeSession {
		return nil, ErrTokenInvalid
	}
	if err := checkWindow(claims.RegisteredClaims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateOrganizationToken validates an organization token and returns claims
func ValidateOrganizationToken(tokenString, secret string) (*OrganizationClaims, error) {
	claims := &OrganizationClaims{}
	if err := parseInto(tokenString, secret, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeOrganization {
		return nil, ErrTokenInvalid
	}
	if err := checkWindow(claims.RegisteredClaims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateResetToken validates a password-reset token and returns claims
func ValidateResetToken(tokenString, secret string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := parseInto(tokenString, secret, claims); err != nil {
		return nil, err
	}
	if err := checkWindow(claims.RegisteredClaims); err != nil {
		return nil, err
	}
	return claims, nil
}

func parseInto(tokenString, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}

	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

// checkWindow enforces iat < now < exp. A token whose issue time is still
// in the future (clock skew beyond the margin) is rejected, not retried.
func checkWindow(rc jwt.RegisteredClaims) error {
	now := time.Now()
	if rc.IssuedAt == nil || rc.ExpiresAt == nil {
		return ErrTokenInvalid
	}
	if !rc.IssuedAt.Time.Before(now) {
		return ErrTokenNotYetValid
	}
	if !rc.ExpiresAt.Time.After(now) {
		return ErrTokenExpired
	}
	return nil
}
