package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret      = "session-secret"
	testResetSecret = "reset-secret"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	routes := []string{"dashboard", "people", "company", "lead"}
	token, err := GenerateSessionToken(42, "owner@acme.test", "Acme Owner", "Super Admin", routes, testSecret, 24*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateSessionToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.AdminID)
	assert.Equal(t, "owner@acme.test", claims.Email)
	assert.Equal(t, "Acme Owner", claims.Name)
	assert.Equal(t, "Super Admin", claims.Role)
	assert.Equal(t, routes, claims.AllowedRoutes)
	assert.NotEmpty(t, claims.ID)
}

func TestSessionTokenIssuedAtSkew(t *testing.T) {
	before := time.Now()
	token, err := GenerateSessionToken(1, "a@b.test", "A", "Admin", nil, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateSessionToken(token, testSecret)
	require.NoError(t, err)

	// iat is backdated by the skew margin so the token is valid immediately
	assert.True(t, claims.IssuedAt.Time.Before(before))
	assert.WithinDuration(t, before.Add(-IssuedAtSkew), claims.IssuedAt.Time, 2*time.Second)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(1, "a@b.test", "A", "Admin", nil, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, "another-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSessionTokenExpired(t *testing.T) {
	// A negative ttl puts exp in the past
	token, err := GenerateSessionToken(1, "a@b.test", "A", "Admin", nil, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestResetTokenSecretsAreIndependent(t *testing.T) {
	reset, err := GenerateResetToken("user@acme.test", testResetSecret, time.Minute)
	require.NoError(t, err)

	// A reset token must never verify as a session token
	_, err = ValidateSessionToken(reset, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	claims, err := ValidateResetToken(reset, testResetSecret)
	require.NoError(t, err)
	assert.Equal(t, "user@acme.test", claims.Email)
}

func TestResetTokenExpiresQuickly(t *testing.T) {
	reset, err := GenerateResetToken("user@acme.test", testResetSecret, time.Minute)
	require.NoError(t, err)

	claims, err := ValidateResetToken(reset, testResetSecret)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt.Time, 2*time.Second)
}

func TestOrganizationTokenRoundTrip(t *testing.T) {
	token, err := GenerateOrganizationToken(7, "org@acme.test", "Acme Pvt Ltd", testSecret, 24*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateOrganizationToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.OrganizationID)
	assert.Equal(t, "Acme Pvt Ltd", claims.Name)
}

func TestSessionAndOrganizationTokensDoNotCross(t *testing.T) {
	// Both kinds share the signing secret and the _id claim key, so an
	// employee session token would otherwise read as an owner token for
	// whichever organization shares the admin's numeric id.
	session, err := GenerateSessionToken(7, "employee@acme.test", "Employee", "Admin", nil, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateOrganizationToken(session, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	org, err := GenerateOrganizationToken(7, "org@acme.test", "Acme Pvt Ltd", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateSessionToken(org, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func registeredClaimsAt(iat, exp time.Time) gojwt.RegisteredClaims {
	return gojwt.RegisteredClaims{
		IssuedAt:  gojwt.NewNumericDate(iat),
		ExpiresAt: gojwt.NewNumericDate(exp),
	}
}

func TestCheckWindowRejectsFutureIssuedAt(t *testing.T) {
	// Simulate clock skew beyond the margin: iat in the future
	rc := registeredClaimsAt(time.Now().Add(2*time.Minute), time.Now().Add(time.Hour))
	assert.ErrorIs(t, checkWindow(rc), ErrTokenNotYetValid)
}

func TestCheckWindowRejectsPastExpiry(t *testing.T) {
	rc := registeredClaimsAt(time.Now().Add(-time.Hour), time.Now().Add(-time.Minute))
	assert.ErrorIs(t, checkWindow(rc), ErrTokenExpired)
}
