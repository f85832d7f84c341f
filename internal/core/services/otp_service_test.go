package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPRoundTrip(t *testing.T) {
	svc := NewOTPService()

	code, err := svc.GenerateOTP("a@test.dev")
	require.NoError(t, err)
	assert.Len(t, code, 4)

	require.NoError(t, svc.VerifyOTP("a@test.dev", code))
	svc.ClearOTP("a@test.dev")
	assert.ErrorIs(t, svc.VerifyOTP("a@test.dev", code), ErrOTPNotFound)
}

func TestOTPRateLimited(t *testing.T) {
	svc := NewOTPService()

	_, err := svc.GenerateOTP("a@test.dev")
	require.NoError(t, err)

	_, err = svc.GenerateOTP("a@test.dev")
	assert.ErrorIs(t, err, ErrOTPRateLimited)

	// other addresses are unaffected
	_, err = svc.GenerateOTP("b@test.dev")
	assert.NoError(t, err)
}

func TestOTPAttemptLimit(t *testing.T) {
	svc := NewOTPService()

	code, err := svc.GenerateOTP("a@test.dev")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, svc.VerifyOTP("a@test.dev", "bad!"), ErrOTPMismatch)
	}
	// the sixth attempt invalidates the code even if it is correct
	assert.ErrorIs(t, svc.VerifyOTP("a@test.dev", code), ErrOTPTooManyTries)
	assert.ErrorIs(t, svc.VerifyOTP("a@test.dev", code), ErrOTPNotFound)
}

func TestOTPUnknownEmail(t *testing.T) {
	svc := NewOTPService()
	assert.ErrorIs(t, svc.VerifyOTP("nobody@test.dev", "1234"), ErrOTPNotFound)
}
