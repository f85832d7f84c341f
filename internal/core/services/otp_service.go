package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// OTP errors
var (
	ErrOTPNotFound     = errors.New("no otp requested, please request a new one")
	ErrOTPExpired      = errors.New("otp has expired, please request a new one")
	ErrOTPMismatch     = errors.New("incorrect otp")
	ErrOTPTooManyTries = errors.New("too many incorrect attempts, please request a new otp")
	ErrOTPRateLimited  = errors.New("please wait before requesting a new otp")
)

// OTPEntry represents a single OTP record in memory
type OTPEntry struct {
	Code      string
	ExpiresAt time.Time
	Attempts  int
	Verified  bool
}

// OTPService handles OTP generation and verification.
// Codes are keyed by email and kept in memory only; a restart simply
// forces the user to request a fresh code.
type OTPService struct {
	store map[string]*OTPEntry
	mu    sync.RWMutex
}

// NewOTPService creates a new OTP service
func NewOTPService() *OTPService {
	svc := &OTPService{
		store: make(map[string]*OTPEntry),
	}
	// Cleanup expired OTPs every 5 minutes
	go svc.cleanupLoop()
	return svc
}

// GenerateOTP creates a new 4-digit OTP for an email address.
// Returns the OTP code (to be sent via email).
func (s *OTPService) GenerateOTP(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Rate limit: OTP lives 5 minutes, so > 4 minutes remaining means
	// one was requested less than a minute ago.
	if existing, ok := s.store[email]; ok {
		if time.Until(existing.ExpiresAt) > 4*time.Minute {
			return "", ErrOTPRateLimited
		}
	}

	code, err := generateSecureOTP(4)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	s.store[email] = &OTPEntry{
		Code:      code,
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}

	return code, nil
}

// VerifyOTP checks if the provided OTP is valid for the email
func (s *OTPService) VerifyOTP(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.store[email]
	if !ok {
		return ErrOTPNotFound
	}

	if time.Now().After(entry.ExpiresAt) {
		delete(s.store, email)
		return ErrOTPExpired
	}

	// Max 5 attempts
	if entry.Attempts >= 5 {
		delete(s.store, email)
		return ErrOTPTooManyTries
	}

	entry.Attempts++
	if entry.Code != code {
		return ErrOTPMismatch
	}

	entry.Verified = true
	return nil
}

// ClearOTP removes an OTP after successful verification
func (s *OTPService) ClearOTP(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store, email)
}

// cleanupLoop periodically removes expired OTPs
func (s *OTPService) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		s.mu.Lock()
		for key, entry := range s.store {
			if time.Now().After(entry.ExpiresAt) {
				delete(s.store, key)
			}
		}
		s.mu.Unlock()
	}
}

// generateSecureOTP generates a cryptographically secure random OTP
func generateSecureOTP(length int) (string, error) {
	result := ""
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		result += fmt.Sprintf("%d", n.Int64())
	}
	return result, nil
}
