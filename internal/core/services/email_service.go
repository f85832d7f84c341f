package services

import (
	"errors"
	"fmt"
	"log"

	"deepnap-crm/internal/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Email errors. Provider authentication failures are collapsed into one
// generic message so API key problems are never exposed to clients.
var (
	ErrEmailServiceUnavailable = errors.New("email service unavailable, please try again later")
	ErrEmailSendFailed         = errors.New("failed to send email")
)

// EmailService sends transactional email through SendGrid
type EmailService struct {
	cfg *config.Config
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendOTP sends a verification code to the recipient
func (s *EmailService) SendOTP(toEmail, toName, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf(`Hello %s,

Your verification code is: %s

This code expires in 5 minutes. If you did not request it, you can ignore this email.

Team %s`, toName, code, s.cfg.Email.FromName)

	return s.send(toEmail, toName, subject, body)
}

// SendPasswordResetOTP sends a password-reset code to the recipient
func (s *EmailService) SendPasswordResetOTP(toEmail, toName, code string) error {
	subject := "Password reset code"
	body := fmt.Sprintf(`Hello %s,

Your password reset code is: %s

This code expires in 5 minutes. If you did not request a password reset, please ignore this email.

Team %s`, toName, code, s.cfg.Email.FromName)

	return s.send(toEmail, toName, subject, body)
}

// SendWelcome greets a freshly verified organization owner
func (s *EmailService) SendWelcome(toEmail, toName string) error {
	subject := "Welcome aboard"
	body := fmt.Sprintf(`Hello %s,

Your account is verified and your workspace is ready. Start your free trial from the dashboard to explore companies, people and leads.

Team %s`, toName, s.cfg.Email.FromName)

	return s.send(toEmail, toName, subject, body)
}

// SendFollowupReminder notifies an admin about leads due for follow-up today
func (s *EmailService) SendFollowupReminder(toEmail, toName string, leadCount int) error {
	subject := fmt.Sprintf("You have %d lead(s) due for follow-up today", leadCount)
	body := fmt.Sprintf(`Hello %s,

%d lead(s) are due for follow-up today. Log in to your dashboard to review them.

Team %s`, toName, leadCount, s.cfg.Email.FromName)

	return s.send(toEmail, toName, subject, body)
}

func (s *EmailService) send(toEmail, toName, subject, body string) error {
	if s.cfg.Email.APIKey == "" {
		log.Printf("❌ Email not sent to %s: missing SendGrid API key", toEmail)
		return ErrEmailServiceUnavailable
	}

	from := mail.NewEmail(s.cfg.Email.FromName, s.cfg.Email.FromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(s.cfg.Email.APIKey)

	response, err := client.Send(message)
	if err != nil {
		log.Printf("❌ Email send error to %s: %v", toEmail, err)
		return ErrEmailSendFailed
	}

	switch {
	case response.StatusCode == 401 || response.StatusCode == 403:
		log.Printf("❌ SendGrid rejected credentials (status %d)", response.StatusCode)
		return ErrEmailServiceUnavailable
	case response.StatusCode >= 400:
		log.Printf("❌ SendGrid returned status %d for %s", response.StatusCode, toEmail)
		return ErrEmailSendFailed
	}

	return nil
}
