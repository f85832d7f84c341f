package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"time"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/adapters/persistence/repositories"
	"deepnap-crm/internal/config"
	"deepnap-crm/internal/core/domain"
)

// WhatsApp errors
var (
	ErrWhatsAppNotConfigured = errors.New("whatsapp messaging is not configured")
	ErrWhatsAppSendFailed    = errors.New("failed to send whatsapp message")
)

var whatsappPhoneRegex = regexp.MustCompile(`^\d{10}$`)

// WhatsAppService sends template messages through the Meta Graph API and
// records every successful send.
type WhatsAppService struct {
	repo    repositories.WhatsAppRepository
	cfg     *config.Config
	client  *http.Client
	baseURL string
}

// NewWhatsAppService creates a new WhatsApp service
func NewWhatsAppService(repo repositories.WhatsAppRepository, cfg *config.Config) *WhatsAppService {
	return &WhatsAppService{
		repo:    repo,
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://graph.facebook.com/v17.0",
	}
}

// SendTemplateInput represents a template send request
type SendTemplateInput struct {
	Phone        string `json:"phone" validate:"required"`
	TemplateName string `json:"template_name" validate:"required"`
	LanguageCode string `json:"language_code"`
}

type whatsappPayload struct {
	MessagingProduct string           `json:"messaging_product"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Template         whatsappTemplate `json:"template"`
}

type whatsappTemplate struct {
	Name     string           `json:"name"`
	Language whatsappLanguage `json:"language"`
}

type whatsappLanguage struct {
	Code string `json:"code"`
}

// SendTemplate sends one template message and logs it on success
func (s *WhatsAppService) SendTemplate(ctx context.Context, orgID uint, input *SendTemplateInput) error {
	if s.cfg.WhatsApp.Token == "" || s.cfg.WhatsApp.PhoneNumberID == "" {
		return ErrWhatsAppNotConfigured
	}

	if !whatsappPhoneRegex.MatchString(input.Phone) {
		return domain.ErrInvalidPhone
	}

	lang := input.LanguageCode
	if lang == "" {
		lang = "en"
	}

	payload := whatsappPayload{
		MessagingProduct: "whatsapp",
		To:               s.cfg.WhatsApp.CountryCode + input.Phone,
		Type:             "template",
		Template: whatsappTemplate{
			Name:     input.TemplateName,
			Language: whatsappLanguage{Code: lang},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.cfg.WhatsApp.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.WhatsApp.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("❌ WhatsApp send error to %s: %v", input.Phone, err)
		return ErrWhatsAppSendFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("❌ WhatsApp API returned status %d: %s", resp.StatusCode, string(respBody))
		return ErrWhatsAppSendFailed
	}

	msg := &models.WhatsAppMessage{
		OrganizationID: orgID,
		Phone:          input.Phone,
		TemplateName:   input.TemplateName,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		// The message already went out; a failed log write is not a send failure.
		log.Printf("❌ Failed to record whatsapp message: %v", err)
	}

	log.Printf("✅ WhatsApp template '%s' sent to %s", input.TemplateName, input.Phone)
	return nil
}

// CountAll returns the total number of messages sent across tenants
func (s *WhatsAppService) CountAll(ctx context.Context) (int64, error) {
	return s.repo.CountAll(ctx)
}

// ChatLink builds a wa.me link for opening a chat with a prospect
func (s *WhatsAppService) ChatLink(phone string) (string, error) {
	if !whatsappPhoneRegex.MatchString(phone) {
		return "", domain.ErrInvalidPhone
	}
	return "https://wa.me/" + s.cfg.WhatsApp.CountryCode + phone, nil
}
