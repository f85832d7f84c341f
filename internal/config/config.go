package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Email    EmailConfig
	WhatsApp WhatsAppConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds token signing configuration. Session and password-reset
// tokens use independent secrets.
type JWTConfig struct {
	Secret            string
	ResetSecret       string
	SessionTokenHours int
	ResetTokenMinutes int
}

// EmailConfig holds outbound email configuration
type EmailConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// WhatsAppConfig holds WhatsApp Graph API configuration
type WhatsAppConfig struct {
	Token         string
	PhoneNumberID string
	CountryCode   string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Email: EmailConfig{
			APIKey:    getEnv("SENDGRID_API_KEY", ""),
			FromEmail: getEnv("EMAIL_ID", "noreply@itsybizz.com"),
			FromName:  getEnv("EMAIL_FROM_NAME", "Deepnap Softech"),
		},
		WhatsApp: WhatsAppConfig{
			Token:         getEnv("WHATSAPP_TOKEN", ""),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", "575068729020861"),
			CountryCode:   getEnv("WHATSAPP_COUNTRY_CODE", "91"),
		},
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "deepnap_crm"),
	}
}

// loadJWTConfig loads token config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	sessionHours, _ := strconv.Atoi(getEnv("SESSION_TOKEN_HOURS", "24"))
	resetMinutes, _ := strconv.Atoi(getEnv("RESET_TOKEN_MINUTES", "1"))

	return JWTConfig{
		Secret:            getEnv(prefix+"JWT_SECRET", "default_secret"),
		ResetSecret:       getEnv(prefix+"PASSWORD_RESET_SECRET", "default_reset_secret"),
		SessionTokenHours: sessionHours,
		ResetTokenMinutes: resetMinutes,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origins
		return "https://crm.itsybizz.com"
	}
	return origins
}
