package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Mpesa      MpesaConfig
	Email      EmailConfig
	Site       SiteConfig
	Admin      AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// MpesaConfig holds the Daraja environment defaults. Stored settings of type
// "mpesa" take precedence over these at operation time (service.SettingsService.Resolve).
type MpesaConfig struct {
	BaseURL          string
	ConsumerKey      string
	ConsumerSecret   string
	Shortcode        string
	PassKey          string
	CallbackURL      string
	AccountReference string
	TransactionDesc  string
}

type EmailConfig struct {
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	From            string
	FromName        string
	ReportRecipient string
}

type SiteConfig struct {
	Name         string
	Description  string
	ContactEmail string
	ContactPhone string
}

// AdminConfig seeds the first operator account.
type AdminConfig struct {
	Email    string
	Password string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_DSN", "imani:imani@tcp(localhost:3306)/imani?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  getDurationEnv("JWT_ACCESS_EXPIRY", time.Hour),
			RefreshExpiry: getDurationEnv("JWT_REFRESH_EXPIRY", 168*time.Hour),
			Issuer:        getEnv("JWT_ISSUER", "imani"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		Mpesa: MpesaConfig{
			BaseURL:          getEnv("MPESA_API_URL", "https://sandbox.safaricom.co.ke"),
			ConsumerKey:      getEnv("MPESA_CONSUMER_KEY", ""),
			ConsumerSecret:   getEnv("MPESA_CONSUMER_SECRET", ""),
			Shortcode:        getEnv("MPESA_SHORTCODE", ""),
			PassKey:          getEnv("MPESA_PASSKEY", ""),
			CallbackURL:      getEnv("MPESA_CALLBACK_URL", ""),
			AccountReference: getEnv("MPESA_ACCOUNT_REFERENCE", "HrtFdn"),
			TransactionDesc:  getEnv("MPESA_TRANSACTION_DESC", "Donation to Heart of Generation Foundation"),
		},
		Email: EmailConfig{
			SMTPHost:        getEnv("SMTP_HOST", ""),
			SMTPPort:        getIntEnv("SMTP_PORT", 465),
			SMTPUser:        getEnv("SMTP_USER", ""),
			SMTPPass:        getEnv("SMTP_PASS", ""),
			From:            getEnv("EMAIL_FROM", ""),
			FromName:        getEnv("EMAIL_FROM_NAME", "Imani Foundation"),
			ReportRecipient: getEnv("REPORT_RECIPIENT", ""),
		},
		Site: SiteConfig{
			Name:         getEnv("SITE_NAME", "Imani Foundation"),
			Description:  getEnv("SITE_DESCRIPTION", ""),
			ContactEmail: getEnv("CONTACT_EMAIL", ""),
			ContactPhone: getEnv("CONTACT_PHONE", ""),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@imani.local"),
			Password: getEnv("ADMIN_PASSWORD", "change-me"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
