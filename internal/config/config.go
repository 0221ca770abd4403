package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables

	// PendingSignupTTL bounds how long an unverified signup survives before
	// the store expires it.
	PendingSignupTTL time.Duration

	MailProvider string // "smtp" | "mailersend"
	MailTimeout  time.Duration
	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	MailerSendAPIKey   string
	MailerSendFrom     string
	MailerSendFromName string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Accounts       string
	PendingSignups string
	CatalogUnits   string
	CatalogItems   string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Accounts:       getEnv("DYNAMO_TABLE_ACCOUNTS", "accounts"),
			PendingSignups: getEnv("DYNAMO_TABLE_PENDING_SIGNUPS", "pending_signups"),
			CatalogUnits:   getEnv("DYNAMO_TABLE_CATALOG_UNITS", "catalog_units"),
			CatalogItems:   getEnv("DYNAMO_TABLE_CATALOG_ITEMS", "catalog_items"),
		},

		PendingSignupTTL: time.Duration(getEnvInt("PENDING_SIGNUP_TTL_SECONDS", 900)) * time.Second,

		MailProvider: getEnv("MAIL_PROVIDER", "smtp"),
		MailTimeout:  time.Duration(getEnvInt("MAIL_TIMEOUT_SECONDS", 15)) * time.Second,
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		MailerSendAPIKey:   getEnv("MAILERSEND_API_KEY", ""),
		MailerSendFrom:     getEnv("MAILERSEND_FROM", "noreply@example.com"),
		MailerSendFromName: getEnv("MAILERSEND_FROM_NAME", "OSSLT Prep"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
