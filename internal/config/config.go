package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string

	// Colibri endpoints.
	FeedBaseURL   string
	LedgerBaseURL string

	// Base URL prepended to feed image filenames when resolving media.
	UploadBaseURL string

	HTTPPort   string
	AdminToken string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
	SupportEmail string
	CCEmails     []string

	ReportsDir string

	Env      string
	LogLevel string

	Sync Values
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", buildDSNFromEnv()),
		FeedBaseURL:   getEnv("COLIBRI_FEED_URL", "http://localhost:8000"),
		LedgerBaseURL: getEnv("COLIBRI_LEDGER_URL", "http://localhost:8000"),
		UploadBaseURL: getEnv("UPLOAD_BASE_URL", ""),
		HTTPPort:      getEnv("PORT", "8080"),
		AdminToken:    getEnv("ADMIN_TOKEN", ""),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPass:      getEnv("SMTP_PASS", ""),
		SupportEmail:  getEnv("SUPPORT_EMAIL", ""),
		ReportsDir:    getEnv("REPORTS_DIR", "reports"),
		Env:           getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("CC_EMAILS"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			if e = strings.TrimSpace(e); e != "" {
				cfg.CCEmails = append(cfg.CCEmails, e)
			}
		}
	}

	values, err := LoadValues(getEnv("SYNC_VALUES_FILE", ""))
	if err != nil {
		return nil, fmt.Errorf("sync values: %w", err)
	}
	cfg.Sync = values

	return cfg, nil
}

func buildDSNFromEnv() string {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", getEnv("POSTGRES_USER", "postgres"))
	pass := getEnv("DB_PASSWORD", getEnv("POSTGRES_PASSWORD", "postgres"))
	name := getEnv("DB_NAME", getEnv("POSTGRES_DB", "colibrisync"))
	ssl := getEnv("DB_SSLMODE", "disable")
	return "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=" + ssl
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
