package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	DatabaseDSN string

	JWTSecret string
	TokenTTL  time.Duration

	// AppURL is the base for deep links in notifications.
	AppURL string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	StorageDriver  string // "local" or "gcs"
	StorageDir     string
	PublicURL      string
	GCSBucket      string
	MaxUploadBytes int64

	// FirebaseCredentials enables push delivery and the in-app inbox when set.
	FirebaseCredentials string

	NotifyWorkers   int
	NotifyQueueSize int
	NotifyRate      float64
	SweepSpec       string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not loaded, fallback to OS env vars")
	}

	cfg := &Config{
		Port:                getenv("PORT", "8080"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		DatabaseDSN:         os.Getenv("DB_DSN"),
		JWTSecret:           os.Getenv("JWT_SECRET_KEY"),
		AppURL:              strings.TrimRight(getenv("APP_URL", "http://localhost:8080"), "/"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getenv("SMTP_PORT", "587"),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		MailFrom:            os.Getenv("MAIL_FROM"),
		StorageDriver:       getenv("STORAGE_DRIVER", "local"),
		StorageDir:          getenv("STORAGE_DIR", "storage/app/public"),
		PublicURL:           strings.TrimRight(getenv("PUBLIC_URL", "http://localhost:8080/storage"), "/"),
		GCSBucket:           os.Getenv("GCS_BUCKET"),
		FirebaseCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_1"),
		SweepSpec:           getenv("NOTIFY_SWEEP", "0 * * * * *"),
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUsername
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(getenv("TOKEN_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if cfg.MaxUploadBytes, err = strconv.ParseInt(getenv("MAX_UPLOAD_BYTES", "10485760"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}
	if cfg.NotifyWorkers, err = strconv.Atoi(getenv("NOTIFY_WORKERS", "4")); err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_WORKERS: %w", err)
	}
	if cfg.NotifyQueueSize, err = strconv.Atoi(getenv("NOTIFY_QUEUE_SIZE", "256")); err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_QUEUE_SIZE: %w", err)
	}
	if cfg.NotifyRate, err = strconv.ParseFloat(getenv("NOTIFY_RATE", "5"), 64); err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_RATE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	switch c.StorageDriver {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for the gcs storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.NotifyWorkers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be at least 1")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
