package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/projectflow?parseTime=true")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_URL", "https://pm.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://pm.example.com", cfg.AppURL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, 4, cfg.NotifyWorkers)
}

func TestLoad_MissingDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET_KEY", "secret")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_DSN")
}

func TestValidate_GCSNeedsBucket(t *testing.T) {
	cfg := &Config{DatabaseDSN: "dsn", JWTSecret: "s", StorageDriver: "gcs", NotifyWorkers: 1}
	assert.ErrorContains(t, cfg.Validate(), "GCS_BUCKET")

	cfg.GCSBucket = "attachments"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadNumber(t *testing.T) {
	t.Setenv("DB_DSN", "dsn")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("NOTIFY_WORKERS", "many")

	_, err := Load()
	assert.ErrorContains(t, err, "NOTIFY_WORKERS")
}
