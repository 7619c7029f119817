package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("ANALYSIS_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, DefaultMaxFileSize, cfg.Storage.MaxFileSize)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Worker.AnalysisTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "1024")
	t.Setenv("STORAGE_BACKEND", "S3")
	t.Setenv("ANALYSIS_TIMEOUT", "90s")
	t.Setenv("WORKER_CONCURRENCY", "not-a-number")

	cfg := Load()

	assert.Equal(t, int64(1024), cfg.Storage.MaxFileSize)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, 90*time.Second, cfg.Worker.AnalysisTimeout)
	assert.Equal(t, 3, cfg.Worker.Concurrency)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Auth:    AuthConfig{JWTSecret: "secret"},
			Gemini:  GeminiConfig{APIKey: "key"},
			Storage: StorageConfig{Backend: "local", MaxFileSize: DefaultMaxFileSize},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Auth.JWTSecret = ""
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg = valid()
	cfg.Storage.Backend = "s3"
	assert.ErrorContains(t, cfg.Validate(), "S3_BUCKET")

	cfg = valid()
	cfg.Storage.Backend = "ftp"
	assert.ErrorContains(t, cfg.Validate(), "STORAGE_BACKEND")
}
