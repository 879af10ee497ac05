package config

import (
	"testing"
	"time"

	"deliciasmz/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "STORAGE_MODE", "MONGODB_URI", "MONGODB_DATABASE", "REDIS_ADDR",
		"REDIS_PASSWORD", "REDIS_DB", "GEMINI_API_KEY", "API_KEY", "JWT_SECRET",
		"ADMIN_SECRET", "REQUIRE_EMAIL_CONFIRMATION", "REQUEST_TIMEOUT",
		"UPLOAD_DIR", "LOG_LEVEL", "RATE_LIMIT", "RATE_BURST",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, storage.ModeLocal, cfg.StorageMode)
	assert.Equal(t, "deliciasmz", cfg.MongoDatabase)
	assert.True(t, cfg.RequireConfirmation)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "static/uploads", cfg.UploadDir)
	assert.True(t, cfg.DevSecret())
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_MODE", "remote")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("REQUIRE_EMAIL_CONFIRMATION", "false")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT", "2.5")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, storage.ModeRemote, cfg.StorageMode)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
	assert.False(t, cfg.RequireConfirmation)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.False(t, cfg.DevSecret())

	t.Setenv("GEMINI_API_KEY", "new-key")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "new-key", cfg.GeminiAPIKey)
}

func TestInvalidValues(t *testing.T) {
	for key, val := range map[string]string{
		"STORAGE_MODE":    "cloud",
		"REDIS_DB":        "one",
		"REQUEST_TIMEOUT": "soon",
		"RATE_BURST":      "many",
	} {
		clearEnv(t)
		t.Setenv(key, val)
		_, err := FromEnv()
		assert.Error(t, err, key)
	}
}
