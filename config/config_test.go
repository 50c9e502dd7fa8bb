package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points secret lookups at an empty directory and clears keys the
// host environment might set
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	for _, key := range []string{
		"ENV", "CI", "PORT", "SERVER_PORT", "SERVER_HOST", "CLIENT_URL", "AI_PROVIDER",
		"PROVIDER_TIMEOUT", "ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY_FILE", "OPENAI_API_KEY",
		"GEMINI_API_KEY", "REDIS_URL", "REDIS_HOST", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW",
		"LOG_FORMAT", "LOG_LEVEL", "BODY_LIMIT_BYTES",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "3001", cfg.ServerPort)
	assert.Equal(t, "0.0.0.0:3001", cfg.Address())
	assert.Equal(t, "http://localhost:5173", cfg.ClientURL)
	assert.Equal(t, "anthropic", cfg.AIProvider)
	assert.Equal(t, 60*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, int64(10<<20), cfg.BodyLimitBytes)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.Anthropic.APIKey)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfig(t *testing.T) {
	t.Run("should read values from the environment", func(t *testing.T) {
		isolate(t)
		t.Setenv("PORT", "8080")
		t.Setenv("AI_PROVIDER", "OpenAI")
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
		t.Setenv("PROVIDER_TIMEOUT", "30")
		t.Setenv("REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("RATE_LIMIT_WINDOW", "2m")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.ServerPort)
		assert.Equal(t, "openai", cfg.AIProvider)
		assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
		assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
		assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
		assert.Equal(t, 2*time.Minute, cfg.RateLimitWindow)
		assert.True(t, cfg.RedisEnabled())
	})

	t.Run("should prefer SERVER_PORT over PORT", func(t *testing.T) {
		isolate(t)
		t.Setenv("PORT", "8080")
		t.Setenv("SERVER_PORT", "9090")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.ServerPort)
	})

	t.Run("should read API keys from _FILE variables", func(t *testing.T) {
		dir := isolate(t)
		keyFile := filepath.Join(dir, "anthropic.key")
		require.NoError(t, os.WriteFile(keyFile, []byte("  file-key\n"), 0o600))
		t.Setenv("ANTHROPIC_API_KEY_FILE", keyFile)

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "file-key", cfg.Anthropic.APIKey)
	})

	t.Run("should read API keys from Docker secrets", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "gemini_api_key"), []byte("secret-key"), 0o600))

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "secret-key", cfg.Gemini.APIKey)
	})

	t.Run("should collect every validation error", func(t *testing.T) {
		isolate(t)
		t.Setenv("SERVER_PORT", "not-a-port")
		t.Setenv("AI_PROVIDER", "watson")
		t.Setenv("LOG_FORMAT", "xml")

		_, err := LoadConfig()
		require.Error(t, err)

		var verrs ValidationErrors
		require.True(t, errors.As(err, &verrs))
		fields := make([]string, 0, len(verrs))
		for _, v := range verrs {
			fields = append(fields, v.Field)
		}
		assert.ElementsMatch(t, []string{"SERVER_PORT", "AI_PROVIDER", "LOG_FORMAT"}, fields)
	})

	t.Run("should reject malformed durations", func(t *testing.T) {
		isolate(t)
		t.Setenv("PROVIDER_TIMEOUT", "soon")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "PROVIDER_TIMEOUT")
	})
}

func TestGetEnvironment(t *testing.T) {
	isolate(t)

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, GetEnvironment().IsProduction())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())

	t.Setenv("CI", "")
	t.Setenv("ENV", "")
	assert.True(t, GetEnvironment().IsDevelopment())

	t.Run("should treat unknown values as development", func(t *testing.T) {
		assert.Equal(t, Development, ParseEnvironment("staging"))
		assert.Equal(t, Production, ParseEnvironment(" PROD "))
	})
}
