package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ProviderCredentials holds the settings for one AI backend
type ProviderCredentials struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost      string
	ServerPort      string
	ClientURL       string
	BodyLimitBytes  int64
	ShutdownTimeout time.Duration

	// AI backend configuration
	AIProvider      string
	ProviderTimeout time.Duration
	Anthropic       ProviderCredentials
	OpenAI          ProviderCredentials
	Gemini          ProviderCredentials
	Classifier      ProviderCredentials

	// Redis configuration, optional. Without it rate limiting stays in-process.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogFile   string
}

// Address is the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

// RedisEnabled reports whether any Redis location was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "3001")
	v.SetDefault("client_url", "http://localhost:5173")
	v.SetDefault("body_limit_bytes", 10<<20)
	v.SetDefault("shutdown_timeout", "10s")

	v.SetDefault("ai_provider", "anthropic")
	v.SetDefault("provider_timeout", "60s")

	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("rate_limit_requests", 30)
	v.SetDefault("rate_limit_window", "1m")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// LoadConfig reads configuration from a .env file when present, then the
// environment, then Docker secrets for credentials
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	// PORT is what most hosting platforms set
	if err := v.BindEnv("server_port", "SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind SERVER_PORT: %w", err)
	}

	providerTimeout, err := parseDuration(v.GetString("provider_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}
	rateWindow, err := parseDuration(v.GetString("rate_limit_window"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	shutdownTimeout, err := parseDuration(v.GetString("shutdown_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Environment:     GetEnvironment(),
		ServerHost:      v.GetString("server_host"),
		ServerPort:      v.GetString("server_port"),
		ClientURL:       v.GetString("client_url"),
		BodyLimitBytes:  v.GetInt64("body_limit_bytes"),
		ShutdownTimeout: shutdownTimeout,

		AIProvider:      strings.ToLower(strings.TrimSpace(v.GetString("ai_provider"))),
		ProviderTimeout: providerTimeout,
		Anthropic: ProviderCredentials{
			APIKey:  resolveSecret(v, "ANTHROPIC_API_KEY"),
			BaseURL: v.GetString("anthropic_api_url"),
			Model:   v.GetString("anthropic_model"),
		},
		OpenAI: ProviderCredentials{
			APIKey:  resolveSecret(v, "OPENAI_API_KEY"),
			BaseURL: v.GetString("openai_base_url"),
			Model:   v.GetString("openai_model"),
		},
		Gemini: ProviderCredentials{
			APIKey: resolveSecret(v, "GEMINI_API_KEY"),
			Model:  v.GetString("gemini_model"),
		},
		Classifier: ProviderCredentials{
			APIKey:  resolveSecret(v, "CLASSIFIER_API_KEY"),
			BaseURL: v.GetString("classifier_api_url"),
		},

		RedisURL:      resolveSecret(v, "REDIS_URL"),
		RedisHost:     v.GetString("redis_host"),
		RedisPort:     v.GetString("redis_port"),
		RedisPassword: resolveSecret(v, "REDIS_PASSWORD"),
		RedisDB:       v.GetInt("redis_db"),

		RateLimitRequests: v.GetInt("rate_limit_requests"),
		RateLimitWindow:   rateWindow,

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogFile:   v.GetString("log_file"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// parseDuration accepts Go durations ("90s") and bare seconds ("90")
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// resolveSecret looks up NAME, then the file named by NAME_FILE, then the
// Docker secret named after the lowercased key
func resolveSecret(v *viper.Viper, name string) string {
	if value := strings.TrimSpace(v.GetString(strings.ToLower(name))); value != "" {
		return value
	}

	if path := strings.TrimSpace(os.Getenv(name + "_FILE")); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}

	return readSecret(strings.ToLower(name))
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
