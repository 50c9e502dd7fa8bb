package config

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/pageza/fridgechef/backend/internal/provider"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

var logFormats = []string{"json", "console"}

// ValidateConfig checks the configuration values. Missing provider
// credentials are not an error here: the server starts and reports the
// backend as unavailable.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	port, err := strconv.Atoi(cfg.ServerPort)
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: fmt.Sprintf("must be a port number, got %q", cfg.ServerPort)})
	}

	if cfg.ClientURL != "" {
		if u, err := url.Parse(cfg.ClientURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{Field: "CLIENT_URL", Message: fmt.Sprintf("must be an absolute URL, got %q", cfg.ClientURL)})
		}
	}

	if !slices.Contains(provider.Names, cfg.AIProvider) {
		errs = append(errs, ValidationError{Field: "AI_PROVIDER", Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(provider.Names, ", "), cfg.AIProvider)})
	}

	if cfg.ProviderTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "PROVIDER_TIMEOUT", Message: "must be positive"})
	}

	if cfg.BodyLimitBytes <= 0 {
		errs = append(errs, ValidationError{Field: "BODY_LIMIT_BYTES", Message: "must be positive"})
	}

	if cfg.RateLimitRequests < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_REQUESTS", Message: "must not be negative"})
	}
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_WINDOW", Message: "must be positive when rate limiting is enabled"})
	}

	if !slices.Contains(logFormats, cfg.LogFormat) {
		errs = append(errs, ValidationError{Field: "LOG_FORMAT", Message: fmt.Sprintf("must be json or console, got %q", cfg.LogFormat)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
