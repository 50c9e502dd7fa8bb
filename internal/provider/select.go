package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every provider call
const DefaultTimeout = 60 * time.Second

// VendorOptions carries the credentials for one backend
type VendorOptions struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Options configures backend selection
type Options struct {
	// Provider is one of Names
	Provider string
	Timeout  time.Duration
	// HTTPClient overrides the client built from Timeout
	HTTPClient *http.Client

	Anthropic  VendorOptions
	OpenAI     VendorOptions
	Gemini     VendorOptions
	Classifier VendorOptions

	// OnFallback is told when the classifier degrades to demo data
	OnFallback func(err error)
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// New constructs the configured backend. It never switches to a different
// backend: a missing credential is reported as BackendUnavailable.
func New(ctx context.Context, opts Options) (Adapter, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case NameAnthropic, "":
		return NewAnthropic(opts)
	case NameOpenAI:
		return NewOpenAI(opts)
	case NameGemini:
		return NewGemini(ctx, opts)
	case NameClassifier:
		c, err := NewClassifier(opts)
		if err != nil {
			return nil, err
		}
		return c, nil
	case NameMock:
		return NewMock(), nil
	default:
		return nil, &Error{Kind: BackendUnavailable, Backend: opts.Provider, Op: "init", Err: fmt.Errorf("unknown provider %q", opts.Provider)}
	}
}

// NewOrUnavailable is New, except that a construction failure yields an
// Unavailable adapter so the server can still start and report 503s
func NewOrUnavailable(ctx context.Context, opts Options) (Adapter, error) {
	adapter, err := New(ctx, opts)
	if err != nil {
		name := strings.ToLower(strings.TrimSpace(opts.Provider))
		if name == "" {
			name = NameAnthropic
		}
		return &Unavailable{Backend: name, Cause: err}, err
	}
	return adapter, nil
}
