package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/api"
	"github.com/pageza/fridgechef/backend/internal/database"
	"github.com/pageza/fridgechef/backend/internal/metrics"
	"github.com/pageza/fridgechef/backend/internal/middleware"
	"github.com/pageza/fridgechef/backend/internal/provider"
	"github.com/pageza/fridgechef/backend/internal/router"
	"github.com/pageza/fridgechef/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	cfg     *config.Config
	router  *gin.Engine
	http    *http.Server
	logger  *zap.Logger
	metrics *metrics.Metrics
	redis   *redis.Client
	adapter provider.Adapter
}

// ProviderOptions maps configuration onto adapter construction options
func ProviderOptions(cfg *config.Config) provider.Options {
	return provider.Options{
		Provider: cfg.AIProvider,
		Timeout:  cfg.ProviderTimeout,
		Anthropic: provider.VendorOptions{
			APIKey:  cfg.Anthropic.APIKey,
			BaseURL: cfg.Anthropic.BaseURL,
			Model:   cfg.Anthropic.Model,
		},
		OpenAI: provider.VendorOptions{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		},
		Gemini: provider.VendorOptions{
			APIKey:  cfg.Gemini.APIKey,
			BaseURL: cfg.Gemini.BaseURL,
			Model:   cfg.Gemini.Model,
		},
		Classifier: provider.VendorOptions{
			APIKey:  cfg.Classifier.APIKey,
			BaseURL: cfg.Classifier.BaseURL,
			Model:   cfg.Classifier.Model,
		},
	}
}

// New wires the provider adapter, services, middleware and routes. A backend
// that cannot be constructed does not stop startup; its endpoints answer 503.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()

	opts := ProviderOptions(cfg)
	opts.OnFallback = func(err error) {
		m.ClassifierFallback()
		logger.Warn("Classifier failed, serving demo ingredients", zap.Error(err))
	}
	adapter, err := provider.NewOrUnavailable(ctx, opts)
	if err != nil {
		logger.Warn("AI backend unavailable, AI endpoints will answer 503",
			zap.String("provider", cfg.AIProvider),
			zap.Error(err),
		)
	} else {
		logger.Info("AI backend ready", zap.String("provider", adapter.Name()))
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		adapter: adapter,
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRequests > 0 {
		client, err := database.NewRedisClient(ctx, cfg, logger)
		if err != nil {
			logger.Warn("Redis unavailable, rate limiting in-process", zap.Error(err))
		}
		s.redis = client
		limiter = middleware.NewRateLimiter(client, middleware.RateLimitConfig{
			Window:    cfg.RateLimitWindow,
			Limit:     cfg.RateLimitRequests,
			KeyPrefix: "fridgechef:rate_limit",
		}, logger, m)
	}

	kitchen := service.NewKitchenService(adapter, logger, m)
	s.router = router.SetupRouter(api.NewKitchenHandler(kitchen), router.Options{
		ClientURL:      cfg.ClientURL,
		BodyLimitBytes: cfg.BodyLimitBytes,
		Logger:         logger,
		Metrics:        m,
		RateLimiter:    limiter,
	})

	return s, nil
}

// Handler exposes the routes, mainly for tests
func (s *Server) Handler() http.Handler { return s.router }

// Backend names the adapter the server is using
func (s *Server) Backend() string { return s.adapter.Name() }

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening",
			zap.String("addr", s.http.Addr),
			zap.String("environment", string(s.cfg.Environment)),
			zap.String("provider", s.adapter.Name()),
		)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Stop gracefully stops the HTTP server and releases Redis
func (s *Server) Stop(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
