package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/internal/api"
	"github.com/pageza/fridgechef/backend/internal/metrics"
	"github.com/pageza/fridgechef/backend/internal/middleware"
)

// Options carries the cross-cutting pieces the router wires in
type Options struct {
	ClientURL      string
	BodyLimitBytes int64
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	// RateLimiter guards the AI endpoints; nil disables rate limiting
	RateLimiter *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(kitchenHandler *api.KitchenHandler, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger, opts.Metrics),
		middleware.CORS(opts.ClientURL),
		middleware.ErrorHandler(logger),
	)
	if opts.BodyLimitBytes > 0 {
		router.Use(middleware.BodyLimit(opts.BodyLimitBytes))
	}
	router.NoRoute(middleware.NotFound())

	var guard gin.HandlerFunc
	if opts.RateLimiter != nil {
		guard = opts.RateLimiter.Middleware()
	}
	kitchenHandler.RegisterRoutes(router.Group("/api"), guard)

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	return router
}
