package tenant

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// ErrorHandler translates tenant resolution failures into HTTP responses.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// config holds middleware configuration.
type config struct {
	cache        Cache
	positiveTTL  time.Duration
	negativeTTL  time.Duration
	errorHandler ErrorHandler
	bypassPaths  []string
	logger       *slog.Logger
	metrics      *Metrics
}

// Option configures the middleware.
type Option func(*config)

// WithCache sets a custom cache implementation. Pass NewNoOpCache() in tests
// to rule out cross-test leakage.
func WithCache(cache Cache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// WithCacheTTL overrides the TTLs for positive and negative lookups.
// Non-positive values keep the defaults (5m positive, 1m negative).
func WithCacheTTL(positive, negative time.Duration) Option {
	return func(c *config) {
		if positive > 0 {
			c.positiveTTL = positive
		}
		if negative > 0 {
			c.negativeTTL = negative
		}
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		c.errorHandler = handler
	}
}

// WithBypassPaths sets path prefixes (health checks, metrics, admin console)
// for which tenant resolution is skipped and the request runs with
// enforcement disabled.
func WithBypassPaths(paths ...string) Option {
	return func(c *config) {
		c.bypassPaths = append(c.bypassPaths, paths...)
	}
}

// WithLogger sets a custom logger for the middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics wires resolution counters into the middleware.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTenantNotFound):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	case errors.Is(err, ErrInactiveTenant):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
