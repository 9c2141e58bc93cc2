package tenant

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultPositiveTTL caches successful subdomain lookups.
	DefaultPositiveTTL = 5 * time.Minute
	// DefaultNegativeTTL caches failed lookups for a shorter window so
	// repeated invalid-subdomain probes don't hammer the backing store.
	DefaultNegativeTTL = 1 * time.Minute
)

// Middleware resolves the tenant from the inbound request and installs it
// into the request context for the duration of the request.
//
// Bypass paths skip resolution entirely and run with enforcement disabled.
// Everything else must resolve to an active tenant or the request fails with
// a not-found response before any handler executes. The context frame is
// dropped together with the request context, so teardown is guaranteed even
// when a handler panics.
func Middleware(resolver Resolver, provider Provider, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		cache:        NewInMemoryCache(),
		positiveTTL:  DefaultPositiveTTL,
		negativeTTL:  DefaultNegativeTTL,
		errorHandler: defaultErrorHandler,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range cfg.bypassPaths {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r.WithContext(WithEnforcementDisabled(r.Context())))
					return
				}
			}

			subdomain := resolver(r)
			if subdomain == "" {
				cfg.logger.WarnContext(r.Context(), "no subdomain in host header",
					slog.String("host", r.Host))
				cfg.errorHandler(w, r, ErrTenantNotFound)
				return
			}

			t, err := lookup(cfg, provider, r, subdomain)
			if err != nil {
				cfg.logger.WarnContext(r.Context(), "tenant resolution failed",
					slog.String("subdomain", subdomain),
					slog.Any("error", err))
				cfg.errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), t)))
		})
	}
}

// lookup loads the tenant for a subdomain through the cache, populating
// positive and negative entries with their respective TTLs.
func lookup(cfg *config, provider Provider, r *http.Request, subdomain string) (*Tenant, error) {
	key := CacheKey(subdomain)

	if cached, ok := cfg.cache.Get(r.Context(), key); ok {
		cfg.metrics.cacheHit()
		if cached == nil || !cached.Active {
			return nil, ErrTenantNotFound
		}
		return cached, nil
	}
	cfg.metrics.cacheMiss()

	t, err := provider.GetBySubdomain(r.Context(), subdomain)
	switch {
	case errors.Is(err, ErrTenantNotFound):
		cfg.cache.Set(r.Context(), key, nil, cfg.negativeTTL)
		cfg.metrics.resolutionFailed()
		return nil, ErrTenantNotFound
	case err != nil:
		return nil, err
	}

	if !t.Active {
		cfg.cache.Set(r.Context(), key, nil, cfg.negativeTTL)
		cfg.metrics.resolutionFailed()
		return nil, ErrTenantNotFound
	}

	cfg.cache.Set(r.Context(), key, t, cfg.positiveTTL)
	return t, nil
}

// RequireTenant ensures a tenant is present in the context. Useful for
// routes mounted outside the resolving middleware.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrTenantNotFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
