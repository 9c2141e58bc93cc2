package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/storekit/modules/catalog"
	"github.com/dmitrymomot/storekit/modules/onboarding"
	"github.com/dmitrymomot/storekit/modules/user"
	"github.com/dmitrymomot/storekit/pkg/config"
	"github.com/dmitrymomot/storekit/pkg/httpserver"
	"github.com/dmitrymomot/storekit/pkg/jwt"
	"github.com/dmitrymomot/storekit/pkg/logger"
	"github.com/dmitrymomot/storekit/pkg/pg"
	"github.com/dmitrymomot/storekit/pkg/redis"
	"github.com/dmitrymomot/storekit/pkg/tenant"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_NAME" envDefault:"storekit"`

	JWTSecret string `env:"JWT_SECRET,required"`

	// Without Redis, tenant lookups fall back to the in-process cache.
	RedisEnabled bool `env:"REDIS_ENABLED" envDefault:"false"`

	HTTP  httpserver.Config
	PG    pg.Config
	Redis redis.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(tenant.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	tenantStore := onboarding.NewPostgresStore(pool)
	users := user.NewPostgresRepository(pool)

	var tenantCache tenant.Cache
	if cfg.RedisEnabled {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		tenantCache = tenant.NewRedisCache(client)
	} else {
		tenantCache = tenant.NewInMemoryCache()
	}
	defer func() { _ = tenantCache.Close() }()

	tenantMetrics := tenant.NewMetrics()

	jwtSvc, err := jwt.NewFromString(cfg.JWTSecret)
	if err != nil {
		return err
	}

	onboardingSvc := onboarding.NewService(tenantStore, onboarding.WithLogger(log))
	userSvc := user.NewService(users, user.WithLogger(log))
	catalogRepo := catalog.NewPostgresRepository(pool)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(tenant.Middleware(
		tenant.SubdomainResolver(),
		tenantStore,
		tenant.WithCache(tenantCache),
		tenant.WithLogger(log),
		tenant.WithMetrics(tenantMetrics),
		tenant.WithBypassPaths("/health", "/metrics", "/onboarding"),
	))

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool),
	))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Mount("/onboarding", onboarding.NewHandler(onboardingSvc).Router())
	r.Mount("/auth", user.NewHandler(userSvc, jwtSvc).Router())

	// Catalog routes require a valid token whose tenant claim matches the
	// tenant resolved from the subdomain.
	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.Middleware(jwtSvc))
		api.Use(jwt.RequireTenantMatch())
		api.Mount("/catalog", catalog.NewHandler(catalogRepo).Router())
	})

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}
