// Package main is the entrypoint for the plantrent API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/plantrent/plantrent/internal/auth"
	"github.com/plantrent/plantrent/internal/cache"
	"github.com/plantrent/plantrent/internal/config"
	"github.com/plantrent/plantrent/internal/handler"
	"github.com/plantrent/plantrent/internal/metrics"
	"github.com/plantrent/plantrent/internal/middleware"
	"github.com/plantrent/plantrent/internal/migrations"
	"github.com/plantrent/plantrent/internal/repository"
	"github.com/plantrent/plantrent/internal/router"
	"github.com/plantrent/plantrent/internal/server"
	"github.com/plantrent/plantrent/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if cfg.MigrateOnStart {
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Error("failed to apply migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	recorder := metrics.NewInMemory()

	// Interfaces stay untyped nil when Redis is not configured.
	var (
		documents   auth.DocumentCache = auth.NewMemoryDocumentCache()
		limiter     middleware.RateLimiter
		cacheHealth handler.HealthChecker
		cacheClient *cache.Cache
	)
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			repo.Close()
			os.Exit(1)
		}
		documents, limiter, cacheHealth = cacheClient, cacheClient, cacheClient
		logger.Info("connected to Redis")
	} else {
		logger.Warn("REDIS_URL not set; key sets cached in process and rate limiting disabled")
	}

	resolver := auth.NewJWKSResolver(auth.JWKSConfig{
		URL:                cfg.JWKSURL,
		FetchTimeout:       cfg.JWKSFetchTimeout,
		Attempts:           cfg.JWKSFetchAttempts,
		Cache:              documents,
		CacheTTL:           cfg.JWKSCacheTTL,
		MinRefreshInterval: cfg.JWKSMinRefresh,
		Logger:             logger,
		Metrics:            recorder,
	})
	verifier := auth.NewVerifier(resolver, auth.VerifierConfig{
		Audience: cfg.AuthAudience,
		Issuer:   cfg.AuthIssuer,
		Leeway:   cfg.AuthClockSkew,
	})
	var gateOpts []auth.GateOption
	if cfg.AuthCollapseErrors {
		gateOpts = append(gateOpts, auth.WithCollapsedErrors())
	}
	gate := auth.NewGate(verifier, gateOpts...)

	catalog := service.NewCatalogService(repo, recorder)
	rentals := service.NewRentalService(repo, recorder)

	r := router.New(router.Handlers{
		Base:    handler.New(),
		Health:  handler.NewHealthHandler(repo, cacheHealth, logger),
		Metrics: handler.NewMetricsHandler(recorder),
		Plants:  handler.NewPlantHandler(catalog, logger),
		Rentals: handler.NewRentalHandler(rentals, logger),
	}, router.Options{
		Logger:             logger,
		Gate:               gate,
		Recorder:           recorder,
		Limiter:            limiter,
		RateLimitEnabled:   cfg.RateLimitEnabled,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		IsDevelopment:      cfg.IsDevelopment(),
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Closed in reverse order: Redis first, then the pool.
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"audience", cfg.AuthAudience,
		"issuer", cfg.AuthIssuer,
		"collapse_auth_errors", cfg.AuthCollapseErrors,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func migrate(ctx context.Context, databaseURL string) error {
	db, err := migrations.Open(databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	return migrations.Up(ctx, db)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With(slog.String("service", "plantrent"))
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
