// Package router assembles the HTTP routes and middleware chain.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/plantrent/plantrent/internal/handler"
	"github.com/plantrent/plantrent/internal/metrics"
	"github.com/plantrent/plantrent/internal/middleware"
	"github.com/plantrent/plantrent/internal/model"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Base    *handler.Handler
	Health  *handler.HealthHandler
	Metrics *handler.MetricsHandler
	Plants  *handler.PlantHandler
	Rentals *handler.RentalHandler
}

// Options configures the middleware chain.
type Options struct {
	Logger   *slog.Logger
	Gate     middleware.Authorizer
	Recorder metrics.Recorder

	// Limiter is nil when rate limiting has no backing store.
	Limiter          middleware.RateLimiter
	RateLimitEnabled bool
	RateLimitRPS     int
	RateLimitBurst   int

	IsDevelopment      bool
	CORSAllowedOrigins []string
	MaxRequestBodySize int64
}

// New returns the configured chi router.
func New(h Handlers, opts Options) *chi.Mux {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = opts.CORSAllowedOrigins

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.Recoverer(opts.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: opts.IsDevelopment}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(opts.MaxRequestBodySize))

	// Operational endpoints
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Get("/metrics", h.Metrics.Metrics)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  opts.Logger,
		Limiter: opts.Limiter,
		Enabled: opts.RateLimitEnabled,
		RPS:     opts.RateLimitRPS,
		Burst:   opts.RateLimitBurst,
	}

	// guard admits only tokens carrying permission, then limits per subject.
	guard := func(permission string) chi.Middlewares {
		return chi.Chain(
			middleware.RequirePermission(opts.Gate, permission, opts.Logger, opts.Recorder),
			middleware.RateLimitSubject(rateLimitCfg),
		)
	}

	// Public catalog
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))
		r.Get("/", h.Plants.List)
		r.Get("/plants", h.Plants.List)
		r.Get("/plants/{id}", h.Plants.Get)
	})

	// Billing
	r.With(guard(model.PermissionGetInvoice)...).Get("/invoice/{renterId}", h.Rentals.Invoice)
	r.With(guard(model.PermissionGetRented)...).Get("/rented", h.Rentals.Rented)
	r.With(guard(model.PermissionGetRenters)...).Get("/renters", h.Rentals.Renters)

	// Catalog management
	r.With(append(guard(model.PermissionPostPlants), middleware.RequireJSON)...).Post("/add", h.Plants.Create)
	r.With(append(guard(model.PermissionPatchPlants), middleware.RequireJSON)...).Patch("/plants/{id}", h.Plants.Update)
	r.With(guard(model.PermissionDeletePlants)...).Delete("/plants/{id}", h.Plants.Delete)

	r.NotFound(h.Base.NotFound)
	r.MethodNotAllowed(h.Base.MethodNotAllowed)

	return r
}
