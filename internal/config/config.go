// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL    string `env:"DATABASE_URL,required,notEmpty"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"false"`

	// Cache (Redis). Optional: without it key sets are cached in process
	// only and rate limiting is off.
	RedisURL string `env:"REDIS_URL"`

	// Token verification
	Auth0Domain        string        `env:"AUTH0_DOMAIN"`
	AuthAudience       string        `env:"AUTH_AUDIENCE" envDefault:"rentPlants"`
	AuthIssuer         string        `env:"AUTH_ISSUER"`
	JWKSURL            string        `env:"JWKS_URL"`
	JWKSCacheTTL       time.Duration `env:"JWKS_CACHE_TTL" envDefault:"10m"`
	JWKSFetchTimeout   time.Duration `env:"JWKS_FETCH_TIMEOUT" envDefault:"5s"`
	JWKSFetchAttempts  int           `env:"JWKS_FETCH_ATTEMPTS" envDefault:"3"`
	JWKSMinRefresh     time.Duration `env:"JWKS_MIN_REFRESH_INTERVAL" envDefault:"30s"`
	AuthClockSkew      time.Duration `env:"AUTH_CLOCK_SKEW" envDefault:"0s"`
	AuthCollapseErrors bool          `env:"AUTH_COLLAPSE_ERRORS" envDefault:"false"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Comma-separated list of allowed origins; "*" allows any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing or inconsistent.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.deriveAuth()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// deriveAuth fills the issuer and key set URL from AUTH0_DOMAIN when they
// are not set explicitly.
func (c *Config) deriveAuth() {
	domain := strings.TrimSuffix(strings.TrimSpace(c.Auth0Domain), "/")
	domain = strings.TrimPrefix(domain, "https://")
	if domain == "" {
		return
	}

	if c.AuthIssuer == "" {
		c.AuthIssuer = "https://" + domain + "/"
	}
	if c.JWKSURL == "" {
		c.JWKSURL = "https://" + domain + "/.well-known/jwks.json"
	}
}

func (c *Config) validate() error {
	var errs []error

	if c.JWKSURL == "" {
		errs = append(errs, errors.New("JWKS_URL or AUTH0_DOMAIN must be set"))
	} else if u, err := url.Parse(c.JWKSURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("JWKS_URL %q is not an absolute URL", c.JWKSURL))
	}
	if c.AuthIssuer == "" {
		errs = append(errs, errors.New("AUTH_ISSUER or AUTH0_DOMAIN must be set"))
	}
	if c.AuthAudience == "" {
		errs = append(errs, errors.New("AUTH_AUDIENCE must not be empty"))
	}
	if c.JWKSFetchAttempts < 1 {
		errs = append(errs, errors.New("JWKS_FETCH_ATTEMPTS must be at least 1"))
	}
	if c.JWKSMinRefresh <= 0 {
		errs = append(errs, errors.New("JWKS_MIN_REFRESH_INTERVAL must be positive"))
	}
	if c.AuthClockSkew < 0 {
		errs = append(errs, errors.New("AUTH_CLOCK_SKEW must not be negative"))
	}
	if c.RateLimitEnabled && (c.RateLimitRPS < 0 || c.RateLimitBurst < 1) {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be >= 0 and RATE_LIMIT_BURST >= 1"))
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be json or text", c.LogFormat))
	}

	return errors.Join(errs...)
}
