package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/plantrent/plantrent/internal/auth"
	"github.com/plantrent/plantrent/internal/cache"
	"github.com/plantrent/plantrent/internal/handler"
)

// RateLimiter consumes tokens from per-client buckets.
type RateLimiter interface {
	CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*cache.RateLimitResult, error)
	CheckSubjectRateLimit(ctx context.Context, subject string, ratePerSecond, burst int) (*cache.RateLimitResult, error)
}

// RateLimitConfig holds configuration for rate limiting middleware.
// A nil Limiter disables limiting, which is the case when no Redis is configured.
type RateLimitConfig struct {
	Logger  *slog.Logger
	Limiter RateLimiter
	Enabled bool
	RPS     int
	Burst   int
}

func (c RateLimitConfig) active() bool {
	return c.Enabled && c.Limiter != nil
}

// RateLimitIP returns middleware that rate limits requests per client IP.
// It should run after chi's RealIP so proxied clients are told apart.
func RateLimitIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.active() {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			result, err := cfg.Limiter.CheckIPRateLimit(r.Context(), ip, cfg.RPS, cfg.Burst)
			enforce(cfg, w, r, next, result, err, slog.String("type", "ip"))
		})
	}
}

// RateLimitSubject returns middleware that rate limits requests per token
// subject. It must be applied after RequirePermission; requests without
// claims fall back to the client IP bucket.
func RateLimitSubject(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.active() {
				next.ServeHTTP(w, r)
				return
			}

			subject := auth.SubjectFromContext(r.Context())
			if subject == "" {
				result, err := cfg.Limiter.CheckIPRateLimit(r.Context(), clientIP(r), cfg.RPS, cfg.Burst)
				enforce(cfg, w, r, next, result, err, slog.String("type", "ip"))
				return
			}

			result, err := cfg.Limiter.CheckSubjectRateLimit(r.Context(), subject, cfg.RPS, cfg.Burst)
			enforce(cfg, w, r, next, result, err, slog.String("type", "subject"))
		})
	}
}

// enforce applies a rate limit decision. Limiter errors fail open.
func enforce(cfg RateLimitConfig, w http.ResponseWriter, r *http.Request, next http.Handler, result *cache.RateLimitResult, err error, kind slog.Attr) {
	if err != nil {
		cfg.Logger.Error("rate limit check failed",
			slog.String("error", err.Error()),
			kind,
			slog.String("request_id", GetRequestID(r.Context())),
		)
	}
	if result == nil {
		next.ServeHTTP(w, r)
		return
	}

	setRateLimitHeaders(w, cfg.Burst, result.Remaining, result.ResetAt)

	if !result.Allowed {
		cfg.Logger.Warn("rate limit exceeded",
			kind,
			slog.String("endpoint", r.Method+" "+r.URL.Path),
			slog.Int64("retry_after_seconds", int64(result.RetryAfter.Seconds())),
			slog.String("request_id", GetRequestID(r.Context())),
		)

		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(result.RetryAfter)))
		handler.WriteError(w, http.StatusTooManyRequests)
		return
	}

	next.ServeHTTP(w, r)
}

// setRateLimitHeaders sets standard rate limit response headers.
func setRateLimitHeaders(w http.ResponseWriter, limit int, remaining int64, resetAt time.Time) {
	if limit <= 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}

func retryAfterSeconds(d time.Duration) int {
	if s := int(d.Seconds()); s > 0 {
		return s
	}
	return 1
}

// clientIP strips the port from RemoteAddr when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
