package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/plantrent/plantrent/internal/metrics"
)

const (
	defaultFetchTimeout  = 5 * time.Second
	defaultFetchAttempts = 3
	defaultRetryBase     = 200 * time.Millisecond
	defaultMinRefresh    = 30 * time.Second
	maxJWKSBodySize      = 1 << 20
)

var (
	errJWKSStatus   = errors.New("jwks endpoint returned non-2xx status")
	errJWKSNoKeys   = errors.New("jwks contains no keys")
	errJWKSBadParam = errors.New("jwk has invalid rsa parameters")
	errRefreshSoon  = errors.New("jwks refreshed too recently")
)

// KeyResolver returns the public key that signed a token with the given kid.
type KeyResolver interface {
	ResolveKey(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// DocumentCache stores the raw key set document between requests.
// Get returns (nil, nil) on a miss.
type DocumentCache interface {
	GetJWKS(ctx context.Context, url string) ([]byte, error)
	SetJWKS(ctx context.Context, url string, doc []byte, ttl time.Duration) error
}

// JWKSConfig configures a JWKSResolver.
type JWKSConfig struct {
	URL          string
	HTTPClient   *http.Client
	FetchTimeout time.Duration
	Attempts     int
	RetryBase    time.Duration

	// Cache is optional. Without it every resolution fetches the key set.
	Cache    DocumentCache
	CacheTTL time.Duration
	// MinRefreshInterval bounds how often a kid missing from the cached
	// document may trigger a refetch.
	MinRefreshInterval time.Duration

	Logger  *slog.Logger
	Metrics metrics.Recorder
}

// JWKSResolver resolves signing keys from a remote JWKS endpoint.
type JWKSResolver struct {
	url          string
	httpClient   *http.Client
	fetchTimeout time.Duration
	attempts     int
	retryBase    time.Duration
	cache        DocumentCache
	cacheTTL     time.Duration
	minRefresh   time.Duration
	logger       *slog.Logger
	metrics      metrics.Recorder

	mu        sync.Mutex
	lastFetch time.Time
	now       func() time.Time
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// NewJWKSResolver creates a resolver, filling unset fields with defaults.
func NewJWKSResolver(cfg JWKSConfig) *JWKSResolver {
	r := &JWKSResolver{
		url:          cfg.URL,
		httpClient:   cfg.HTTPClient,
		fetchTimeout: cfg.FetchTimeout,
		attempts:     cfg.Attempts,
		retryBase:    cfg.RetryBase,
		cache:        cfg.Cache,
		cacheTTL:     cfg.CacheTTL,
		minRefresh:   cfg.MinRefreshInterval,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		now:          time.Now,
	}
	if r.httpClient == nil {
		r.httpClient = http.DefaultClient
	}
	if r.fetchTimeout <= 0 {
		r.fetchTimeout = defaultFetchTimeout
	}
	if r.attempts <= 0 {
		r.attempts = defaultFetchAttempts
	}
	if r.retryBase <= 0 {
		r.retryBase = defaultRetryBase
	}
	if r.cacheTTL <= 0 {
		r.cache = nil
	}
	if r.minRefresh <= 0 {
		r.minRefresh = defaultMinRefresh
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.metrics == nil {
		r.metrics = metrics.NewNoop()
	}
	return r
}

// ResolveKey returns the RSA key whose kid matches.
//
// A cached document is tried first. A kid missing from it triggers a fresh
// fetch so rotated keys are picked up, at most once per MinRefreshInterval.
// Fetch failures are reported as a retryable KeyNotFound wrapping the cause.
func (r *JWKSResolver) ResolveKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if r.cache != nil {
		key, state := r.resolveCached(ctx, kid)
		switch state {
		case cacheHit:
			return key, nil
		case cacheKidMiss:
			if !r.reserveRefresh() {
				return nil, newError(KeyNotFound, errRefreshSoon)
			}
		default:
			r.markFetch()
		}
	} else {
		r.markFetch()
	}

	doc, err := r.fetch(ctx)
	if err != nil {
		keyErr := newError(KeyNotFound, err)
		keyErr.Retryable = true
		return nil, keyErr
	}

	if r.cache != nil {
		if err := r.cache.SetJWKS(ctx, r.url, doc, r.cacheTTL); err != nil {
			r.logger.Warn("failed to cache jwks document", slog.String("error", err.Error()))
		}
	}

	return findKey(doc, kid)
}

type cacheState int

const (
	cacheEmpty cacheState = iota
	cacheKidMiss
	cacheHit
)

func (r *JWKSResolver) resolveCached(ctx context.Context, kid string) (*rsa.PublicKey, cacheState) {
	doc, err := r.cache.GetJWKS(ctx, r.url)
	if err != nil {
		r.logger.Warn("jwks cache lookup failed", slog.String("error", err.Error()))
		return nil, cacheEmpty
	}
	if doc == nil {
		r.metrics.IncJWKSCacheMiss()
		return nil, cacheEmpty
	}

	key, err := findKey(doc, kid)
	if err != nil {
		r.metrics.IncJWKSCacheMiss()
		return nil, cacheKidMiss
	}
	r.metrics.IncJWKSCacheHit()
	return key, cacheHit
}

// reserveRefresh reports whether a kid miss may refetch now, and if so
// records the fetch so concurrent misses are refused.
func (r *JWKSResolver) reserveRefresh() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !r.lastFetch.IsZero() && now.Sub(r.lastFetch) < r.minRefresh {
		return false
	}
	r.lastFetch = now
	return true
}

func (r *JWKSResolver) markFetch() {
	r.mu.Lock()
	r.lastFetch = r.now()
	r.mu.Unlock()
}

// fetch downloads the key set, retrying transient failures with exponential
// backoff. Each attempt is bounded by the fetch timeout.
func (r *JWKSResolver) fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveJWKSFetchDuration(time.Since(start))
	}()

	backoff := retry.WithMaxRetries(uint64(r.attempts-1), retry.NewExponential(r.retryBase))

	var doc []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		body, err := r.fetchOnce(ctx)
		if err != nil {
			r.logger.Debug("jwks fetch attempt failed", slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		doc = body
		return nil
	})
	if err != nil {
		r.metrics.IncJWKSFetch("failed")
		r.logger.Warn("jwks fetch failed",
			slog.String("url", r.url),
			slog.Int("attempts", r.attempts),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	r.metrics.IncJWKSFetch("success")
	return doc, nil
}

func (r *JWKSResolver) fetchOnce(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build jwks request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", errJWKSStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read jwks: %w", err)
	}

	var doc jwksDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode jwks: %w", err)
	}
	if len(doc.Keys) == 0 {
		return nil, errJWKSNoKeys
	}

	return body, nil
}

// findKey looks up kid in a raw key set document.
func findKey(raw []byte, kid string) (*rsa.PublicKey, error) {
	var doc jwksDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, newError(KeyNotFound, fmt.Errorf("failed to decode jwks: %w", err))
	}

	for _, key := range doc.Keys {
		if key.Kid != kid || key.Kty != "RSA" {
			continue
		}
		pub, err := jwkToRSAPublicKey(key)
		if err != nil {
			return nil, newError(KeyNotFound, err)
		}
		return pub, nil
	}

	return nil, newError(KeyNotFound, nil)
}

func jwkToRSAPublicKey(key jwk) (*rsa.PublicKey, error) {
	if key.N == "" || key.E == "" {
		return nil, errJWKSBadParam
	}
	nBytes, err := base64.RawURLEncoding.DecodeString(key.N)
	if err != nil {
		return nil, fmt.Errorf("%w: modulus: %v", errJWKSBadParam, err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(key.E)
	if err != nil {
		return nil, fmt.Errorf("%w: exponent: %v", errJWKSBadParam, err)
	}

	e := new(big.Int).SetBytes(eBytes).Int64()
	if e <= 0 || e > int64(^uint32(0)) {
		return nil, fmt.Errorf("%w: exponent out of range", errJWKSBadParam)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(e),
	}, nil
}
