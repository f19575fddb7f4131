package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const jwksPrefix = keyPrefix + "jwks:"

// GetJWKS returns the cached key set document for url, or nil on a miss.
func (c *Cache) GetJWKS(ctx context.Context, url string) ([]byte, error) {
	doc, err := c.client.Get(ctx, jwksKey(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get jwks: %w", err)
	}
	return doc, nil
}

// SetJWKS caches a key set document for ttl.
func (c *Cache) SetJWKS(ctx context.Context, url string, doc []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, jwksKey(url), doc, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set jwks: %w", err)
	}
	return nil
}

func jwksKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return jwksPrefix + hex.EncodeToString(sum[:8])
}
