package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryDocumentCache is an in-process DocumentCache used when no Redis is
// configured. Entries expire after their TTL.
type MemoryDocumentCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	doc       []byte
	expiresAt time.Time
}

// NewMemoryDocumentCache creates an empty cache.
func NewMemoryDocumentCache() *MemoryDocumentCache {
	return &MemoryDocumentCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// GetJWKS returns the cached document, or nil when absent or expired.
func (c *MemoryDocumentCache) GetJWKS(ctx context.Context, url string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, nil
	}
	return entry.doc, nil
}

// SetJWKS stores a copy of doc for ttl.
func (c *MemoryDocumentCache) SetJWKS(ctx context.Context, url string, doc []byte, ttl time.Duration) error {
	stored := make([]byte, len(doc))
	copy(stored, doc)

	c.mu.Lock()
	c.entries[url] = memoryEntry{doc: stored, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
