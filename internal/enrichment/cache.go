package enrichment

import (
	"context"
	"sync"
)

// Guidance is the remediation advice returned by the AI collaborator for
// one fingerprint.
type Guidance struct {
	Fingerprint       string   `json:"fingerprint"`
	Recommendation    string   `json:"recommendation"`
	CodeFix           string   `json:"code_fix,omitempty"`
	ImpactDescription string   `json:"impact_description,omitempty"`
	StandardRefs      []string `json:"standard_refs,omitempty"`
}

// CacheStats exposes hit/miss counters for observability.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Cache short-circuits repeat AI consultations for the same fingerprint.
// The default implementation is scoped to one audit run; a database-backed
// implementation satisfies the same interface for a longer-lived store.
// Put is idempotent: re-storing a fingerprint overwrites its payload.
type Cache interface {
	Get(ctx context.Context, fingerprint string) (*Guidance, bool, error)
	Put(ctx context.Context, fingerprint string, guidance Guidance) error
	Clear(ctx context.Context) error
	Stats() CacheStats
}

// MemoryCache is the in-memory, run-scoped cache implementation. It is
// safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Guidance
	hits    int64
	misses  int64
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Guidance)}
}

// Get returns the cached guidance for a fingerprint, if present.
func (c *MemoryCache) Get(_ context.Context, fingerprint string) (*Guidance, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	guidance, ok := c.entries[fingerprint]
	if !ok {
		c.misses++
		return nil, false, nil
	}
	c.hits++
	return &guidance, true, nil
}

// Put stores guidance for a fingerprint, overwriting any prior entry.
func (c *MemoryCache) Put(_ context.Context, fingerprint string, guidance Guidance) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	guidance.Fingerprint = fingerprint
	c.entries[fingerprint] = guidance
	return nil
}

// Clear empties the cache; counters are reset as well. Safe to call
// between independent campaigns.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Guidance)
	c.hits, c.misses = 0, 0
	return nil
}

// Stats returns the hit/miss counters.
func (c *MemoryCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Hits: c.hits, Misses: c.misses}
}

// Len returns the number of cached fingerprints.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
