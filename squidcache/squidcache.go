// Package squidcache remembers the most recently used squid for each crawler.
package squidcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codeGROOVE-dev/bdcache"
	"github.com/codeGROOVE-dev/bdcache/persist/localfs"
)

// defaultTTL bounds how long a remembered squid is offered as the default.
// Stale squids may have been deleted on the vendor side.
const defaultTTL = 90 * 24 * time.Hour

// Cache stores the last-used squid ID per crawler with disk persistence.
type Cache struct {
	cache *bdcache.Cache[string, string]
	ttl   time.Duration
}

// New creates a Cache with disk persistence at ~/.cache/liscrape.
func New(ctx context.Context) (*Cache, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return NewWithPath(ctx, filepath.Join(cacheDir, "liscrape"))
}

// NewWithPath creates a Cache with disk persistence at the specified path.
func NewWithPath(ctx context.Context, cachePath string) (*Cache, error) {
	if err := os.MkdirAll(cachePath, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	persist, err := localfs.New[string, string]("liscrape", cachePath)
	if err != nil {
		return nil, fmt.Errorf("create persistence layer: %w", err)
	}

	cache, err := bdcache.New[string, string](
		ctx,
		bdcache.WithPersistence(persist),
		bdcache.WithDefaultTTL(defaultTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	return &Cache{cache: cache, ttl: defaultTTL}, nil
}

// LastUsed returns the remembered squid ID for a crawler, if any.
func (c *Cache) LastUsed(ctx context.Context, crawlerID string) (string, bool) {
	id, found, err := c.cache.Get(ctx, "squid:"+crawlerID)
	if err != nil || !found || id == "" {
		return "", false
	}
	return id, true
}

// Record remembers the squid ID for a crawler. Cache failures are non-fatal;
// the next run simply gets no default selection.
func (c *Cache) Record(ctx context.Context, crawlerID, squidID string) {
	_ = c.cache.Set(ctx, "squid:"+crawlerID, squidID, c.ttl) //nolint:errcheck // cache errors are non-critical
}

// Close flushes and closes the cache.
func (c *Cache) Close() error {
	return c.cache.Close()
}
