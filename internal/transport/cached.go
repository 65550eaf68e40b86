package transport

import (
	"context"
	"errors"

	"github.com/jonesrussell/philosophy/internal/cache"
	"github.com/jonesrussell/philosophy/internal/logger"
	"github.com/jonesrussell/philosophy/internal/wiki"
)

// Cached serves articles from a disk cache and records fresh answers.
// Failures are never cached.
type Cached struct {
	next  Fetcher
	cache *cache.Cache
	log   logger.Interface
}

// NewCached wraps next with the disk cache.
func NewCached(next Fetcher, c *cache.Cache, log logger.Interface) *Cached {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Cached{
		next:  next,
		cache: c,
		log:   log.WithComponent("cache"),
	}
}

// Fetch implements Fetcher.
func (c *Cached) Fetch(ctx context.Context, key wiki.Key) ([]byte, error) {
	entry, err := c.cache.Get(key.String())
	if err != nil {
		c.log.Warn("Cache read failed, fetching", "key", key.String(), "error", err)
	}
	if entry != nil {
		switch entry.Status {
		case cache.StatusOK:
			c.log.Debug("Cache hit", "key", key.String(), "cached_at", entry.CachedAt)
			return entry.Body, nil
		case cache.StatusNotFound:
			c.log.Debug("Cache hit (not found)", "key", key.String(), "cached_at", entry.CachedAt)
			return nil, ErrNotFound
		}
	}

	body, err := c.next.Fetch(ctx, key)
	switch {
	case err == nil:
		c.store(key, cache.StatusOK, body)
	case errors.Is(err, ErrNotFound):
		c.store(key, cache.StatusNotFound, nil)
	}
	return body, err
}

func (c *Cached) store(key wiki.Key, status string, body []byte) {
	if err := c.cache.Put(key.String(), status, body); err != nil {
		c.log.Warn("Cache write failed", "key", key.String(), "error", err)
	}
}
