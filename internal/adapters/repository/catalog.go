package repository

import (
	"context"
	"sync"
	"time"

	"github.com/betalog/betalog/internal/adapters/store"
	"github.com/betalog/betalog/pkg/logger"
	"github.com/betalog/betalog/pkg/metrics"
)

// Root path of the route collection; its child keys are the panel types.
const routesRoot = "routes"

// defaultCatalogTTL bounds how long the panel-type list is served from
// memory before a refetch.
const defaultCatalogTTL = 10 * time.Minute

// catalog is the read-through panel-type cache. It is owned by the route
// repository instance, never a package global, so test runs cannot share
// state. Concurrent refreshes after expiry are not deduplicated: each may
// issue its own backend fetch. The fetch is idempotent and cheap, so this
// is a documented inefficiency rather than a correctness bug.
type catalog struct {
	mu        sync.Mutex
	store     store.Store
	ttl       time.Duration
	now       func() time.Time
	log       logger.Logger
	panels    []string
	fetchedAt time.Time
}

func newCatalog(s store.Store, ttl time.Duration, now func() time.Time, log logger.Logger) *catalog {
	return &catalog{store: s, ttl: ttl, now: now, log: log}
}

// panelTypes returns the ordered panel-type list, refetching when the
// cached value is older than the TTL. A fetch failure surfaces as the
// error; callers decide how to degrade.
func (c *catalog) panelTypes(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	if !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl {
		cached := make([]string, len(c.panels))
		copy(cached, c.panels)
		c.mu.Unlock()
		metrics.RecordCatalogCacheHit()
		return cached, nil
	}
	c.mu.Unlock()

	metrics.RecordCatalogCacheMiss()
	panels, err := c.store.ListChildKeys(ctx, routesRoot)
	if err != nil {
		c.log.Warn(ctx, "panel catalog fetch failed", logger.Error(err))
		return nil, err
	}

	c.mu.Lock()
	c.panels = panels
	c.fetchedAt = c.now()
	c.mu.Unlock()

	metrics.RecordCatalogCacheRefresh()
	result := make([]string, len(panels))
	copy(result, panels)
	return result, nil
}
