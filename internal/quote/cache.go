package quote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quvondiq/pricebot/internal/domain"
	"go.uber.org/zap"
)

// Cache holds the most recent quote snapshot behind a freshness window.
// Fetch failures never escape it: callers get either a snapshot (fresh
// or stale) or domain.ErrUnavailable.
type Cache struct {
	source domain.QuoteSource
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu   sync.RWMutex
	snap *domain.Snapshot
}

func NewCache(source domain.QuoteSource, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{source: source, ttl: ttl, logger: logger, now: time.Now}
}

// Get returns the current snapshot, contacting the source only when the
// held snapshot is older than the freshness window. When the fetch fails
// and allowStale is set, the previous snapshot is returned as-is.
func (c *Cache) Get(ctx context.Context, symbols []string, allowStale bool) (*domain.Snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if snap != nil && c.now().Sub(snap.FetchedAt) < c.ttl {
		return snap, nil
	}
	return c.fetch(ctx, symbols, snap, allowStale)
}

// Refresh bypasses the freshness window and always contacts the source.
// It still degrades to the previous snapshot when the source fails or
// throttles the request.
func (c *Cache) Refresh(ctx context.Context, symbols []string) (*domain.Snapshot, error) {
	c.mu.RLock()
	prev := c.snap
	c.mu.RUnlock()

	return c.fetch(ctx, symbols, prev, true)
}

func (c *Cache) fetch(ctx context.Context, symbols []string, prev *domain.Snapshot, allowStale bool) (*domain.Snapshot, error) {
	quotes, err := c.source.Fetch(ctx, symbols)
	if err != nil {
		if prev != nil && allowStale {
			c.logger.Warn("serving stale quote snapshot", zap.Time("fetched_at", prev.FetchedAt), zap.Error(err))
			return prev, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	snap := &domain.Snapshot{Quotes: quotes, FetchedAt: c.now()}
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
	return snap, nil
}
