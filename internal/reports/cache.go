package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/drif-ai/finance/internal/ledger"
)

const cacheVersionKey = "reports:version"

// Cache stores rendered report views in redis. Invalidation bumps a version
// counter instead of scanning for keys; stale entries fall out via TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache builds a report cache with the given entry TTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached view for the period, if present.
func (c *Cache) Get(ctx context.Context, period ledger.Period) (ReportView, bool) {
	if c == nil || c.client == nil {
		return ReportView{}, false
	}
	key, err := c.key(ctx, period)
	if err != nil {
		return ReportView{}, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return ReportView{}, false
	}
	var view ReportView
	if err := json.Unmarshal(raw, &view); err != nil {
		return ReportView{}, false
	}
	return view, true
}

// Set stores the view for the period under the current cache version.
func (c *Cache) Set(ctx context.Context, period ledger.Period, view ReportView) {
	if c == nil || c.client == nil {
		return
	}
	key, err := c.key(ctx, period)
	if err != nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, raw, c.ttl)
}

// Bust invalidates all cached reports by bumping the version counter.
// Implements the journal service's CacheBuster port.
func (c *Cache) Bust(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}

func (c *Cache) key(ctx context.Context, period ledger.Period) (string, error) {
	version, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("reports:v%d:%s:%s",
		version,
		period.Start.Format("2006-01-02"),
		period.End.Format("2006-01-02"),
	), nil
}
