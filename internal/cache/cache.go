// FilePath: internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/config"
	"github.com/Basavaraj-fidelis/wfh/internal/models"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// DayActivityCache is a read-through cache for computed day rollups, keyed
// by (worker_id, date). It is strictly an optimization: every failure mode
// degrades to recomputation from the event store.
type DayActivityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis and returns the cache. Returns nil (cache disabled)
// when no redis host is configured.
func New(cfg config.RedisConfig) *DayActivityCache {
	if !cfg.Enabled() {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	nuts.L.Infof("[Cache] Day-activity cache enabled on %s:%d", cfg.Host, cfg.Port)
	return &DayActivityCache{client: client, ttl: cfg.CacheTTL}
}

func key(workerID, date string) string {
	return fmt.Sprintf("wfh:dayactivity:%s:%s", workerID, date)
}

// Get returns the cached rollup for a worker and date, or nil on miss or
// any cache error.
func (c *DayActivityCache) Get(ctx context.Context, workerID, date string) *models.DayActivity {
	if c == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, key(workerID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			nuts.L.Warnf("[Cache] Get failed for %s/%s: %v", workerID, date, err)
		}
		return nil
	}

	activity := &models.DayActivity{}
	if err := json.Unmarshal(raw, activity); err != nil {
		nuts.L.Warnf("[Cache] Corrupt entry for %s/%s, dropping: %v", workerID, date, err)
		c.client.Del(ctx, key(workerID, date))
		return nil
	}
	return activity
}

// Set stores a computed rollup. Errors are logged and swallowed.
func (c *DayActivityCache) Set(ctx context.Context, workerID string, activity *models.DayActivity) {
	if c == nil || activity == nil {
		return
	}

	raw, err := json.Marshal(activity)
	if err != nil {
		nuts.L.Warnf("[Cache] Marshal failed for %s/%s: %v", workerID, activity.Date, err)
		return
	}
	if err := c.client.Set(ctx, key(workerID, activity.Date), raw, c.ttl).Err(); err != nil {
		nuts.L.Warnf("[Cache] Set failed for %s/%s: %v", workerID, activity.Date, err)
	}
}

// Invalidate drops the cached rollup for a worker and date. Called on every
// same-day ingest so cached aggregates never go stale.
func (c *DayActivityCache) Invalidate(ctx context.Context, workerID, date string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key(workerID, date)).Err(); err != nil {
		nuts.L.Warnf("[Cache] Invalidate failed for %s/%s: %v", workerID, date, err)
	}
}

// Close releases the redis connection.
func (c *DayActivityCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
