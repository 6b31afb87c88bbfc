package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crmdesk/crm-system/internal/core/ports"
)

const statsTTL = 10 * time.Minute

// StatsCache stores computed monthly statistics series per tenant.
// Key format: stats:<owner_id>:<entity>:<year>
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a StatsCache wrapping the given Redis client.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// Get returns the cached series for the tenant/entity/year, reporting a miss
// through the second return value.
func (c *StatsCache) Get(ctx context.Context, ownerID, entity string, year int) ([]ports.MonthlyCount, bool, error) {
	raw, err := c.client.Get(ctx, c.key(ownerID, entity, year)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stats cache get: %w", err)
	}

	var series []ports.MonthlyCount
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, false, fmt.Errorf("stats cache decode: %w", err)
	}
	return series, true, nil
}

// Set stores a series with the cache TTL.
func (c *StatsCache) Set(ctx context.Context, ownerID, entity string, year int, series []ports.MonthlyCount) error {
	raw, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(ownerID, entity, year), raw, statsTTL).Err()
}

// Invalidate drops every cached series of the tenant, across entities and
// years. Uses SCAN so large keyspaces are not blocked.
func (c *StatsCache) Invalidate(ctx context.Context, ownerID string) error {
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("stats:%s:*", ownerID), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("stats cache invalidate: %w", err)
		}
	}
	return iter.Err()
}

func (c *StatsCache) key(ownerID, entity string, year int) string {
	return fmt.Sprintf("stats:%s:%s:%d", ownerID, entity, year)
}
