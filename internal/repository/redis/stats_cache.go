package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/client"
	"github.com/benjaminrust/network-intelligence-dev/internal/models"
	"github.com/benjaminrust/network-intelligence-dev/internal/util"
)

const networkStatsKey = "network_stats"

// StatsCache holds the latest network stats snapshot so /api/network/status
// does not hit the monitor's mutex on every poll.
type StatsCache struct {
	client *client.RedisClient
	ttl    time.Duration
}

func NewStatsCache(client *client.RedisClient, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) CacheNetworkStats(ctx context.Context, stats models.NetworkStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal network stats: %w", err)
	}
	if err := c.client.Set(ctx, networkStatsKey, payload, c.ttl); err != nil {
		util.Error("Failed to cache network stats", zap.Error(err))
		return fmt.Errorf("failed to cache network stats: %w", err)
	}
	return nil
}

// GetNetworkStats returns the cached snapshot, or (nil, nil) on a miss.
func (c *StatsCache) GetNetworkStats(ctx context.Context) (*models.NetworkStats, error) {
	raw, err := c.client.Get(ctx, networkStatsKey)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		util.Error("Failed to read network stats cache", zap.Error(err))
		return nil, fmt.Errorf("failed to read network stats cache: %w", err)
	}

	var stats models.NetworkStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal network stats: %w", err)
	}
	return &stats, nil
}
