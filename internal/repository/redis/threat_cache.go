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

const (
	threatIndicatorsKey = "threat_indicators"
	threatValuesKey     = "threat_values"
	threatCacheTTL      = 30 * time.Minute
)

// ThreatCache keeps the active indicator list in Redis. The set of raw
// indicator values backs the analyzer's known-threat lookup, so the hot
// path is a single SISMEMBER.
type ThreatCache struct {
	client *client.RedisClient
}

func NewThreatCache(client *client.RedisClient) *ThreatCache {
	return &ThreatCache{client: client}
}

// CacheIndicators replaces both the serialized list and the value set in
// one pipeline so the analyzer never sees a half-updated cache.
func (c *ThreatCache) CacheIndicators(ctx context.Context, indicators []models.ThreatIndicator) error {
	payload, err := json.Marshal(indicators)
	if err != nil {
		return fmt.Errorf("failed to marshal threat indicators: %w", err)
	}

	values := make([]interface{}, 0, len(indicators))
	for _, ind := range indicators {
		if ind.Active {
			values = append(values, ind.Value)
		}
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, threatIndicatorsKey, payload, threatCacheTTL)
	pipe.Del(ctx, threatValuesKey)
	if len(values) > 0 {
		pipe.SAdd(ctx, threatValuesKey, values...)
		pipe.Expire(ctx, threatValuesKey, threatCacheTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		util.Error("Failed to cache threat indicators", zap.Error(err), zap.Int("count", len(indicators)))
		return fmt.Errorf("failed to cache threat indicators: %w", err)
	}

	util.Debug("Threat indicators cached", zap.Int("count", len(indicators)))
	return nil
}

// GetIndicators returns the cached list, or (nil, nil) on a miss.
func (c *ThreatCache) GetIndicators(ctx context.Context) ([]models.ThreatIndicator, error) {
	raw, err := c.client.Get(ctx, threatIndicatorsKey)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read threat indicator cache: %w", err)
	}

	var indicators []models.ThreatIndicator
	if err := json.Unmarshal([]byte(raw), &indicators); err != nil {
		return nil, fmt.Errorf("failed to unmarshal threat indicators: %w", err)
	}
	return indicators, nil
}

// IsKnownThreat reports whether value matches an active indicator. Cache
// errors degrade to "unknown" so analysis keeps working without Redis.
func (c *ThreatCache) IsKnownThreat(ctx context.Context, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	known, err := c.client.SIsMember(ctx, threatValuesKey, value)
	if err != nil {
		util.Warn("Threat lookup failed, treating as unknown",
			zap.String("value", value), zap.Error(err))
		return false, err
	}
	return known, nil
}
