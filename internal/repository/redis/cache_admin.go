package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/client"
	"github.com/benjaminrust/network-intelligence-dev/internal/models"
	"github.com/benjaminrust/network-intelligence-dev/internal/util"
)

// CacheAdmin serves the cache introspection endpoints: stats from INFO and
// pattern-based clearing via SCAN.
type CacheAdmin struct {
	client *client.RedisClient
}

func NewCacheAdmin(client *client.RedisClient) *CacheAdmin {
	return &CacheAdmin{client: client}
}

// Stats collects key count, hit/miss counters and memory usage.
func (a *CacheAdmin) Stats(ctx context.Context) (models.CacheStats, error) {
	var stats models.CacheStats

	keys, err := a.client.DBSize(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to read cache key count: %w", err)
	}
	stats.Keys = keys

	info, err := a.client.Info(ctx, "stats", "memory")
	if err != nil {
		return stats, fmt.Errorf("failed to read cache info: %w", err)
	}

	fields := parseInfo(info)
	stats.Hits = parseInt(fields["keyspace_hits"])
	stats.Misses = parseInt(fields["keyspace_misses"])
	stats.UsedMemory = fields["used_memory_human"]
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}

	return stats, nil
}

// Clear deletes keys matching pattern and returns how many were removed.
func (a *CacheAdmin) Clear(ctx context.Context, pattern string) (int64, error) {
	if pattern == "" {
		pattern = "*"
	}

	keys, err := a.client.ScanKeys(ctx, pattern)
	if err != nil {
		return 0, fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	if err := a.client.Del(ctx, keys...); err != nil {
		return 0, fmt.Errorf("failed to delete cache keys: %w", err)
	}

	util.Info("Cache cleared",
		zap.String("pattern", pattern),
		zap.Int("keys_removed", len(keys)))
	return int64(len(keys)), nil
}

// parseInfo flattens the INFO wire format ("key:value" lines) into a map.
func parseInfo(info string) map[string]string {
	fields := map[string]string{}
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) == 2 {
			fields[parts[0]] = parts[1]
		}
	}
	return fields
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
