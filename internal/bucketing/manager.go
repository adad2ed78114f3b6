package bucketing

import (
	"hash"
	"sync"
	"time"

	"github.com/spaolacci/murmur3"
)

// Manager assigns stable buckets to events so hot partitions (one noisy
// source IP) spread across the event table and cache shards.
type Manager struct {
	eventBuckets int
	hasherPool   sync.Pool
}

func NewManager(eventBuckets int) *Manager {
	if eventBuckets <= 0 {
		eventBuckets = 64
	}
	m := &Manager{eventBuckets: eventBuckets}
	m.hasherPool = sync.Pool{
		New: func() interface{} {
			return murmur3.New64()
		},
	}
	return m
}

// EventBucket returns a stable bucket in [0, eventBuckets) for the key,
// typically a source IP. Empty keys land in bucket 0.
func (m *Manager) EventBucket(key string) int {
	if key == "" {
		return 0
	}
	return int(m.hash(key) % uint64(m.eventBuckets))
}

// ShardKey maps a key onto one of totalShards cache shards.
func (m *Manager) ShardKey(key string, totalShards int) int {
	if totalShards <= 0 {
		return 0
	}
	return m.EventBucket(key) % totalShards
}

// DateBucket returns the UTC date partition for an event.
func (m *Manager) DateBucket(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// TimeBucket truncates now to windowSeconds-sized buckets, used for
// rate-style metric keys.
func (m *Manager) TimeBucket(now time.Time, windowSeconds int) int64 {
	if windowSeconds <= 0 {
		windowSeconds = 60
	}
	return now.Unix() / int64(windowSeconds) * int64(windowSeconds)
}

// EventBuckets returns the configured bucket count.
func (m *Manager) EventBuckets() int {
	return m.eventBuckets
}

func (m *Manager) hash(key string) uint64 {
	hasher := m.hasherPool.Get().(hash.Hash64)
	defer m.hasherPool.Put(hasher)

	hasher.Reset()
	hasher.Write([]byte(key))
	return hasher.Sum64()
}
