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

const sessionDataPrefix = "session_data:"

// SessionCache is the serving path for dashboard sessions. Expiry is
// enforced by the key TTL; a missing key means the session is gone.
type SessionCache struct {
	client *client.RedisClient
}

func NewSessionCache(client *client.RedisClient) *SessionCache {
	return &SessionCache{client: client}
}

func (c *SessionCache) CacheSession(ctx context.Context, session *models.UserSession, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := sessionDataPrefix + session.SessionID.String()
	if err := c.client.Set(ctx, key, payload, ttl); err != nil {
		util.Error("Failed to cache session",
			zap.String("session_id", session.SessionID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to cache session: %w", err)
	}

	util.Debug("Session cached",
		zap.String("session_id", session.SessionID.String()),
		zap.Duration("ttl", ttl))
	return nil
}

// GetSession returns the cached session, or (nil, nil) when absent or expired.
func (c *SessionCache) GetSession(ctx context.Context, sessionID string) (*models.UserSession, error) {
	raw, err := c.client.Get(ctx, sessionDataPrefix+sessionID)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session cache: %w", err)
	}

	var session models.UserSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// InvalidateSession drops a session from the cache.
func (c *SessionCache) InvalidateSession(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, sessionDataPrefix+sessionID); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	util.Info("Session invalidated", zap.String("session_id", sessionID))
	return nil
}
