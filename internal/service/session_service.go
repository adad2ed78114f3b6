package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/models"
	"github.com/benjaminrust/network-intelligence-dev/internal/repository/postgres"
)

const defaultSessionTTL = 24 * time.Hour

// SessionCreateRequest is the POST /api/sessions payload.
type SessionCreateRequest struct {
	UserID    string                 `json:"user_id"`
	IPAddress string                 `json:"ip_address"`
	UserAgent string                 `json:"user_agent"`
	Data      map[string]interface{} `json:"data"`
}

// SessionCacheStore is the Redis serving path for sessions.
type SessionCacheStore interface {
	CacheSession(ctx context.Context, session *models.UserSession, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*models.UserSession, error)
}

// SessionService creates and serves dashboard sessions. Tokens are
// HMAC-SHA256 over the session ID keyed with SECRET_KEY, so a token can be
// checked without a lookup.
type SessionService struct {
	repo   postgres.SessionRepository
	cache  SessionCacheStore
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

func NewSessionService(repo postgres.SessionRepository, cache SessionCacheStore, secretKey string, logger *zap.Logger) *SessionService {
	return &SessionService{
		repo:   repo,
		cache:  cache,
		secret: []byte(secretKey),
		ttl:    defaultSessionTTL,
		logger: logger,
	}
}

// CreateSession persists a new session and caches it for reads.
func (s *SessionService) CreateSession(ctx context.Context, req *SessionCreateRequest) (*models.UserSession, error) {
	if req == nil || req.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	sessionID := uuid.New()
	session := &models.UserSession{
		SessionID: sessionID,
		UserID:    req.UserID,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		Token:     s.SignToken(sessionID.String()),
		Data:      req.Data,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if session.Data == nil {
		session.Data = map[string]interface{}{}
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheSession(ctx, session, s.ttl); err != nil {
			// The durable copy exists; reads will 404 until the cache
			// recovers, which matches the cache-only read contract.
			s.logger.Warn("failed to cache session",
				zap.String("session_id", sessionID.String()), zap.Error(err))
		}
	}

	s.logger.Info("Session created",
		zap.String("session_id", sessionID.String()),
		zap.String("user_id", req.UserID))
	return session, nil
}

// GetSession reads from the cache only. Absent or expired sessions return
// ErrNotFound.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*models.UserSession, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("%w: invalid session id", ErrInvalidInput)
	}
	if s.cache == nil {
		return nil, ErrUnavailable
	}

	session, err := s.cache.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	return session, nil
}

// SignToken derives the session token for an ID.
func (s *SessionService) SignToken(sessionID string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(sessionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyToken reports whether token matches the session ID in constant time.
func (s *SessionService) VerifyToken(sessionID, token string) bool {
	expected := s.SignToken(sessionID)
	return hmac.Equal([]byte(expected), []byte(token))
}
