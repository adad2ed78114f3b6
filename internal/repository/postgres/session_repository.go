package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/models"
)

// SessionRepository persists dashboard sessions. Reads go through the Redis
// cache; the table exists for audit and recovery.
type SessionRepository interface {
	Create(ctx context.Context, session *models.UserSession) error
}

type PostgresSessionRepository struct {
	client *PostgresClient
	logger *zap.Logger
}

func NewSessionRepository(client *PostgresClient, logger *zap.Logger) *PostgresSessionRepository {
	return &PostgresSessionRepository{client: client, logger: logger}
}

func (r *PostgresSessionRepository) Create(ctx context.Context, session *models.UserSession) error {
	data := session.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	_, err = r.client.Pool.Exec(ctx, `
		INSERT INTO user_sessions
			(session_id, user_id, ip_address, user_agent, token, data, created_at, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		session.SessionID, session.UserID,
		nullable(session.IPAddress), nullable(session.UserAgent),
		session.Token, dataJSON, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	r.logger.Debug("Session persisted",
		zap.String("session_id", session.SessionID.String()),
		zap.String("user_id", session.UserID),
	)
	return nil
}
