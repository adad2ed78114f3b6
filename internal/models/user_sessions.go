package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSession is a dashboard session. The authoritative copy lives in
// Postgres; reads are served from the Redis cache only, so an expired
// cache entry means the session is gone.
type UserSession struct {
	SessionID uuid.UUID              `json:"session_id" db:"session_id"`
	UserID    string                 `json:"user_id" db:"user_id"`
	IPAddress string                 `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent string                 `json:"user_agent,omitempty" db:"user_agent"`
	Token     string                 `json:"token" db:"token"`
	Data      map[string]interface{} `json:"data,omitempty" db:"data"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
	ExpiresAt time.Time              `json:"expires_at" db:"expires_at"`
}
