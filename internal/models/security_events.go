package models

import (
	"time"

	"github.com/google/uuid"
)

// Severity levels accepted for events and alerts.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SecurityEvent is the durable record of something the monitor (or an
// external producer) flagged on the network.
type SecurityEvent struct {
	ID            uuid.UUID              `json:"id" db:"id"`
	EventBucket   int                    `json:"event_bucket" db:"event_bucket"`
	EventType     string                 `json:"event_type" db:"event_type"`
	Severity      string                 `json:"severity" db:"severity"`
	SourceIP      string                 `json:"source_ip,omitempty" db:"source_ip"`
	DestinationIP string                 `json:"destination_ip,omitempty" db:"destination_ip"`
	RiskScore     int                    `json:"risk_score" db:"risk_score"`
	Metadata      map[string]interface{} `json:"metadata" db:"metadata"`
	CreatedAt     time.Time              `json:"created_at" db:"created_at"`
}

// EventFilter narrows event listing. Zero values mean "no filter".
type EventFilter struct {
	Severity  string
	SourceIP  string
	EventType string
	Limit     int
	Offset    int
}

// ValidSeverity reports whether s is one of the accepted severity levels.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// NormalizeSeverity maps an arbitrary input to an accepted severity,
// defaulting to medium the way the dashboard expects.
func NormalizeSeverity(s string) string {
	if ValidSeverity(s) {
		return s
	}
	return SeverityMedium
}
