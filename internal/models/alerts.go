package models

import "time"

// Alert lifecycle statuses. Stale is only set by the background sweeper.
const (
	AlertStatusActive        = "active"
	AlertStatusResolved      = "resolved"
	AlertStatusInvestigating = "investigating"
	AlertStatusStale         = "stale"
)

// Alert is a live notification held in the monitor's registry. Alerts are
// additionally persisted as security events for history.
type Alert struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Severity      string    `json:"severity"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	SourceIP      string    `json:"source_ip"`
	DestinationIP string    `json:"destination_ip"`
	Status        string    `json:"status"`
}

// ValidAlertTransition reports whether a client may set the given status.
// Stale is reserved for the sweeper.
func ValidAlertTransition(status string) bool {
	switch status {
	case AlertStatusActive, AlertStatusResolved, AlertStatusInvestigating:
		return true
	}
	return false
}
