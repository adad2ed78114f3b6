package models

import (
	"time"

	"github.com/google/uuid"
)

// Confidence levels for threat indicators.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// ThreatIndicator is an IOC (IP, domain, hash, ...) used by the traffic
// analyzer to flag known-bad sources.
type ThreatIndicator struct {
	ID            uuid.UUID `json:"id" db:"id"`
	IndicatorType string    `json:"type" db:"indicator_type"`
	Value         string    `json:"value" db:"value"`
	Description   string    `json:"description" db:"description"`
	Confidence    string    `json:"confidence" db:"confidence"`
	Active        bool      `json:"active" db:"active"`
	CreatedAt     time.Time `json:"timestamp" db:"created_at"`
}

// NormalizeConfidence maps arbitrary input to an accepted confidence level.
func NormalizeConfidence(c string) string {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return c
	}
	return ConfidenceMedium
}
