package models

import (
	"time"

	"github.com/google/uuid"
)

// Metric query periods. A period selects the time window ending now.
const (
	PeriodRealtime = "realtime"
	PeriodHourly   = "hourly"
	PeriodDaily    = "daily"
	PeriodWeekly   = "weekly"
)

// NetworkMetric is a single analytics data point.
type NetworkMetric struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	MetricName  string            `json:"metric_name" db:"metric_name"`
	MetricValue float64           `json:"metric_value" db:"metric_value"`
	MetricUnit  string            `json:"metric_unit,omitempty" db:"metric_unit"`
	Source      string            `json:"source,omitempty" db:"source"`
	Tags        map[string]string `json:"tags" db:"tags"`
	RecordedAt  time.Time         `json:"recorded_at" db:"recorded_at"`
}

// MetricQuery selects metrics by name over a period.
type MetricQuery struct {
	MetricName string
	Period     string
	Limit      int
}

// PeriodWindow converts a period name into its lookback duration.
// Unknown periods fall back to realtime.
func PeriodWindow(period string) time.Duration {
	switch period {
	case PeriodHourly:
		return time.Hour
	case PeriodDaily:
		return 24 * time.Hour
	case PeriodWeekly:
		return 7 * 24 * time.Hour
	default:
		return 15 * time.Minute
	}
}

// AnalyticsSummary is the aggregate view served by GET /api/analytics.
type AnalyticsSummary struct {
	TotalEvents      int64            `json:"total_events"`
	EventsBySeverity map[string]int64 `json:"events_by_severity"`
	TotalAlerts      int              `json:"total_alerts"`
	ActiveAlerts     int              `json:"active_alerts"`
	NetworkStats     NetworkStats     `json:"network_stats"`
	GeneratedAt      time.Time        `json:"generated_at"`
}
