package models

import "time"

// NetworkStats are the rolling counters shown on the dashboard and served
// by GET /api/network/status. Cached in Redis between refreshes.
type NetworkStats struct {
	TotalConnections      int64     `json:"total_connections"`
	SuspiciousConnections int64     `json:"suspicious_connections"`
	BlockedAttempts       int64     `json:"blocked_attempts"`
	LastUpdated           time.Time `json:"last_updated"`
}

// TrafficSample is the POST /api/network/analyze payload.
type TrafficSample struct {
	SourceIP           string `json:"source_ip"`
	DestinationIP      string `json:"destination_ip"`
	ConnectionCount    int    `json:"connection_count"`
	FailedAuthAttempts int    `json:"failed_auth_attempts"`
	UnusualPorts       []int  `json:"unusual_ports"`
}

// TrafficAnalysis is the analyzer's verdict for one sample.
type TrafficAnalysis struct {
	Timestamp       time.Time `json:"timestamp"`
	RiskScore       int       `json:"risk_score"`
	ThreatsDetected []string  `json:"threats_detected"`
	Recommendations []string  `json:"recommendations"`
}

// CacheStats summarizes Redis usage for /api/cache/stats and /api/health.
type CacheStats struct {
	Keys           int64   `json:"keys"`
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	HitRate        float64 `json:"hit_rate"`
	UsedMemory     string  `json:"used_memory"`
	ConnectedSince string  `json:"uptime,omitempty"`
}
