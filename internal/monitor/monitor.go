package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/bucketing"
	"github.com/benjaminrust/network-intelligence-dev/internal/models"
	"github.com/benjaminrust/network-intelligence-dev/internal/stream"
)

var (
	ErrAlertNotFound = errors.New("alert not found")
	ErrInvalidStatus = errors.New("invalid alert status")
)

// Risk weights for the traffic analyzer. An aggregate score above
// alertThreshold raises an alert; above highSeverityThreshold the alert is
// high severity.
const (
	knownThreatWeight   = 80
	connectionWeight    = 30
	failedAuthWeight    = 50
	unusualPortsWeight  = 20
	connectionThreshold = 1000
	failedAuthThreshold = 10

	alertThreshold        = 50
	highSeverityThreshold = 80
)

// ThreatChecker answers whether an IP matches an active threat indicator.
type ThreatChecker interface {
	IsKnownThreat(ctx context.Context, value string) (bool, error)
}

// EventSink persists alerts as durable security events.
type EventSink interface {
	Create(ctx context.Context, event *models.SecurityEvent) error
}

// MetricSink records analyzer metrics.
type MetricSink interface {
	Record(ctx context.Context, metric *models.NetworkMetric) error
}

// StatsCache stores the current stats snapshot for the status endpoint.
type StatsCache interface {
	CacheNetworkStats(ctx context.Context, stats models.NetworkStats) error
}

// NetworkMonitor owns the live alert registry, the rolling network
// counters and the traffic analyzer. All exported methods are safe for
// concurrent use.
type NetworkMonitor struct {
	mu      sync.RWMutex
	alerts  []*models.Alert
	nextID  int64
	stats   models.NetworkStats
	started time.Time

	threats  ThreatChecker
	events   EventSink
	metrics  MetricSink
	cache    StatsCache
	emitter  stream.Emitter
	bucketer *bucketing.Manager
	logger   *zap.Logger

	sweepInterval time.Duration
	staleAfter    time.Duration
}

type Options struct {
	Threats       ThreatChecker
	Events        EventSink
	Metrics       MetricSink
	StatsCache    StatsCache
	Emitter       stream.Emitter
	Bucketer      *bucketing.Manager
	Logger        *zap.Logger
	SweepInterval time.Duration
	StaleAfter    time.Duration
}

func New(opts Options) *NetworkMonitor {
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	now := time.Now().UTC()
	return &NetworkMonitor{
		threats:       opts.Threats,
		events:        opts.Events,
		metrics:       opts.Metrics,
		cache:         opts.StatsCache,
		emitter:       opts.Emitter,
		bucketer:      opts.Bucketer,
		logger:        opts.Logger,
		sweepInterval: opts.SweepInterval,
		staleAfter:    opts.StaleAfter,
		started:       now,
		stats:         models.NetworkStats{LastUpdated: now},
	}
}

// AnalyzeTraffic scores one traffic sample, records the score as a metric,
// updates the rolling counters, and raises an alert when the score crosses
// the threshold.
func (m *NetworkMonitor) AnalyzeTraffic(ctx context.Context, sample models.TrafficSample) models.TrafficAnalysis {
	analysis := models.TrafficAnalysis{
		Timestamp:       time.Now().UTC(),
		ThreatsDetected: []string{},
		Recommendations: []string{},
	}

	knownThreat := false
	if m.threats != nil && sample.SourceIP != "" {
		// Lookup failures degrade to "unknown" so analysis keeps working
		// when Redis is down.
		if known, err := m.threats.IsKnownThreat(ctx, sample.SourceIP); err == nil && known {
			knownThreat = true
			analysis.RiskScore += knownThreatWeight
			analysis.ThreatsDetected = append(analysis.ThreatsDetected,
				fmt.Sprintf("known threat ip: %s", sample.SourceIP))
			analysis.Recommendations = append(analysis.Recommendations,
				"block ip immediately")
		}
	}

	if sample.ConnectionCount > connectionThreshold {
		analysis.RiskScore += connectionWeight
		analysis.ThreatsDetected = append(analysis.ThreatsDetected,
			"high connection volume")
		analysis.Recommendations = append(analysis.Recommendations,
			"investigate source ip for ddos activity")
	}

	if sample.FailedAuthAttempts > failedAuthThreshold {
		analysis.RiskScore += failedAuthWeight
		analysis.ThreatsDetected = append(analysis.ThreatsDetected,
			"multiple failed authentication attempts")
		analysis.Recommendations = append(analysis.Recommendations,
			"implement rate limiting and block suspicious ips")
	}

	if len(sample.UnusualPorts) > 0 {
		analysis.RiskScore += unusualPortsWeight
		analysis.ThreatsDetected = append(analysis.ThreatsDetected,
			"unusual port activity detected")
		analysis.Recommendations = append(analysis.Recommendations,
			"review firewall rules and port access")
	}

	m.observeSample(sample, analysis.RiskScore, knownThreat)
	m.recordRiskMetric(ctx, sample, analysis.RiskScore)

	if analysis.RiskScore > alertThreshold {
		severity := models.SeverityMedium
		if analysis.RiskScore > highSeverityThreshold {
			severity = models.SeverityHigh
		}
		m.GenerateAlert(ctx, AlertInput{
			Severity:      severity,
			Type:          "traffic_analysis",
			Description:   fmt.Sprintf("high risk traffic detected (score: %d)", analysis.RiskScore),
			SourceIP:      sample.SourceIP,
			DestinationIP: sample.DestinationIP,
		})
	}

	return analysis
}

// AlertInput describes a new alert. Severity is normalized; empty types
// become "unknown".
type AlertInput struct {
	Severity      string
	Type          string
	Description   string
	SourceIP      string
	DestinationIP string
}

// GenerateAlert registers an alert, persists it as a security event and
// fans it out to the alert stream. Persistence failures are logged but do
// not drop the in-memory alert.
func (m *NetworkMonitor) GenerateAlert(ctx context.Context, input AlertInput) *models.Alert {
	if input.Type == "" {
		input.Type = "unknown"
	}
	input.Severity = models.NormalizeSeverity(input.Severity)

	m.mu.Lock()
	m.nextID++
	alert := &models.Alert{
		ID:            m.nextID,
		Timestamp:     time.Now().UTC(),
		Severity:      input.Severity,
		Type:          input.Type,
		Description:   input.Description,
		SourceIP:      input.SourceIP,
		DestinationIP: input.DestinationIP,
		Status:        models.AlertStatusActive,
	}
	m.alerts = append(m.alerts, alert)
	m.mu.Unlock()

	if m.events != nil {
		riskScore := alertThreshold
		if alert.Severity == models.SeverityHigh || alert.Severity == models.SeverityCritical {
			riskScore = highSeverityThreshold
		}
		event := &models.SecurityEvent{
			ID:            uuid.New(),
			EventType:     alert.Type,
			Severity:      alert.Severity,
			SourceIP:      alert.SourceIP,
			DestinationIP: alert.DestinationIP,
			RiskScore:     riskScore,
			Metadata: map[string]interface{}{
				"alert_id":    alert.ID,
				"description": alert.Description,
			},
			CreatedAt: alert.Timestamp,
		}
		if m.bucketer != nil {
			event.EventBucket = m.bucketer.EventBucket(alert.SourceIP)
		}
		if err := m.events.Create(ctx, event); err != nil {
			m.logger.Error("failed to persist alert event",
				zap.Int64("alert_id", alert.ID), zap.Error(err))
		}
	}

	if m.emitter != nil {
		m.emitter.Emit(ctx, *alert)
	}

	return alert
}

// Alerts returns a snapshot of the registry, optionally filtered by status.
func (m *NetworkMonitor) Alerts(status string) []models.Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Alert, 0, len(m.alerts))
	for _, a := range m.alerts {
		if status != "" && status != "all" && a.Status != status {
			continue
		}
		out = append(out, *a)
	}
	return out
}

// AlertCounts returns total and active alert counts for summaries.
func (m *NetworkMonitor) AlertCounts() (total, active int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total = len(m.alerts)
	for _, a := range m.alerts {
		if a.Status == models.AlertStatusActive {
			active++
		}
	}
	return total, active
}

// UpdateAlertStatus applies a client-requested status transition.
func (m *NetworkMonitor) UpdateAlertStatus(id int64, status string) (*models.Alert, error) {
	if !models.ValidAlertTransition(status) {
		return nil, ErrInvalidStatus
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.alerts {
		if a.ID == id {
			a.Status = status
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrAlertNotFound
}

// Stats returns a snapshot of the rolling counters.
func (m *NetworkMonitor) Stats() models.NetworkStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// Run drives the background sweep until ctx is cancelled: refresh the
// stats timestamp, re-cache the snapshot, and expire stale alerts.
func (m *NetworkMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	m.logger.Info("network monitor started",
		zap.Duration("sweep_interval", m.sweepInterval),
		zap.Duration("stale_after", m.staleAfter))

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("network monitor stopped")
			return
		case now := <-ticker.C:
			m.sweep(ctx, now.UTC())
		}
	}
}

func (m *NetworkMonitor) sweep(ctx context.Context, now time.Time) {
	stale := m.expireStaleAlerts(now)
	if stale > 0 {
		m.logger.Info("stale alerts expired", zap.Int("count", stale))
	}

	m.mu.Lock()
	m.stats.LastUpdated = now
	snapshot := m.stats
	m.mu.Unlock()

	if m.cache != nil {
		if err := m.cache.CacheNetworkStats(ctx, snapshot); err != nil {
			m.logger.Warn("failed to cache network stats", zap.Error(err))
		}
	}
}

// expireStaleAlerts marks active alerts older than staleAfter as stale and
// returns how many were changed.
func (m *NetworkMonitor) expireStaleAlerts(now time.Time) int {
	cutoff := now.Add(-m.staleAfter)

	m.mu.Lock()
	defer m.mu.Unlock()

	changed := 0
	for _, a := range m.alerts {
		if a.Status == models.AlertStatusActive && a.Timestamp.Before(cutoff) {
			a.Status = models.AlertStatusStale
			changed++
		}
	}
	return changed
}

func (m *NetworkMonitor) observeSample(sample models.TrafficSample, riskScore int, knownThreat bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalConnections += int64(sample.ConnectionCount)
	if riskScore > alertThreshold {
		m.stats.SuspiciousConnections++
	}
	if knownThreat {
		m.stats.BlockedAttempts++
	}
	m.stats.LastUpdated = time.Now().UTC()
}

func (m *NetworkMonitor) recordRiskMetric(ctx context.Context, sample models.TrafficSample, riskScore int) {
	if m.metrics == nil {
		return
	}

	sourceIP := sample.SourceIP
	if sourceIP == "" {
		sourceIP = "unknown"
	}
	metric := &models.NetworkMetric{
		ID:          uuid.New(),
		MetricName:  "traffic_analysis_risk_score",
		MetricValue: float64(riskScore),
		MetricUnit:  "score",
		Source:      "network_monitor",
		Tags:        map[string]string{"source_ip": sourceIP},
		RecordedAt:  time.Now().UTC(),
	}
	if err := m.metrics.Record(ctx, metric); err != nil {
		m.logger.Warn("failed to record risk metric", zap.Error(err))
	}
}
