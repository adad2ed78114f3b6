package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benjaminrust/network-intelligence-dev/internal/bucketing"
	"github.com/benjaminrust/network-intelligence-dev/internal/models"
)

type fakeThreats struct {
	known map[string]bool
	err   error
}

func (f *fakeThreats) IsKnownThreat(_ context.Context, value string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.known[value], nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []*models.SecurityEvent
	err    error
}

func (f *fakeEvents) Create(_ context.Context, event *models.SecurityEvent) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fakeMetrics struct {
	mu      sync.Mutex
	metrics []*models.NetworkMetric
}

func (f *fakeMetrics) Record(_ context.Context, metric *models.NetworkMetric) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metrics = append(f.metrics, metric)
	return nil
}

type fakeStatsCache struct {
	mu   sync.Mutex
	last *models.NetworkStats
}

func (f *fakeStatsCache) CacheNetworkStats(_ context.Context, stats models.NetworkStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = &stats
	return nil
}

type fakeEmitter struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (f *fakeEmitter) Emit(_ context.Context, alert models.Alert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, alert)
}

func newTestMonitor(threats *fakeThreats) (*NetworkMonitor, *fakeEvents, *fakeMetrics, *fakeEmitter) {
	events := &fakeEvents{}
	metrics := &fakeMetrics{}
	emitter := &fakeEmitter{}
	m := New(Options{
		Threats:  threats,
		Events:   events,
		Metrics:  metrics,
		Emitter:  emitter,
		Bucketer: bucketing.NewManager(16),
	})
	return m, events, metrics, emitter
}

func TestAnalyzeTrafficCleanSample(t *testing.T) {
	m, _, metrics, emitter := newTestMonitor(&fakeThreats{})

	analysis := m.AnalyzeTraffic(context.Background(), models.TrafficSample{
		SourceIP:        "10.0.0.1",
		ConnectionCount: 5,
	})

	if analysis.RiskScore != 0 {
		t.Fatalf("risk score = %d, want 0", analysis.RiskScore)
	}
	if len(analysis.ThreatsDetected) != 0 {
		t.Fatalf("threats detected = %v, want none", analysis.ThreatsDetected)
	}
	if len(emitter.alerts) != 0 {
		t.Fatalf("alerts emitted = %d, want 0", len(emitter.alerts))
	}
	if len(metrics.metrics) != 1 {
		t.Fatalf("metrics recorded = %d, want 1", len(metrics.metrics))
	}
	if got := metrics.metrics[0].MetricName; got != "traffic_analysis_risk_score" {
		t.Fatalf("metric name = %q", got)
	}
}

func TestAnalyzeTrafficScoringRules(t *testing.T) {
	tests := []struct {
		name      string
		sample    models.TrafficSample
		wantScore int
	}{
		{
			name:      "known threat ip",
			sample:    models.TrafficSample{SourceIP: "203.0.113.5"},
			wantScore: 80,
		},
		{
			name:      "high connection volume",
			sample:    models.TrafficSample{SourceIP: "10.0.0.1", ConnectionCount: 1001},
			wantScore: 30,
		},
		{
			name:      "connection volume at threshold does not score",
			sample:    models.TrafficSample{SourceIP: "10.0.0.1", ConnectionCount: 1000},
			wantScore: 0,
		},
		{
			name:      "failed auth attempts",
			sample:    models.TrafficSample{SourceIP: "10.0.0.1", FailedAuthAttempts: 11},
			wantScore: 50,
		},
		{
			name:      "unusual ports",
			sample:    models.TrafficSample{SourceIP: "10.0.0.1", UnusualPorts: []int{31337}},
			wantScore: 20,
		},
		{
			name: "all rules stack",
			sample: models.TrafficSample{
				SourceIP:           "203.0.113.5",
				ConnectionCount:    2000,
				FailedAuthAttempts: 50,
				UnusualPorts:       []int{6667, 31337},
			},
			wantScore: 180,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, _, _, _ := newTestMonitor(&fakeThreats{known: map[string]bool{"203.0.113.5": true}})
			analysis := m.AnalyzeTraffic(context.Background(), tc.sample)
			if analysis.RiskScore != tc.wantScore {
				t.Fatalf("risk score = %d, want %d", analysis.RiskScore, tc.wantScore)
			}
		})
	}
}

func TestAnalyzeTrafficThreatLookupFailureDegrades(t *testing.T) {
	m, _, _, _ := newTestMonitor(&fakeThreats{err: errors.New("redis down")})

	analysis := m.AnalyzeTraffic(context.Background(), models.TrafficSample{SourceIP: "203.0.113.5"})
	if analysis.RiskScore != 0 {
		t.Fatalf("risk score = %d, want 0 when lookup fails", analysis.RiskScore)
	}
}

func TestAnalyzeTrafficRaisesAlertAboveThreshold(t *testing.T) {
	m, events, _, emitter := newTestMonitor(&fakeThreats{known: map[string]bool{"203.0.113.5": true}})

	// Score 80: above the alert threshold but not above the high severity
	// threshold, so the alert stays medium.
	m.AnalyzeTraffic(context.Background(), models.TrafficSample{SourceIP: "203.0.113.5"})

	alerts := m.Alerts("")
	if len(alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(alerts))
	}
	if alerts[0].Severity != models.SeverityMedium {
		t.Fatalf("severity = %q, want %q", alerts[0].Severity, models.SeverityMedium)
	}
	if alerts[0].Status != models.AlertStatusActive {
		t.Fatalf("status = %q, want %q", alerts[0].Status, models.AlertStatusActive)
	}
	if len(emitter.alerts) != 1 {
		t.Fatalf("emitted = %d, want 1", len(emitter.alerts))
	}
	if len(events.events) != 1 {
		t.Fatalf("persisted events = %d, want 1", len(events.events))
	}

	// Score 130: high severity, risk score 80 on the persisted event.
	m.AnalyzeTraffic(context.Background(), models.TrafficSample{
		SourceIP:           "203.0.113.5",
		FailedAuthAttempts: 20,
	})
	alerts = m.Alerts("")
	if len(alerts) != 2 {
		t.Fatalf("alerts = %d, want 2", len(alerts))
	}
	if alerts[1].Severity != models.SeverityHigh {
		t.Fatalf("severity = %q, want %q", alerts[1].Severity, models.SeverityHigh)
	}
	if events.events[1].RiskScore != 80 {
		t.Fatalf("event risk score = %d, want 80", events.events[1].RiskScore)
	}
}

func TestAnalyzeTrafficUpdatesStats(t *testing.T) {
	m, _, _, _ := newTestMonitor(&fakeThreats{known: map[string]bool{"203.0.113.5": true}})

	m.AnalyzeTraffic(context.Background(), models.TrafficSample{
		SourceIP:        "203.0.113.5",
		ConnectionCount: 40,
	})
	m.AnalyzeTraffic(context.Background(), models.TrafficSample{
		SourceIP:        "10.0.0.1",
		ConnectionCount: 2,
	})

	stats := m.Stats()
	if stats.TotalConnections != 42 {
		t.Fatalf("total connections = %d, want 42", stats.TotalConnections)
	}
	if stats.SuspiciousConnections != 1 {
		t.Fatalf("suspicious connections = %d, want 1", stats.SuspiciousConnections)
	}
	if stats.BlockedAttempts != 1 {
		t.Fatalf("blocked attempts = %d, want 1", stats.BlockedAttempts)
	}
}

func TestGenerateAlertDefaults(t *testing.T) {
	m, events, _, _ := newTestMonitor(&fakeThreats{})

	alert := m.GenerateAlert(context.Background(), AlertInput{
		Description: "manual review",
		SourceIP:    "192.0.2.10",
	})

	if alert.ID != 1 {
		t.Fatalf("alert id = %d, want 1", alert.ID)
	}
	if alert.Type != "unknown" {
		t.Fatalf("type = %q, want unknown", alert.Type)
	}
	if alert.Severity != models.SeverityMedium {
		t.Fatalf("severity = %q, want %q", alert.Severity, models.SeverityMedium)
	}

	if len(events.events) != 1 {
		t.Fatalf("persisted events = %d, want 1", len(events.events))
	}
	event := events.events[0]
	if event.RiskScore != 50 {
		t.Fatalf("event risk score = %d, want 50", event.RiskScore)
	}
	if event.Metadata["alert_id"] != alert.ID {
		t.Fatalf("event alert_id = %v, want %d", event.Metadata["alert_id"], alert.ID)
	}
}

func TestGenerateAlertSurvivesPersistenceFailure(t *testing.T) {
	m, events, _, emitter := newTestMonitor(&fakeThreats{})
	events.err = errors.New("database down")

	alert := m.GenerateAlert(context.Background(), AlertInput{
		Severity: models.SeverityCritical,
		Type:     "intrusion",
	})

	if alert == nil {
		t.Fatal("alert = nil, want registered alert")
	}
	if total, active := m.AlertCounts(); total != 1 || active != 1 {
		t.Fatalf("counts = (%d, %d), want (1, 1)", total, active)
	}
	if len(emitter.alerts) != 1 {
		t.Fatalf("emitted = %d, want 1", len(emitter.alerts))
	}
}

func TestAlertsFilterByStatus(t *testing.T) {
	m, _, _, _ := newTestMonitor(&fakeThreats{})

	a1 := m.GenerateAlert(context.Background(), AlertInput{Type: "scan"})
	m.GenerateAlert(context.Background(), AlertInput{Type: "scan"})

	if _, err := m.UpdateAlertStatus(a1.ID, models.AlertStatusResolved); err != nil {
		t.Fatalf("update alert: %v", err)
	}

	if got := len(m.Alerts(models.AlertStatusActive)); got != 1 {
		t.Fatalf("active alerts = %d, want 1", got)
	}
	if got := len(m.Alerts(models.AlertStatusResolved)); got != 1 {
		t.Fatalf("resolved alerts = %d, want 1", got)
	}
	if got := len(m.Alerts("all")); got != 2 {
		t.Fatalf("all alerts = %d, want 2", got)
	}
	if got := len(m.Alerts("")); got != 2 {
		t.Fatalf("unfiltered alerts = %d, want 2", got)
	}
}

func TestUpdateAlertStatusErrors(t *testing.T) {
	m, _, _, _ := newTestMonitor(&fakeThreats{})
	alert := m.GenerateAlert(context.Background(), AlertInput{Type: "scan"})

	if _, err := m.UpdateAlertStatus(alert.ID, "stale"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus for sweeper-only status", err)
	}
	if _, err := m.UpdateAlertStatus(alert.ID, "escalated"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := m.UpdateAlertStatus(999, models.AlertStatusResolved); !errors.Is(err, ErrAlertNotFound) {
		t.Fatalf("err = %v, want ErrAlertNotFound", err)
	}

	updated, err := m.UpdateAlertStatus(alert.ID, models.AlertStatusInvestigating)
	if err != nil {
		t.Fatalf("update alert: %v", err)
	}
	if updated.Status != models.AlertStatusInvestigating {
		t.Fatalf("status = %q, want investigating", updated.Status)
	}
}

func TestExpireStaleAlerts(t *testing.T) {
	m, _, _, _ := newTestMonitor(&fakeThreats{})
	m.staleAfter = 24 * time.Hour

	old := m.GenerateAlert(context.Background(), AlertInput{Type: "scan"})
	fresh := m.GenerateAlert(context.Background(), AlertInput{Type: "scan"})
	resolved := m.GenerateAlert(context.Background(), AlertInput{Type: "scan"})
	if _, err := m.UpdateAlertStatus(resolved.ID, models.AlertStatusResolved); err != nil {
		t.Fatalf("update alert: %v", err)
	}

	m.mu.Lock()
	m.alerts[0].Timestamp = time.Now().UTC().Add(-25 * time.Hour)
	m.alerts[2].Timestamp = time.Now().UTC().Add(-25 * time.Hour)
	m.mu.Unlock()

	changed := m.expireStaleAlerts(time.Now().UTC())
	if changed != 1 {
		t.Fatalf("expired = %d, want 1", changed)
	}

	byID := map[int64]string{}
	for _, a := range m.Alerts("all") {
		byID[a.ID] = a.Status
	}
	if byID[old.ID] != models.AlertStatusStale {
		t.Fatalf("old alert status = %q, want stale", byID[old.ID])
	}
	if byID[fresh.ID] != models.AlertStatusActive {
		t.Fatalf("fresh alert status = %q, want active", byID[fresh.ID])
	}
	// Resolved alerts stay resolved even past the cutoff.
	if byID[resolved.ID] != models.AlertStatusResolved {
		t.Fatalf("resolved alert status = %q, want resolved", byID[resolved.ID])
	}
}

func TestSweepCachesSnapshot(t *testing.T) {
	cache := &fakeStatsCache{}
	m := New(Options{StatsCache: cache})

	m.observeSample(models.TrafficSample{ConnectionCount: 7}, 0, false)
	now := time.Now().UTC()
	m.sweep(context.Background(), now)

	if cache.last == nil {
		t.Fatal("snapshot not cached")
	}
	if cache.last.TotalConnections != 7 {
		t.Fatalf("cached total connections = %d, want 7", cache.last.TotalConnections)
	}
	if !cache.last.LastUpdated.Equal(now) {
		t.Fatalf("cached last updated = %v, want %v", cache.last.LastUpdated, now)
	}
}
