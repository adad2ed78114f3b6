package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/client"
	"github.com/benjaminrust/network-intelligence-dev/internal/models"
	"github.com/benjaminrust/network-intelligence-dev/internal/repository/postgres"
)

const (
	defaultMetricLimit = 100
	maxMetricLimit     = 1000
)

// MetricCreateRequest is the POST /api/analytics/metrics payload.
type MetricCreateRequest struct {
	MetricName  string            `json:"metric_name"`
	MetricValue float64           `json:"metric_value"`
	MetricUnit  string            `json:"metric_unit"`
	Source      string            `json:"source"`
	Tags        map[string]string `json:"tags"`
}

// AlertSource exposes the monitor's live counters to the summary without a
// package dependency on the monitor.
type AlertSource interface {
	AlertCounts() (total, active int)
	Stats() models.NetworkStats
}

// AnalyticsService records and queries metrics. Postgres is the source of
// truth; when a ClickHouse warehouse is configured, writes are mirrored
// there best-effort for heavy offline analysis.
type AnalyticsService struct {
	metrics   postgres.MetricRepository
	events    postgres.EventRepository
	warehouse *client.ClickHouseClient
	alerts    AlertSource
	logger    *zap.Logger
}

func NewAnalyticsService(
	metrics postgres.MetricRepository,
	events postgres.EventRepository,
	warehouse *client.ClickHouseClient,
	alerts AlertSource,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		metrics:   metrics,
		events:    events,
		warehouse: warehouse,
		alerts:    alerts,
		logger:    logger,
	}
}

// RecordMetric validates and persists one data point.
func (s *AnalyticsService) RecordMetric(ctx context.Context, req *MetricCreateRequest) (*models.NetworkMetric, error) {
	if req == nil || req.MetricName == "" {
		return nil, fmt.Errorf("%w: metric_name is required", ErrInvalidInput)
	}

	metric := &models.NetworkMetric{
		ID:          uuid.New(),
		MetricName:  req.MetricName,
		MetricValue: req.MetricValue,
		MetricUnit:  req.MetricUnit,
		Source:      req.Source,
		Tags:        req.Tags,
		RecordedAt:  time.Now().UTC(),
	}
	if metric.Tags == nil {
		metric.Tags = map[string]string{}
	}

	if err := s.metrics.Record(ctx, metric); err != nil {
		return nil, fmt.Errorf("failed to record metric: %w", err)
	}

	s.mirrorToWarehouse(ctx, metric)
	return metric, nil
}

// Record adapts RecordMetric for the monitor's MetricSink.
func (s *AnalyticsService) Record(ctx context.Context, metric *models.NetworkMetric) error {
	if err := s.metrics.Record(ctx, metric); err != nil {
		return err
	}
	s.mirrorToWarehouse(ctx, metric)
	return nil
}

// QueryMetrics returns metrics for a name and period, newest first.
func (s *AnalyticsService) QueryMetrics(ctx context.Context, q models.MetricQuery) ([]models.NetworkMetric, error) {
	if q.Limit <= 0 {
		q.Limit = defaultMetricLimit
	}
	if q.Limit > maxMetricLimit {
		q.Limit = maxMetricLimit
	}
	if q.Period == "" {
		q.Period = models.PeriodRealtime
	}

	metrics, err := s.metrics.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	return metrics, nil
}

// Summary builds the aggregate view for GET /api/analytics.
func (s *AnalyticsService) Summary(ctx context.Context) (*models.AnalyticsSummary, error) {
	bySeverity, err := s.events.CountBySeverity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build analytics summary: %w", err)
	}

	var total int64
	for _, n := range bySeverity {
		total += n
	}

	summary := &models.AnalyticsSummary{
		TotalEvents:      total,
		EventsBySeverity: bySeverity,
		GeneratedAt:      time.Now().UTC(),
	}
	if s.alerts != nil {
		summary.TotalAlerts, summary.ActiveAlerts = s.alerts.AlertCounts()
		summary.NetworkStats = s.alerts.Stats()
	}
	return summary, nil
}

// mirrorToWarehouse ships the metric to ClickHouse when configured. The
// warehouse is a secondary sink, so failures only log.
func (s *AnalyticsService) mirrorToWarehouse(ctx context.Context, metric *models.NetworkMetric) {
	if s.warehouse == nil {
		return
	}

	tagsJSON, err := json.Marshal(metric.Tags)
	if err != nil {
		s.logger.Warn("failed to marshal metric tags for warehouse", zap.Error(err))
		return
	}

	rows := [][]interface{}{{
		metric.ID.String(),
		metric.MetricName,
		metric.MetricValue,
		metric.MetricUnit,
		metric.Source,
		string(tagsJSON),
		metric.RecordedAt,
	}}
	err = s.warehouse.BatchInsert(ctx,
		"INSERT INTO network_metrics (id, metric_name, metric_value, metric_unit, source, tags, recorded_at)",
		rows)
	if err != nil {
		s.logger.Warn("failed to mirror metric to warehouse",
			zap.String("metric_name", metric.MetricName), zap.Error(err))
	}
}
