package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/models"
)

// MetricRepository is the durable store for network analytics data points.
type MetricRepository interface {
	Record(ctx context.Context, metric *models.NetworkMetric) error
	Query(ctx context.Context, q models.MetricQuery) ([]models.NetworkMetric, error)
}

type PostgresMetricRepository struct {
	client *PostgresClient
	logger *zap.Logger
}

func NewMetricRepository(client *PostgresClient, logger *zap.Logger) *PostgresMetricRepository {
	return &PostgresMetricRepository{client: client, logger: logger}
}

func (r *PostgresMetricRepository) Record(ctx context.Context, metric *models.NetworkMetric) error {
	tags := metric.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to marshal metric tags: %w", err)
	}

	_, err = r.client.Pool.Exec(ctx, `
		INSERT INTO network_metrics
			(id, metric_name, metric_value, metric_unit, source, tags, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		metric.ID, metric.MetricName, metric.MetricValue,
		nullable(metric.MetricUnit), nullable(metric.Source),
		tagsJSON, metric.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert metric: %w", err)
	}
	return nil
}

// Query returns metrics inside the period's window, newest first. An empty
// metric name matches everything.
func (r *PostgresMetricRepository) Query(ctx context.Context, q models.MetricQuery) ([]models.NetworkMetric, error) {
	since := time.Now().UTC().Add(-models.PeriodWindow(q.Period))

	query := `
		SELECT id, metric_name, metric_value,
		       COALESCE(metric_unit, ''), COALESCE(source, ''),
		       tags, recorded_at
		FROM network_metrics
		WHERE recorded_at >= $1`
	args := []interface{}{since}

	if q.MetricName != "" {
		args = append(args, q.MetricName)
		query += fmt.Sprintf(" AND metric_name = $%d", len(args))
	}

	args = append(args, q.Limit)
	query += fmt.Sprintf(" ORDER BY recorded_at DESC LIMIT $%d", len(args))

	rows, err := r.client.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	metrics := []models.NetworkMetric{}
	for rows.Next() {
		var m models.NetworkMetric
		var tagsJSON []byte
		if err := rows.Scan(
			&m.ID, &m.MetricName, &m.MetricValue,
			&m.MetricUnit, &m.Source, &tagsJSON, &m.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		if len(tagsJSON) > 0 {
			if err := json.Unmarshal(tagsJSON, &m.Tags); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metric tags: %w", err)
			}
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
