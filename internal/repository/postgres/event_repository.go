package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/models"
)

// EventRepository is the durable store for security events.
type EventRepository interface {
	Create(ctx context.Context, event *models.SecurityEvent) error
	List(ctx context.Context, filter models.EventFilter) ([]models.SecurityEvent, error)
	CountBySeverity(ctx context.Context) (map[string]int64, error)
}

type PostgresEventRepository struct {
	client *PostgresClient
	logger *zap.Logger
}

func NewEventRepository(client *PostgresClient, logger *zap.Logger) *PostgresEventRepository {
	return &PostgresEventRepository{client: client, logger: logger}
}

func (r *PostgresEventRepository) Create(ctx context.Context, event *models.SecurityEvent) error {
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal event metadata: %w", err)
	}

	_, err = r.client.Pool.Exec(ctx, `
		INSERT INTO security_events
			(id, event_bucket, event_type, severity, source_ip, destination_ip, risk_score, metadata, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		event.ID, event.EventBucket, event.EventType, event.Severity,
		nullable(event.SourceIP), nullable(event.DestinationIP),
		event.RiskScore, metaJSON, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert security event: %w", err)
	}

	r.logger.Debug("Security event persisted",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.EventType),
		zap.String("severity", event.Severity),
	)
	return nil
}

// List returns events newest first, applying the filter's optional fields.
// The query is built with positional args only; no string interpolation of
// user input.
func (r *PostgresEventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.SecurityEvent, error) {
	query := `
		SELECT id, event_bucket, event_type, severity,
		       COALESCE(source_ip, ''), COALESCE(destination_ip, ''),
		       risk_score, metadata, created_at
		FROM security_events
		WHERE 1=1`
	args := []interface{}{}

	if filter.Severity != "" {
		args = append(args, filter.Severity)
		query += fmt.Sprintf(" AND severity = $%d", len(args))
	}
	if filter.SourceIP != "" {
		args = append(args, filter.SourceIP)
		query += fmt.Sprintf(" AND source_ip = $%d", len(args))
	}
	if filter.EventType != "" {
		args = append(args, filter.EventType)
		query += fmt.Sprintf(" AND event_type = $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.client.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query security events: %w", err)
	}
	defer rows.Close()

	events := []models.SecurityEvent{}
	for rows.Next() {
		var ev models.SecurityEvent
		var metaJSON []byte
		if err := rows.Scan(
			&ev.ID, &ev.EventBucket, &ev.EventType, &ev.Severity,
			&ev.SourceIP, &ev.DestinationIP, &ev.RiskScore, &metaJSON, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan security event: %w", err)
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &ev.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event metadata: %w", err)
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// CountBySeverity feeds the analytics summary.
func (r *PostgresEventRepository) CountBySeverity(ctx context.Context) (map[string]int64, error) {
	rows, err := r.client.Pool.Query(ctx, `
		SELECT severity, COUNT(*)
		FROM security_events
		GROUP BY severity
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by severity: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var severity string
		var count int64
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, fmt.Errorf("failed to scan severity count: %w", err)
		}
		counts[severity] = count
	}
	return counts, rows.Err()
}

// nullable maps empty strings to SQL NULL so optional columns stay NULL
// instead of storing empty text.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
