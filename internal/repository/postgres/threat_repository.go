package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/models"
)

// ThreatRepository is the durable store for threat indicators.
type ThreatRepository interface {
	Add(ctx context.Context, indicator *models.ThreatIndicator) error
	ListActive(ctx context.Context) ([]models.ThreatIndicator, error)
}

type PostgresThreatRepository struct {
	client *PostgresClient
	logger *zap.Logger
}

func NewThreatRepository(client *PostgresClient, logger *zap.Logger) *PostgresThreatRepository {
	return &PostgresThreatRepository{client: client, logger: logger}
}

// Add upserts on (indicator_type, value) so re-submitting a known indicator
// refreshes its description and confidence instead of failing.
func (r *PostgresThreatRepository) Add(ctx context.Context, indicator *models.ThreatIndicator) error {
	_, err := r.client.Pool.Exec(ctx, `
		INSERT INTO threat_indicators
			(id, indicator_type, value, description, confidence, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (indicator_type, value) DO UPDATE SET
			description = EXCLUDED.description,
			confidence  = EXCLUDED.confidence,
			active      = TRUE
	`,
		indicator.ID, indicator.IndicatorType, indicator.Value,
		indicator.Description, indicator.Confidence, indicator.Active,
		indicator.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert threat indicator: %w", err)
	}

	r.logger.Debug("Threat indicator persisted",
		zap.String("type", indicator.IndicatorType),
		zap.String("value", indicator.Value),
	)
	return nil
}

func (r *PostgresThreatRepository) ListActive(ctx context.Context) ([]models.ThreatIndicator, error) {
	rows, err := r.client.Pool.Query(ctx, `
		SELECT id, indicator_type, value, description, confidence, active, created_at
		FROM threat_indicators
		WHERE active
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query threat indicators: %w", err)
	}
	defer rows.Close()

	indicators := []models.ThreatIndicator{}
	for rows.Next() {
		var ind models.ThreatIndicator
		if err := rows.Scan(
			&ind.ID, &ind.IndicatorType, &ind.Value,
			&ind.Description, &ind.Confidence, &ind.Active, &ind.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan threat indicator: %w", err)
		}
		indicators = append(indicators, ind)
	}
	return indicators, rows.Err()
}
