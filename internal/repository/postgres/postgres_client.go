package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/config"
	"github.com/benjaminrust/network-intelligence-dev/internal/util"
)

// schemaSQL is embedded so the service self-bootstraps its tables.
//
//go:embed schema.sql
var schemaSQL string

// PostgresClient owns the shared pgx connection pool.
type PostgresClient struct {
	Pool *pgxpool.Pool
}

// NewPostgresClient connects to DATABASE_URL and fails fast when the
// database is unreachable.
func NewPostgresClient(cfg *config.Config, logger *zap.Logger) (*PostgresClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	logger.Info("Postgres client initialized",
		zap.Int32("max_conns", pool.Config().MaxConns))

	return &PostgresClient{Pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run on every boot.
func (p *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// HealthCheck validates connectivity for the health endpoint.
func (p *PostgresClient) HealthCheck(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

func (p *PostgresClient) Close() {
	if p.Pool != nil {
		p.Pool.Close()
		util.Info("Postgres pool closed")
	}
}
