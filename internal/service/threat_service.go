package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/models"
	"github.com/benjaminrust/network-intelligence-dev/internal/repository/postgres"
	"github.com/benjaminrust/network-intelligence-dev/internal/util"
)

// IndicatorCreateRequest is the POST /api/threats/indicators payload.
type IndicatorCreateRequest struct {
	Type        string `json:"type"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Confidence  string `json:"confidence"`
}

// IndicatorCache is the Redis-backed serving path for indicators.
type IndicatorCache interface {
	CacheIndicators(ctx context.Context, indicators []models.ThreatIndicator) error
	GetIndicators(ctx context.Context) ([]models.ThreatIndicator, error)
}

// ThreatService manages threat indicators: Postgres for durability, Redis
// for the analyzer's hot lookups and list reads.
type ThreatService struct {
	repo   postgres.ThreatRepository
	cache  IndicatorCache
	logger *zap.Logger
}

func NewThreatService(repo postgres.ThreatRepository, cache IndicatorCache, logger *zap.Logger) *ThreatService {
	return &ThreatService{repo: repo, cache: cache, logger: logger}
}

// AddIndicator validates and persists an indicator, then refreshes the
// cache so the analyzer picks it up immediately.
func (s *ThreatService) AddIndicator(ctx context.Context, req *IndicatorCreateRequest) (*models.ThreatIndicator, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: missing request body", ErrInvalidInput)
	}
	for field, value := range map[string]string{
		"type":        req.Type,
		"value":       req.Value,
		"description": req.Description,
	} {
		if value == "" {
			return nil, fmt.Errorf("%w: missing required field: %s", ErrInvalidInput, field)
		}
	}

	indicator := &models.ThreatIndicator{
		ID:            uuid.New(),
		IndicatorType: util.SanitizeInput(req.Type),
		Value:         req.Value,
		Description:   util.SanitizeInput(req.Description),
		Confidence:    models.NormalizeConfidence(req.Confidence),
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Add(ctx, indicator); err != nil {
		return nil, fmt.Errorf("failed to add indicator: %w", err)
	}

	s.refreshCache(ctx)

	s.logger.Info("Threat indicator added",
		zap.String("type", indicator.IndicatorType),
		zap.String("value", indicator.Value),
		zap.String("confidence", indicator.Confidence),
	)
	return indicator, nil
}

// ListIndicators serves from the cache when warm, falling back to Postgres
// and repopulating on a miss.
func (s *ThreatService) ListIndicators(ctx context.Context) ([]models.ThreatIndicator, error) {
	if s.cache != nil {
		cached, err := s.cache.GetIndicators(ctx)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			s.logger.Warn("indicator cache read failed, falling back to database", zap.Error(err))
		}
	}

	indicators, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indicators: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheIndicators(ctx, indicators); err != nil {
			s.logger.Warn("failed to repopulate indicator cache", zap.Error(err))
		}
	}
	return indicators, nil
}

func (s *ThreatService) refreshCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	indicators, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Warn("failed to reload indicators for cache refresh", zap.Error(err))
		return
	}
	if err := s.cache.CacheIndicators(ctx, indicators); err != nil {
		s.logger.Warn("failed to refresh indicator cache", zap.Error(err))
	}
}
