package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/bucketing"
	"github.com/benjaminrust/network-intelligence-dev/internal/models"
	"github.com/benjaminrust/network-intelligence-dev/internal/repository/postgres"
	"github.com/benjaminrust/network-intelligence-dev/internal/util"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

// EventCreateRequest is the POST /api/events payload.
type EventCreateRequest struct {
	EventType     string                 `json:"event_type"`
	Severity      string                 `json:"severity"`
	SourceIP      string                 `json:"source_ip"`
	DestinationIP string                 `json:"destination_ip"`
	RiskScore     int                    `json:"risk_score"`
	Metadata      map[string]interface{} `json:"metadata"`
}

// EventService validates, buckets and persists security events.
type EventService struct {
	repo     postgres.EventRepository
	bucketer *bucketing.Manager
	logger   *zap.Logger
}

func NewEventService(repo postgres.EventRepository, bucketer *bucketing.Manager, logger *zap.Logger) *EventService {
	return &EventService{repo: repo, bucketer: bucketer, logger: logger}
}

// CreateEvent persists a new event. Success means the row is durable.
func (s *EventService) CreateEvent(ctx context.Context, req *EventCreateRequest) (*models.SecurityEvent, error) {
	if req == nil || req.EventType == "" {
		return nil, fmt.Errorf("%w: event_type is required", ErrInvalidInput)
	}
	if req.RiskScore < 0 || req.RiskScore > 100 {
		return nil, fmt.Errorf("%w: risk_score must be between 0 and 100", ErrInvalidInput)
	}

	event := &models.SecurityEvent{
		ID:            uuid.New(),
		EventType:     util.SanitizeInput(req.EventType),
		Severity:      models.NormalizeSeverity(req.Severity),
		SourceIP:      req.SourceIP,
		DestinationIP: req.DestinationIP,
		RiskScore:     req.RiskScore,
		Metadata:      req.Metadata,
		CreatedAt:     time.Now().UTC(),
	}
	if event.Metadata == nil {
		event.Metadata = map[string]interface{}{}
	}
	if s.bucketer != nil {
		event.EventBucket = s.bucketer.EventBucket(event.SourceIP)
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("Security event created",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.EventType),
		zap.String("severity", event.Severity),
		zap.Int("risk_score", event.RiskScore),
	)
	return event, nil
}

// Create adapts CreateEvent for the monitor's EventSink: the monitor builds
// the full event itself when persisting alerts.
func (s *EventService) Create(ctx context.Context, event *models.SecurityEvent) error {
	return s.repo.Create(ctx, event)
}

// ListEvents applies filter defaults (limit 100, capped at 1000) and
// returns matching events newest first.
func (s *EventService) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.SecurityEvent, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultEventLimit
	}
	if filter.Limit > maxEventLimit {
		filter.Limit = maxEventLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Severity != "" && !models.ValidSeverity(filter.Severity) {
		return nil, fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, filter.Severity)
	}

	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
