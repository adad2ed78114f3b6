package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/models"
	"github.com/benjaminrust/network-intelligence-dev/internal/monitor"
	"github.com/benjaminrust/network-intelligence-dev/internal/service"
)

const serviceVersion = "1.0.0"

// CacheAdmin serves the cache introspection endpoints.
type CacheAdmin interface {
	Stats(ctx context.Context) (models.CacheStats, error)
	Clear(ctx context.Context, pattern string) (int64, error)
}

// DependencyChecker reports per-dependency reachability for /api/health.
type DependencyChecker interface {
	HealthCheck(ctx context.Context) map[string]error
}

// NetworkStatsCache is the cache-first read/write path for network stats.
type NetworkStatsCache interface {
	GetNetworkStats(ctx context.Context) (*models.NetworkStats, error)
	CacheNetworkStats(ctx context.Context, stats models.NetworkStats) error
}

// APIHandler holds the services behind the HTTP surface.
type APIHandler struct {
	events     *service.EventService
	analytics  *service.AnalyticsService
	threats    *service.ThreatService
	sessions   *service.SessionService
	monitor    *monitor.NetworkMonitor
	statsCache NetworkStatsCache
	cache      CacheAdmin
	deps       DependencyChecker
	logger     *zap.Logger
}

func NewAPIHandler(
	events *service.EventService,
	analytics *service.AnalyticsService,
	threats *service.ThreatService,
	sessions *service.SessionService,
	mon *monitor.NetworkMonitor,
	statsCache NetworkStatsCache,
	cache CacheAdmin,
	deps DependencyChecker,
	logger *zap.Logger,
) *APIHandler {
	return &APIHandler{
		events:     events,
		analytics:  analytics,
		threats:    threats,
		sessions:   sessions,
		monitor:    mon,
		statsCache: statsCache,
		cache:      cache,
		deps:       deps,
		logger:     logger,
	}
}

// RegisterRoutes mounts every /api route.
func (h *APIHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Post("/", h.CreateEvent)
	})

	r.Get("/analytics", h.AnalyticsSummary)
	r.Route("/analytics/metrics", func(r chi.Router) {
		r.Get("/", h.QueryMetrics)
		r.Post("/", h.RecordMetric)
	})

	r.Route("/network", func(r chi.Router) {
		r.Get("/status", h.NetworkStatus)
		r.Post("/analyze", h.AnalyzeTraffic)
	})

	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.ListAlerts)
		r.Put("/{alertID}", h.UpdateAlert)
	})

	r.Route("/threats/indicators", func(r chi.Router) {
		r.Get("/", h.ListIndicators)
		r.Post("/", h.AddIndicator)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{sessionID}", h.GetSession)
	})

	r.Route("/cache", func(r chi.Router) {
		r.Get("/stats", h.CacheStats)
		r.Post("/clear", h.ClearCache)
	})
}
