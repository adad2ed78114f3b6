package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/models"
)

// NetworkStatus handles GET /api/network/status: serve the cached snapshot
// when warm, otherwise the monitor's live counters (re-caching them).
func (h *APIHandler) NetworkStatus(w http.ResponseWriter, r *http.Request) {
	stats := h.currentStats(r.Context())

	_, active := h.monitor.AlertCounts()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "operational",
		"stats":         stats,
		"active_alerts": active,
		"last_updated":  time.Now().UTC(),
	})
}

func (h *APIHandler) currentStats(ctx context.Context) models.NetworkStats {
	stats := h.monitor.Stats()
	if h.statsCache == nil {
		return stats
	}

	cached, err := h.statsCache.GetNetworkStats(ctx)
	if err == nil && cached != nil {
		return *cached
	}
	if err != nil {
		h.logger.Warn("stats cache read failed", zap.Error(err))
	}
	if cerr := h.statsCache.CacheNetworkStats(ctx, stats); cerr != nil {
		h.logger.Warn("stats cache write failed", zap.Error(cerr))
	}
	return stats
}

// AnalyzeTraffic handles POST /api/network/analyze.
func (h *APIHandler) AnalyzeTraffic(w http.ResponseWriter, r *http.Request) {
	var sample models.TrafficSample
	if err := json.NewDecoder(r.Body).Decode(&sample); err != nil {
		respondWithError(w, http.StatusBadRequest, err, "No traffic data provided")
		return
	}

	analysis := h.monitor.AnalyzeTraffic(r.Context(), sample)
	respondWithJSON(w, http.StatusOK, analysis)
}
