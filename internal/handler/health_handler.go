package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Health handles GET /api/health. The response always reports the process
// as up; per-dependency booleans tell the caller which backends are
// reachable right now.
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	services := map[string]bool{}
	if h.deps != nil {
		for name, err := range h.deps.HealthCheck(ctx) {
			services[name] = err == nil
			if err != nil {
				h.logger.Warn("dependency unhealthy",
					zap.String("dependency", name), zap.Error(err))
			}
		}
	}

	payload := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   serviceVersion,
		"services":  services,
	}

	if h.cache != nil {
		if stats, err := h.cache.Stats(ctx); err == nil {
			payload["cache_stats"] = stats
		}
	}

	respondWithJSON(w, http.StatusOK, payload)
}
