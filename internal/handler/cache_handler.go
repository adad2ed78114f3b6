package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// CacheStats handles GET /api/cache/stats.
func (h *APIHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		respondWithError(w, http.StatusServiceUnavailable,
			errors.New("cache not configured"), "Cache unavailable")
		return
	}

	stats, err := h.cache.Stats(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err, "Failed to read cache stats")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

type cacheClearRequest struct {
	Pattern string `json:"pattern"`
}

// ClearCache handles POST /api/cache/clear. An empty body clears everything.
func (h *APIHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		respondWithError(w, http.StatusServiceUnavailable,
			errors.New("cache not configured"), "Cache unavailable")
		return
	}

	req := cacheClearRequest{Pattern: "*"}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	if req.Pattern == "" {
		req.Pattern = "*"
	}

	removed, err := h.cache.Clear(r.Context(), req.Pattern)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err, "Failed to clear cache")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"pattern":      req.Pattern,
		"keys_removed": removed,
	})
}
