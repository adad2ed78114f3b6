package handler

import (
	"encoding/json"
	"net/http"

	"github.com/benjaminrust/network-intelligence-dev/internal/service"
)

// ListIndicators handles GET /api/threats/indicators.
func (h *APIHandler) ListIndicators(w http.ResponseWriter, r *http.Request) {
	indicators, err := h.threats.ListIndicators(r.Context())
	if err != nil {
		respondWithError(w, statusFromErr(err), err, "Failed to list indicators")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"indicators": indicators,
		"total":      len(indicators),
	})
}

// AddIndicator handles POST /api/threats/indicators.
func (h *APIHandler) AddIndicator(w http.ResponseWriter, r *http.Request) {
	var req service.IndicatorCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	indicator, err := h.threats.AddIndicator(r.Context(), &req)
	if err != nil {
		respondWithError(w, statusFromErr(err), err, "Failed to add indicator")
		return
	}

	respondWithJSON(w, http.StatusCreated, successResponse(indicator, "Indicator added"))
}
