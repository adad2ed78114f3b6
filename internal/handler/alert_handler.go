package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/benjaminrust/network-intelligence-dev/internal/monitor"
)

// ListAlerts handles GET /api/alerts. status=active narrows to live alerts;
// anything else (or no filter) returns the whole registry.
func (h *APIHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	alerts := h.monitor.Alerts(status)
	_, active := h.monitor.AlertCounts()

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"total":  len(alerts),
		"active": active,
	})
}

type alertUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateAlert handles PUT /api/alerts/{alertID}.
func (h *APIHandler) UpdateAlert(w http.ResponseWriter, r *http.Request) {
	alertID, err := strconv.ParseInt(chi.URLParam(r, "alertID"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err, "Invalid alert id")
		return
	}

	var req alertUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	alert, err := h.monitor.UpdateAlertStatus(alertID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, monitor.ErrInvalidStatus):
			respondWithError(w, http.StatusBadRequest, err, "Invalid status")
		case errors.Is(err, monitor.ErrAlertNotFound):
			respondWithError(w, http.StatusNotFound, err, "Alert not found")
		default:
			respondWithError(w, http.StatusInternalServerError, err, "Failed to update alert")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, successResponse(alert, "Alert updated"))
}
