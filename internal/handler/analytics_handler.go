package handler

import (
	"encoding/json"
	"net/http"

	"github.com/benjaminrust/network-intelligence-dev/internal/models"
	"github.com/benjaminrust/network-intelligence-dev/internal/service"
)

// AnalyticsSummary handles GET /api/analytics.
func (h *APIHandler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.Summary(r.Context())
	if err != nil {
		respondWithError(w, statusFromErr(err), err, "Failed to build analytics summary")
		return
	}
	respondWithJSON(w, http.StatusOK, successResponse(summary, ""))
}

// QueryMetrics handles GET /api/analytics/metrics.
func (h *APIHandler) QueryMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	metrics, err := h.analytics.QueryMetrics(r.Context(), models.MetricQuery{
		MetricName: q.Get("metric_name"),
		Period:     q.Get("period"),
		Limit:      intQuery(q.Get("limit"), 100),
	})
	if err != nil {
		respondWithError(w, statusFromErr(err), err, "Failed to query metrics")
		return
	}

	respondWithJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    metrics,
		Meta:    &Meta{Total: len(metrics)},
	})
}

// RecordMetric handles POST /api/analytics/metrics.
func (h *APIHandler) RecordMetric(w http.ResponseWriter, r *http.Request) {
	var req service.MetricCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	metric, err := h.analytics.RecordMetric(r.Context(), &req)
	if err != nil {
		respondWithError(w, statusFromErr(err), err, "Failed to record metric")
		return
	}

	respondWithJSON(w, http.StatusCreated, successResponse(metric, "Metric recorded"))
}
