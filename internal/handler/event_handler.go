package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/benjaminrust/network-intelligence-dev/internal/models"
	"github.com/benjaminrust/network-intelligence-dev/internal/service"
	"github.com/benjaminrust/network-intelligence-dev/internal/util"
)

// CreateEvent handles POST /api/events. The 201 is only written after the
// event is durable, so a follow-up list must observe it.
func (h *APIHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req service.EventCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	event, err := h.events.CreateEvent(r.Context(), &req)
	if err != nil {
		respondWithError(w, statusFromErr(err), err, "Failed to create event")
		return
	}

	respondWithJSON(w, http.StatusCreated, successResponse(event, "Event created"))
	h.logger.Info("Event created via HTTP",
		util.String("event_id", event.ID.String()),
		util.Duration("duration", time.Since(start)),
	)
}

// ListEvents handles GET /api/events with optional severity, source_ip,
// event_type, limit and offset query parameters.
func (h *APIHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.EventFilter{
		Severity:  q.Get("severity"),
		SourceIP:  q.Get("source_ip"),
		EventType: q.Get("event_type"),
		Limit:     intQuery(q.Get("limit"), 100),
		Offset:    intQuery(q.Get("offset"), 0),
	}

	events, err := h.events.ListEvents(r.Context(), filter)
	if err != nil {
		respondWithError(w, statusFromErr(err), err, "Failed to list events")
		return
	}

	respondWithJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    events,
		Meta: &Meta{
			Total:  len(events),
			Limit:  filter.Limit,
			Offset: filter.Offset,
		},
	})
}

// intQuery parses a numeric query parameter, falling back on junk input.
func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
