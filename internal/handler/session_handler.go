package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/benjaminrust/network-intelligence-dev/internal/service"
	"github.com/benjaminrust/network-intelligence-dev/internal/util"
)

// CreateSession handles POST /api/sessions.
func (h *APIHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.SessionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	if req.IPAddress == "" {
		req.IPAddress = r.RemoteAddr
	}
	if req.UserAgent == "" {
		req.UserAgent = r.UserAgent()
	}

	session, err := h.sessions.CreateSession(r.Context(), &req)
	if err != nil {
		respondWithError(w, statusFromErr(err), err, "Failed to create session")
		return
	}

	respondWithJSON(w, http.StatusCreated, successResponse(session, "Session created"))
	h.logger.Debug("Session created via HTTP",
		util.String("session_id", session.SessionID.String()))
}

// GetSession handles GET /api/sessions/{sessionID}. Reads hit the cache
// only, so an expired session is a 404.
func (h *APIHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		respondWithError(w, statusFromErr(err), err, "Session not found")
		return
	}

	respondWithJSON(w, http.StatusOK, successResponse(session, ""))
}
