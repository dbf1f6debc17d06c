// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/flexa/internal/domain/session"
)

// SessionDependencies defines the interface for session lifecycle operations.
type SessionDependencies interface {
	CreateSession(ctx context.Context, subjectID string) (session.State, error)
	AdvanceSession(ctx context.Context, id string) (session.State, error)
	Session(ctx context.Context, id string) (session.State, error)
	ArchivedReps(ctx context.Context, id string) (map[string]int, error)
}

// SessionsHandler handles session requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// createSessionRequest mirrors the OpenAPI schema for POST /sessions.
// The body is optional; subject_id defaults to empty.
type createSessionRequest struct {
	SubjectID string `json:"subject_id"`
}

// sessionResponse extends the session snapshot with archived rep totals.
type sessionResponse struct {
	session.State
	ArchivedReps map[string]int `json:"archived_reps,omitempty"`
}

// HandleCreateSession handles POST /sessions requests.
func (h *SessionsHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}

	state, err := h.deps.CreateSession(r.Context(), strings.TrimSpace(req.SubjectID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

// HandleSessionPath handles GET /sessions/{id} and POST /sessions/{id}/advance.
func (h *SessionsHandler) HandleSessionPath(w http.ResponseWriter, r *http.Request) {
	// Extract path parameters after /sessions/
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch {
	case !strings.Contains(path, "/"):
		h.handleGetSession(w, r, path)
	case strings.HasSuffix(path, "/advance"):
		h.handleAdvance(w, r, strings.TrimSuffix(path, "/advance"))
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionsHandler) handleGetSession(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	state, err := h.deps.Session(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	resp := sessionResponse{State: state}
	// Archive reads are best-effort; the live state is the answer.
	if totals, err := h.deps.ArchivedReps(r.Context(), id); err == nil && len(totals) > 0 {
		resp.ArchivedReps = totals
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SessionsHandler) handleAdvance(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	state, err := h.deps.AdvanceSession(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
