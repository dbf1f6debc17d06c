// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/flexa/internal/adapters/registry"
	"github.com/okian/flexa/internal/domain/dedupe"
	"github.com/okian/flexa/internal/domain/model"
	"github.com/okian/flexa/internal/domain/pose"
	"github.com/okian/flexa/internal/domain/session"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// ProcessFrame evaluates one frame against its session.
	ProcessFrame(ctx context.Context, f model.Frame) (session.Result, error)

	// Session lifecycle operations.
	CreateSession(ctx context.Context, subjectID string) (session.State, error)
	AdvanceSession(ctx context.Context, id string) (session.State, error)
	Session(ctx context.Context, id string) (session.State, error)

	// ArchivedReps exposes per-exercise rep totals from the archive.
	ArchivedReps(ctx context.Context, id string) (map[string]int, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	framesHandler    *FramesHandler
	sessionsHandler  *SessionsHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		framesHandler:    NewFramesHandler(deps),
		sessionsHandler:  NewSessionsHandler(deps),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/frames", MetricsMiddleware(s.framesHandler.HandlePostFrame, "frames"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreateSession, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleSessionPath, "sessions"))
}

// frameRequest mirrors the OpenAPI schema for POST /frames. A missing or
// empty landmarks object means no pose was detected in the frame.
type frameRequest struct {
	FrameID   string   `json:"frame_id"`
	SessionID string   `json:"session_id"`
	Landmarks pose.Set `json:"landmarks,omitempty"`
	TS        string   `json:"ts,omitempty"`
}

func (f frameRequest) validate() error {
	switch {
	case strings.TrimSpace(f.FrameID) == "":
		return errors.New("missing frame_id")
	case strings.TrimSpace(f.SessionID) == "":
		return errors.New("missing session_id")
	}
	if f.TS != "" {
		if _, err := time.Parse(time.RFC3339, f.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

func (f frameRequest) timestamp() time.Time {
	if f.TS == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, f.TS)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// frameResponse is the evaluation outcome returned for one frame.
type frameResponse struct {
	Correct      bool   `json:"correct"`
	Feedback     string `json:"feedback"`
	Exercise     string `json:"exercise"`
	Instruction  string `json:"instruction"`
	RepCount     int    `json:"rep_count"`
	RepCompleted bool   `json:"rep_completed"`
	Duplicate    bool   `json:"duplicate"`
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, registry.ErrNotFound)
}
