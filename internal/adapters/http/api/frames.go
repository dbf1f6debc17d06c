// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/flexa/internal/domain/dedupe"
	"github.com/okian/flexa/internal/domain/model"
	"github.com/okian/flexa/internal/domain/session"
)

// FrameDependencies defines the interface for frame processing dependencies.
type FrameDependencies interface {
	dedupe.Deduper
	ProcessFrame(ctx context.Context, f model.Frame) (session.Result, error)
}

// FramesHandler handles frame requests.
type FramesHandler struct {
	deps FrameDependencies
}

// NewFramesHandler creates a new frames handler.
func NewFramesHandler(deps FrameDependencies) *FramesHandler {
	return &FramesHandler{deps: deps}
}

// HandlePostFrame handles POST /frames requests.
func (h *FramesHandler) HandlePostFrame(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_frame"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req frameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}

	// Idempotency check - mark as seen first. A replayed frame must not
	// advance the rep toggle a second time.
	if h.deps.SeenAndRecord(r.Context(), req.FrameID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	// An absent or empty landmarks object means no pose was detected.
	landmarks := req.Landmarks
	if len(landmarks) == 0 {
		landmarks = nil
	}

	res, err := h.deps.ProcessFrame(r.Context(), model.Frame{
		FrameID:   req.FrameID,
		SessionID: req.SessionID,
		Landmarks: landmarks,
		TS:        req.timestamp(),
	})
	if err != nil {
		// Rollback the "seen" status so the client can retry the frame.
		h.deps.Unrecord(r.Context(), req.FrameID)
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, frameResponse{
		Correct:      res.Verdict.Correct,
		Feedback:     res.Verdict.Feedback,
		Exercise:     res.Kind.String(),
		Instruction:  res.Instruction,
		RepCount:     res.RepCount,
		RepCompleted: res.RepDone,
		Duplicate:    false,
	})
}
