package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/flexa/internal/domain/model"
)

// StatsProvider exposes the engine's operational snapshot: session,
// frame, dedupe and archive-queue figures.
type StatsProvider interface {
	GetStats() model.EngineStats
}

// StatsHandler serves the engine snapshot consumed by the dashboard.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a stats handler backed by provider.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(h.statsProvider.GetStats())
}
