package api

import (
	"net/http"

	"github.com/okian/pactum/internal/adapters/repository"
	"github.com/okian/pactum/internal/domain/types"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() types.Stats
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
	history       RiskDependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider, history RiskDependencies) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider, history: history}
}

type statsResponse struct {
	types.Stats
	History []repository.CycleSummary `json:"history"`
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		Stats:   h.statsProvider.GetStats(),
		History: h.history.History(r.Context()),
	})
}
