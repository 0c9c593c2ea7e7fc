package api

import (
	"net/http"

	"github.com/okian/pactum/internal/domain/risk"
)

// RisksHandler handles the risk view.
type RisksHandler struct {
	deps RiskDependencies
}

// NewRisksHandler creates a new risks handler.
func NewRisksHandler(deps RiskDependencies) *RisksHandler {
	return &RisksHandler{deps: deps}
}

// HandleGetRisks handles GET /api/risks?severity=&q= requests.
func (h *RisksHandler) HandleGetRisks(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_risks"
	q := r.URL.Query()
	sev, err := risk.ParseSeverityFilter(q.Get("severity"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Risks(r.Context(), risk.Filter{Severity: sev, Search: q.Get("q")}))
}

type refreshResponse struct {
	CycleID  string `json:"cycleId"`
	State    string `json:"state"`
	Items    int    `json:"items"`
	Warnings int    `json:"warnings"`
}

// HandleRefresh handles POST /api/risks/refresh requests.
func (h *RisksHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	snap := h.deps.Refresh(r.Context())
	writeJSON(w, http.StatusOK, refreshResponse{
		CycleID:  snap.CycleID,
		State:    string(snap.State),
		Items:    len(snap.Items),
		Warnings: len(snap.Warnings),
	})
}
