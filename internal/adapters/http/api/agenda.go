package api

import "net/http"

// AgendaHandler handles the deadline agenda.
type AgendaHandler struct {
	deps AgendaDependencies
}

// NewAgendaHandler creates a new agenda handler.
func NewAgendaHandler(deps AgendaDependencies) *AgendaHandler {
	return &AgendaHandler{deps: deps}
}

// HandleGetAgenda handles GET /api/agenda requests.
func (h *AgendaHandler) HandleGetAgenda(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Agenda(r.Context()))
}

// HandleCheck handles POST /api/agenda/check requests.
func (h *AgendaHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	const op = "api.check_alerts"
	view, err := h.deps.CheckAlerts(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
