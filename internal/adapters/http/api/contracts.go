package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ContractsHandler handles the contract directory search and contract details.
type ContractsHandler struct {
	deps ContractsDependencies
}

// NewContractsHandler creates a new contracts handler.
func NewContractsHandler(deps ContractsDependencies) *ContractsHandler {
	return &ContractsHandler{deps: deps}
}

// HandleSearch handles GET /api/contracts?q= requests.
func (h *ContractsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search_contracts"
	found, err := h.deps.Contracts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// HandleDetails handles GET /api/contracts/{id} requests.
func (h *ContractsHandler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	const op = "api.contract_details"
	detail, err := h.deps.ContractDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
