package api

import (
	"context"
	"net/http"
)

// ReportsHandler handles the management reports.
type ReportsHandler struct {
	deps ReportsDependencies
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportsDependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps}
}

// serveReport writes the report or the classified error.
func serveReport[T any](w http.ResponseWriter, r *http.Request, op string, fetch func(context.Context) (T, error)) {
	report, err := fetch(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleDueDeliverables handles GET /api/reports/due-deliverables requests.
func (h *ReportsHandler) HandleDueDeliverables(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, "api.due_deliverables", h.deps.DueDeliverables)
}

// HandleContractStatus handles GET /api/reports/contract-status requests.
func (h *ReportsHandler) HandleContractStatus(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, "api.contract_status", h.deps.ContractStatus)
}

// HandleDeliveriesBySupplier handles GET /api/reports/deliveries-by-supplier requests.
func (h *ReportsHandler) HandleDeliveriesBySupplier(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, "api.deliveries_by_supplier", h.deps.SupplierPerformance)
}

// HandleDeliveriesByOrgUnit handles GET /api/reports/deliveries-by-orgunit requests.
func (h *ReportsHandler) HandleDeliveriesByOrgUnit(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, "api.deliveries_by_orgunit", h.deps.OrgUnitDeliveries)
}
