// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/pactum/internal/adapters/repository"
	"github.com/okian/pactum/internal/domain/contracts"
	"github.com/okian/pactum/internal/domain/model"
	"github.com/okian/pactum/internal/domain/reports"
	"github.com/okian/pactum/internal/domain/risk"
	"github.com/okian/pactum/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RiskDependencies
	AgendaDependencies
	ReportsDependencies
	ContractsDependencies
}

// RiskDependencies serves the risk view.
type RiskDependencies interface {
	Risks(ctx context.Context, f risk.Filter) types.RiskView
	Refresh(ctx context.Context) *types.Snapshot
	History(ctx context.Context) []repository.CycleSummary
}

// AgendaDependencies serves the deadline agenda.
type AgendaDependencies interface {
	Agenda(ctx context.Context) types.AgendaView
	CheckAlerts(ctx context.Context) (types.AgendaView, error)
}

// ReportsDependencies serves the management reports.
type ReportsDependencies interface {
	DueDeliverables(ctx context.Context) ([]reports.DueDeliverableRow, error)
	ContractStatus(ctx context.Context) (types.StatusReport, error)
	SupplierPerformance(ctx context.Context) ([]reports.SupplierRow, error)
	OrgUnitDeliveries(ctx context.Context) ([]model.OrgUnitDeliveries, error)
}

// ContractsDependencies serves the contract directory search and contract details.
type ContractsDependencies interface {
	Contracts(ctx context.Context, search string) ([]model.ContractRecord, error)
	ContractDetails(ctx context.Context, id string) (contracts.Detail, error)
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	risksHandler     *RisksHandler
	agendaHandler    *AgendaHandler
	reportsHandler   *ReportsHandler
	contractsHandler *ContractsHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider, deps),
		risksHandler:     NewRisksHandler(deps),
		agendaHandler:    NewAgendaHandler(deps),
		reportsHandler:   NewReportsHandler(deps),
		contractsHandler: NewContractsHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/dashboard", s.dashboardHandler.HandleDashboard)
	r.Get("/metrics", s.healthHandler.HandleMetrics)

	r.Group(func(r chi.Router) {
		r.Use(MetricsMiddleware)

		r.Get("/healthz", s.healthHandler.HandleHealth)
		r.Get("/stats", s.statsHandler.HandleStats)

		r.Route("/api", func(r chi.Router) {
			r.Get("/risks", s.risksHandler.HandleGetRisks)
			r.Post("/risks/refresh", s.risksHandler.HandleRefresh)
			r.Get("/agenda", s.agendaHandler.HandleGetAgenda)
			r.Post("/agenda/check", s.agendaHandler.HandleCheck)
			r.Get("/reports/due-deliverables", s.reportsHandler.HandleDueDeliverables)
			r.Get("/reports/contract-status", s.reportsHandler.HandleContractStatus)
			r.Get("/reports/deliveries-by-supplier", s.reportsHandler.HandleDeliveriesBySupplier)
			r.Get("/reports/deliveries-by-orgunit", s.reportsHandler.HandleDeliveriesByOrgUnit)
			r.Get("/contracts", s.contractsHandler.HandleSearch)
			r.Get("/contracts/{id}", s.contractsHandler.HandleDetails)
		})
	})
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

func writeError(w http.ResponseWriter, err error) {
	code, name := status(err)
	msg := http.StatusText(code)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, code, errorResponse{Code: name, Message: msg})
}
