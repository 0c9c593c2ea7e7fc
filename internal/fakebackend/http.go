package fakebackend

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/pactum/pkg/logger"
)

// Source names accepted by Config.FailSources.
const (
	SourcePenalties            = "penalties"
	SourceDueDeliverables      = "due-deliverables"
	SourceContracts            = "contracts"
	SourceContractDetails      = "contract-details"
	SourceAlerts               = "alerts"
	SourceAlertsCheck          = "alerts-check"
	SourceContractStatus       = "contract-status"
	SourceDeliveriesBySupplier = "deliveries-by-supplier"
	SourceDeliveriesByOrgUnit  = "deliveries-by-orgunit"
)

// Server answers the backend's report endpoints from a fixed dataset.
type Server struct {
	data    *Dataset
	cfg     Config
	log     logger.Logger
	checks  atomic.Int64
	handled atomic.Int64
}

// NewServer creates a fake backend serving data.
func NewServer(data *Dataset, cfg Config, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{data: data, cfg: cfg, log: log}
}

// Checks returns how many alert checks were triggered.
func (s *Server) Checks() int64 { return s.checks.Load() }

// Handled returns how many report requests were answered.
func (s *Server) Handled() int64 { return s.handled.Load() }

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.delay)

	r.Get("/api/reports/penalties", s.serve(SourcePenalties, func() any { return s.data.Penalties }))
	r.Get("/api/reports/due-deliverables", s.serve(SourceDueDeliverables, func() any { return s.data.Deliverables }))
	r.Get("/api/contracts", s.serve(SourceContracts, func() any { return s.data.Contracts }))
	r.Get("/api/contracts/{id}", s.serveDetails)
	r.Get("/api/alerts", s.serve(SourceAlerts, func() any { return s.data.Alerts }))
	r.Get("/api/alerts/test", s.serve(SourceAlertsCheck, func() any {
		return map[string]any{"status": "ok", "checks": s.checks.Add(1)}
	}))
	r.Get("/api/reports/contract-status", s.serve(SourceContractStatus, func() any { return s.data.Status }))
	r.Get("/api/reports/deliveries-by-supplier", s.serve(SourceDeliveriesBySupplier, func() any { return s.data.Suppliers }))
	r.Get("/api/reports/deliveries-by-orgunit", s.serve(SourceDeliveriesByOrgUnit, func() any { return s.data.OrgUnits }))

	return r
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Latency > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(s.cfg.Latency):
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) serve(source string, body func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.handled.Add(1)
		if s.cfg.Verbose {
			s.log.Info(r.Context(), "fake backend request", logger.String("path", r.URL.Path))
		}
		w.Header().Set("Content-Type", "application/json")
		if slices.Contains(s.cfg.FailSources, source) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": source + " unavailable"})
			return
		}
		_ = json.NewEncoder(w).Encode(body())
	}
}

func (s *Server) serveDetails(w http.ResponseWriter, r *http.Request) {
	d, ok := s.data.Details[chi.URLParam(r, "id")]
	if !ok && !slices.Contains(s.cfg.FailSources, SourceContractDetails) {
		s.handled.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "contract not found"})
		return
	}
	s.serve(SourceContractDetails, func() any { return d })(w, r)
}
