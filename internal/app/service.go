// Package service aggregates contract compliance risks from the backend and
// serves the views built on top of them.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/pactum/internal/adapters/repository"
	"github.com/okian/pactum/internal/domain/agenda"
	"github.com/okian/pactum/internal/domain/contracts"
	"github.com/okian/pactum/internal/domain/model"
	"github.com/okian/pactum/internal/domain/reports"
	"github.com/okian/pactum/internal/domain/risk"
	"github.com/okian/pactum/internal/domain/types"
	"github.com/okian/pactum/pkg/logger"
	"github.com/okian/pactum/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Backend is everything the service reads from the contract-management backend.
type Backend interface {
	ReportSource
	Alerts(ctx context.Context) ([]model.AlertRecord, error)
	TriggerAlertCheck(ctx context.Context) error
	ContractStatus(ctx context.Context) (model.ContractStatusReport, error)
	DeliveriesBySupplier(ctx context.Context) ([]model.SupplierDeliveries, error)
	DeliveriesByOrgUnit(ctx context.Context) ([]model.OrgUnitDeliveries, error)
	ContractDetails(ctx context.Context, id string) (model.ContractDetails, error)
}

// Service owns the backend, the snapshot store and the clock.
type Service struct {
	backend Backend
	store   repository.Store
	now     func() time.Time
	logger  logger.Logger

	refreshOnStart bool

	// refreshMu serializes cycles so snapshots are stored in completion order.
	refreshMu sync.Mutex
	started   atomic.Bool
}

// New constructs a new Service reading from backend.
func New(backend Backend, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		store:   repository.NewSnapshotStore(),
		now:     time.Now,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start marks the service running and optionally runs the first cycle.
func (s *Service) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Info(ctx, "risk service started", logger.Bool("refresh_on_start", s.refreshOnStart))
	if s.refreshOnStart {
		s.Refresh(ctx)
	}
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	if s.started.CompareAndSwap(true, false) {
		s.logger.Info(context.Background(), "risk service stopped")
	}
}

// Refresh runs an aggregation cycle and replaces the stored snapshot.
func (s *Service) Refresh(ctx context.Context) *types.Snapshot {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Service) refreshLocked(ctx context.Context) *types.Snapshot {
	snap := RunAggregationCycle(ctx, s.backend,
		WithCycleClock(s.now),
		WithCycleLogger(s.logger.Named("cycle")))
	if err := s.store.Put(ctx, snap); err != nil {
		s.logger.Error(ctx, "failed to store snapshot", logger.Error(err))
	}
	return snap
}

// Snapshot returns the current snapshot, running a first cycle when none exists.
// Concurrent callers on a cold start share that first cycle.
func (s *Service) Snapshot(ctx context.Context) *types.Snapshot {
	snap, err := s.store.Latest(ctx)
	if err == nil {
		return snap
	}
	if !errors.Is(err, repository.ErrNoSnapshot) {
		s.logger.Warn(ctx, "snapshot store read failed", logger.Error(err))
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	if snap, err := s.store.Latest(ctx); err == nil {
		return snap
	}
	return s.refreshLocked(ctx)
}

// Risks returns the filtered risk view. Counts cover the whole collection.
func (s *Service) Risks(ctx context.Context, f risk.Filter) types.RiskView {
	return types.NewRiskView(s.Snapshot(ctx), f)
}

// History returns summaries of recent cycles.
func (s *Service) History(ctx context.Context) []repository.CycleSummary {
	return s.store.History(ctx)
}

// Agenda fetches alerts and the contract directory and builds the deadline agenda.
// A failed alert fetch yields an unavailable agenda; a failed directory only degrades references.
func (s *Service) Agenda(ctx context.Context) types.AgendaView {
	var (
		alerts    Outcome[model.AlertRecord]
		directory Outcome[model.ContractRecord]
		g         errgroup.Group
	)
	g.Go(settle(ctx, s.logger, types.SourceAlerts, s.backend.Alerts, &alerts))
	g.Go(settle(ctx, s.logger, types.SourceContracts, s.backend.Contracts, &directory))
	_ = g.Wait()

	now := s.now()
	view := types.AgendaView{GeneratedAt: now, Warnings: []types.Warning{}}
	if !alerts.Available() {
		view.State = types.StateUnavailable
		view.Events = []agenda.Event{}
		view.Warnings = append(view.Warnings, warning(types.SourceAlerts, "Alertas indisponíveis", alerts.Err))
		return view
	}

	var lookup *contracts.Lookup
	if directory.Available() {
		lookup = contracts.NewLookup(directory.Records)
	} else {
		view.Warnings = append(view.Warnings, warning(types.SourceContracts, msgContractsUnavailable, directory.Err))
	}

	view.Events, view.Counts = agenda.Build(alerts.Records, lookup, now)
	view.State = types.StateReady
	if len(view.Events) == 0 {
		view.State = types.StateEmpty
	}

	metrics.UpdateAgendaEvents(string(agenda.StatusOverdue), view.Counts.Overdue)
	metrics.UpdateAgendaEvents("next7", view.Counts.Next7)
	metrics.UpdateAgendaEvents("next30", view.Counts.Next30)
	return view
}

// CheckAlerts asks the backend to run its deadline check, then rebuilds the agenda.
func (s *Service) CheckAlerts(ctx context.Context) (types.AgendaView, error) {
	if err := s.backend.TriggerAlertCheck(ctx); err != nil {
		metrics.RecordErrorByComponent("service", "alert_check")
		return types.AgendaView{}, fmt.Errorf("trigger alert check: %w", err)
	}
	s.logger.Info(ctx, "alert check triggered")
	return s.Agenda(ctx), nil
}

// DueDeliverables returns the overdue deliverables report.
func (s *Service) DueDeliverables(ctx context.Context) ([]reports.DueDeliverableRow, error) {
	records, err := s.backend.DueDeliverables(ctx)
	if err != nil {
		return nil, fmt.Errorf("due deliverables report: %w", err)
	}
	return reports.DueDeliverableRows(records), nil
}

// ContractStatus returns the contract status distribution.
func (s *Service) ContractStatus(ctx context.Context) (types.StatusReport, error) {
	r, err := s.backend.ContractStatus(ctx)
	if err != nil {
		return types.StatusReport{}, fmt.Errorf("contract status report: %w", err)
	}
	return types.StatusReport{Total: r.Total(), Shares: reports.StatusDistribution(r)}, nil
}

// SupplierPerformance returns deliveries by supplier with on-time rates.
func (s *Service) SupplierPerformance(ctx context.Context) ([]reports.SupplierRow, error) {
	records, err := s.backend.DeliveriesBySupplier(ctx)
	if err != nil {
		return nil, fmt.Errorf("deliveries by supplier report: %w", err)
	}
	return reports.SupplierPerformance(records), nil
}

// OrgUnitDeliveries returns deliveries by org unit.
func (s *Service) OrgUnitDeliveries(ctx context.Context) ([]model.OrgUnitDeliveries, error) {
	records, err := s.backend.DeliveriesByOrgUnit(ctx)
	if err != nil {
		return nil, fmt.Errorf("deliveries by org unit report: %w", err)
	}
	return reports.OrgUnitRows(records), nil
}

// Contracts searches the contract directory by official number or id.
func (s *Service) Contracts(ctx context.Context, search string) ([]model.ContractRecord, error) {
	records, err := s.backend.Contracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("contract directory: %w", err)
	}
	return contracts.Search(records, search), nil
}

// ContractDetails returns one contract with its obligations and a summary.
// An unknown id yields an error matching backend.ErrNotFound.
func (s *Service) ContractDetails(ctx context.Context, id string) (contracts.Detail, error) {
	d, err := s.backend.ContractDetails(ctx, id)
	if err != nil {
		return contracts.Detail{}, fmt.Errorf("contract %q: %w", id, err)
	}
	return contracts.NewDetail(d), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	ctx := context.Background()
	stats := types.Stats{Cycles: s.store.Count(ctx), Running: s.started.Load()}

	snap, err := s.store.Latest(ctx)
	if err != nil {
		return stats
	}
	completed := snap.CompletedAt
	stats.LastCycleID = snap.CycleID
	stats.LastState = snap.State
	stats.LastCompletedAt = &completed
	stats.LastDurationMS = float64(snap.Duration().Microseconds()) / 1000
	stats.Items = len(snap.Items)
	stats.Counts = snap.Counts
	stats.Warnings = len(snap.Warnings)

	for _, sev := range risk.Severities {
		metrics.UpdateRiskItems(sev.String(), snap.Counts.Of(sev))
	}
	return stats
}
