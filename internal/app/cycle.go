package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/pactum/internal/domain/contracts"
	"github.com/okian/pactum/internal/domain/dedupe"
	"github.com/okian/pactum/internal/domain/risk"
	"github.com/okian/pactum/internal/domain/types"
	"github.com/okian/pactum/pkg/logger"
	"github.com/okian/pactum/pkg/metrics"
)

// Warning messages shown when a source fails.
const (
	msgPenaltiesUnavailable    = "Penalidades indisponíveis"
	msgDeliverablesUnavailable = "Entregas atrasadas indisponíveis"
	msgContractsUnavailable    = "Diretório de contratos indisponível; contratos exibidos pelo identificador abreviado"
)

type cycleConfig struct {
	now    func() time.Time
	logger logger.Logger
}

// CycleOption configures a single aggregation cycle.
type CycleOption func(*cycleConfig)

// WithCycleClock sets the clock used for cycle timestamps.
func WithCycleClock(now func() time.Time) CycleOption {
	return func(c *cycleConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCycleLogger sets the logger used during the cycle.
func WithCycleLogger(l logger.Logger) CycleOption {
	return func(c *cycleConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// RunAggregationCycle fetches every source, normalizes and classifies the records, and
// returns a complete snapshot. It never fails: unavailable sources become warnings and
// the snapshot state tells ready, empty and unavailable apart.
func RunAggregationCycle(ctx context.Context, src ReportSource, opts ...CycleOption) *types.Snapshot {
	cfg := cycleConfig{now: time.Now, logger: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	snap := &types.Snapshot{
		CycleID:   uuid.NewString(),
		StartedAt: cfg.now(),
	}
	log := cfg.logger
	log.Debug(ctx, "aggregation cycle started", logger.String("cycle_id", snap.CycleID))

	res := Fetch(ctx, src, log)

	var lookup *contracts.Lookup
	if res.Contracts.Available() {
		lookup = contracts.NewLookup(res.Contracts.Records)
	}

	records := make([]risk.Record, 0, len(res.Penalties.Records)+len(res.Deliverables.Records))
	records = append(records, risk.FromPenalties(res.Penalties.Records)...)
	records = append(records, risk.FromDeliverables(res.Deliverables.Records)...)
	items := risk.Normalize(records, lookup)

	d := dedupe.NewInMemoryDeduper(dedupe.WithExpectedSize(len(items)))
	// Penalties are normalized first, so they win an id shared with a deliverable.
	items, dropped := dedupe.Unique(ctx, d, items, func(it risk.Item) string { return it.ID })
	if dropped > 0 {
		log.Warn(ctx, "duplicate records dropped",
			logger.String("cycle_id", snap.CycleID),
			logger.Int("dropped", dropped))
		metrics.RecordDuplicatesDropped(dropped)
	}

	snap.Items = items
	snap.Counts = risk.CountBySeverity(items)
	snap.Duplicates = dropped
	snap.Sources = []types.SourceStatus{
		res.Penalties.Status(types.SourcePenalties),
		res.Deliverables.Status(types.SourceDeliverables),
		res.Contracts.Status(types.SourceContracts),
	}
	snap.Warnings = warnings(res)
	snap.State = deriveState(res, len(items))
	snap.CompletedAt = cfg.now()

	metrics.RecordCycle(string(snap.State), float64(snap.Duration().Microseconds())/1000)
	for _, sev := range risk.Severities {
		metrics.UpdateRiskItems(sev.String(), snap.Counts.Of(sev))
	}

	log.Info(ctx, "aggregation cycle finished",
		logger.String("cycle_id", snap.CycleID),
		logger.String("state", string(snap.State)),
		logger.Int("items", len(items)),
		logger.Int("warnings", len(snap.Warnings)),
		logger.Float64("duration_ms", float64(snap.Duration().Microseconds())/1000))

	return snap
}

// deriveState returns unavailable only when no risk-bearing source answered.
func deriveState(res FetchResult, items int) types.State {
	switch {
	case !res.Penalties.Available() && !res.Deliverables.Available():
		return types.StateUnavailable
	case items == 0:
		return types.StateEmpty
	default:
		return types.StateReady
	}
}

func warnings(res FetchResult) []types.Warning {
	out := make([]types.Warning, 0, 3)
	if err := res.Penalties.Err; err != nil {
		out = append(out, warning(types.SourcePenalties, msgPenaltiesUnavailable, err))
	}
	if err := res.Deliverables.Err; err != nil {
		out = append(out, warning(types.SourceDeliverables, msgDeliverablesUnavailable, err))
	}
	if err := res.Contracts.Err; err != nil {
		out = append(out, warning(types.SourceContracts, msgContractsUnavailable, err))
	}
	return out
}

func warning(source, msg string, err error) types.Warning {
	return types.Warning{Source: source, Message: fmt.Sprintf("%s: %v", msg, err)}
}
