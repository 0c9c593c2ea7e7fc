package service

import (
	"context"
	"time"

	"github.com/okian/pactum/internal/domain/model"
	"github.com/okian/pactum/internal/domain/types"
	"github.com/okian/pactum/pkg/logger"
	"github.com/okian/pactum/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// ReportSource provides the reports an aggregation cycle reads.
type ReportSource interface {
	Penalties(ctx context.Context) ([]model.PenaltyRecord, error)
	DueDeliverables(ctx context.Context) ([]model.OverdueDeliverableRecord, error)
	Contracts(ctx context.Context) ([]model.ContractRecord, error)
}

// Outcome is the settled result of one source fetch: records or an error, never both.
type Outcome[T any] struct {
	Records []T
	Err     error
	Latency time.Duration
}

// Available reports whether the fetch succeeded.
func (o Outcome[T]) Available() bool { return o.Err == nil }

// Status describes the outcome for a snapshot.
func (o Outcome[T]) Status(name string) types.SourceStatus {
	return types.SourceStatus{
		Name:      name,
		Available: o.Available(),
		Records:   len(o.Records),
		LatencyMS: float64(o.Latency.Microseconds()) / 1000,
	}
}

// FetchResult holds one outcome per source.
type FetchResult struct {
	Penalties    Outcome[model.PenaltyRecord]
	Deliverables Outcome[model.OverdueDeliverableRecord]
	Contracts    Outcome[model.ContractRecord]
}

// Fetch issues the three report requests concurrently and waits for all of them.
// A failing source never cancels the others; each failure stays in its own outcome.
func Fetch(ctx context.Context, src ReportSource, log logger.Logger) FetchResult {
	var (
		res FetchResult
		g   errgroup.Group
	)
	g.Go(settle(ctx, log, types.SourcePenalties, src.Penalties, &res.Penalties))
	g.Go(settle(ctx, log, types.SourceDeliverables, src.DueDeliverables, &res.Deliverables))
	g.Go(settle(ctx, log, types.SourceContracts, src.Contracts, &res.Contracts))
	_ = g.Wait() // settle never returns an error
	return res
}

// settle runs fn and stores its result in out. It always returns nil so the group
// waits for every source.
func settle[T any](
	ctx context.Context,
	log logger.Logger,
	name string,
	fn func(context.Context) ([]T, error),
	out *Outcome[T],
) func() error {
	return func() error {
		start := time.Now()
		records, err := fn(ctx)
		out.Latency = time.Since(start)
		latencyMs := float64(out.Latency.Microseconds()) / 1000

		if err != nil {
			out.Err = err
			metrics.RecordSourceFetch(name, "error", latencyMs)
			metrics.RecordErrorByComponent("fetcher", name)
			metrics.RecordErrorLatency("fetcher", name, latencyMs)
			log.Warn(ctx, "source fetch failed",
				logger.String("source", name),
				logger.Float64("latency_ms", latencyMs),
				logger.Error(err))
			return nil
		}

		out.Records = records
		metrics.RecordSourceFetch(name, "ok", latencyMs)
		log.Debug(ctx, "source fetched",
			logger.String("source", name),
			logger.Int("records", len(records)),
			logger.Float64("latency_ms", latencyMs))
		return nil
	}
}
