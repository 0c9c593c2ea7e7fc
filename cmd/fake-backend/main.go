package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/pactum/internal/fakebackend"
	"github.com/okian/pactum/pkg/logger"
)

func main() {
	def := fakebackend.DefaultConfig()
	var (
		addr         = flag.String("addr", def.Addr, "Listen address")
		contracts    = flag.Int("contracts", def.Contracts, "Contracts in the directory")
		penalties    = flag.Int("penalties", def.Penalties, "Penalty rows")
		deliverables = flag.Int("deliverables", def.Deliverables, "Overdue deliverable rows")
		alerts       = flag.Int("alerts", def.Alerts, "Deadline alerts")
		seed         = flag.Int64("seed", def.Seed, "Random seed")
		latency      = flag.Duration("latency", 0, "Artificial latency per response")
		fail         = flag.String("fail", "", "Comma-separated sources answering 503 (penalties, due-deliverables, contracts, contract-details, alerts, ...)")
		verbose      = flag.Bool("verbose", false, "Log every request")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fakebackend.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := fakebackend.Config{
		Addr:         *addr,
		Contracts:    *contracts,
		Penalties:    *penalties,
		Deliverables: *deliverables,
		Alerts:       *alerts,
		Seed:         *seed,
		Latency:      *latency,
		FailSources:  fakebackend.ParseSources(*fail),
		Verbose:      *verbose,
	}

	if err := fakebackend.Run(ctx, cfg); err != nil {
		_, _ = os.Stderr.WriteString("Fake backend failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
