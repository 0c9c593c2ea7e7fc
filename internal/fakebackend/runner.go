package fakebackend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/pactum/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// Run serves a generated dataset on cfg.Addr until ctx is done.
func Run(ctx context.Context, cfg Config) error {
	log := logger.Get().Named("fake-backend")
	data := Generate(cfg, time.Now())
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewServer(data, cfg, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info(ctx, "starting fake backend",
		logger.String("addr", cfg.Addr),
		logger.Int("contracts", len(data.Contracts)),
		logger.Int("penalties", len(data.Penalties)),
		logger.Int("deliverables", len(data.Deliverables)),
		logger.Int("alerts", len(data.Alerts)),
		logger.Any("failing", cfg.FailSources))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("fake backend: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("fake backend shutdown: %w", err)
	}
	log.Info(context.Background(), "fake backend stopped")
	return nil
}
