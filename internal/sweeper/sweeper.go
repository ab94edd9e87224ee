// Package sweeper promotes confirmed applications of finished events to
// completed, which unlocks review writing for their holders.
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatheringhouse/event-signup/internal/repository"
)

// Run sweeps on every tick until ctx is cancelled. The underlying update
// is idempotent, so overlapping deployments running the sweep
// concurrently are harmless.
func Run(ctx context.Context, apps *repository.ApplicationRepo, interval time.Duration, log *zerolog.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep(ctx, apps, log)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx, apps, log)
		}
	}
}

func sweep(ctx context.Context, apps *repository.ApplicationRepo, log *zerolog.Logger) {
	n, err := apps.CompleteElapsed(ctx, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Msg("completion sweep failed")
		return
	}
	if n > 0 {
		log.Info().Int64("applications", n).Msg("marked applications completed")
	}
}
