package queue

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// GarbageCollector drops recurrence jobs that have sat in the dead-letter
// queue longer than the retention window. A job old enough to hit DLQ
// retention has been superseded by at least one sweep pass, so nothing is
// lost by discarding it.
type GarbageCollector struct {
	purger    DLQPurger
	interval  time.Duration
	retention time.Duration
	log       *zap.Logger
}

// NewGarbageCollector creates a collector that purges the DLQ every
// interval. purger is typically the RabbitMQ queue itself.
func NewGarbageCollector(purger DLQPurger, interval, retention time.Duration, log *zap.Logger) *GarbageCollector {
	return &GarbageCollector{
		purger:    purger,
		interval:  interval,
		retention: retention,
		log:       log,
	}
}

// Start runs the purge loop until ctx is cancelled.
func (gc *GarbageCollector) Start(ctx context.Context) error {
	ticker := time.NewTicker(gc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := gc.purgeExpired(ctx); err != nil {
				gc.log.Error("failed_to_purge_dead_letter_queue", zap.Error(err))
			}
		}
	}
}

func (gc *GarbageCollector) purgeExpired(ctx context.Context) error {
	if gc.purger == nil {
		return nil
	}

	purgeCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	purged, err := gc.purger.PurgeOlderThan(purgeCtx, gc.retention)
	if err != nil {
		return fmt.Errorf("failed to purge dead-lettered jobs: %w", err)
	}

	if purged > 0 {
		gc.log.Info("purged_stale_dead_letter_jobs",
			zap.Int("purged", purged),
			zap.Duration("retention", gc.retention),
		)
	}
	return nil
}
