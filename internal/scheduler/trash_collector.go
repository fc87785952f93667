package scheduler

import (
	"context"
	"time"

	"github.com/Samyk00/LinkVault/internal/logger"
)

// Purger permanently deletes links trashed at or before a cutoff.
type Purger interface {
	PurgeTrash(ctx context.Context, cutoff time.Time) (int, error)
}

// TrashCollector periodically empties trash older than the retention period.
type TrashCollector struct {
	purger    Purger
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

// NewTrashCollector creates a collector. A zero retention keeps trash forever.
func NewTrashCollector(
	purger Purger,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *TrashCollector {
	return &TrashCollector{
		purger:    purger,
		logger:    log,
		interval:  interval,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
		stopCh:    make(chan struct{}),
	}
}

// Start runs a collection immediately, then every interval.
func (tc *TrashCollector) Start(ctx context.Context) error {
	if tc.retention <= 0 || tc.interval <= 0 {
		tc.logger.Info("trash retention disabled")
		return nil
	}

	// Run immediately on start
	if _, err := tc.Collect(ctx); err != nil {
		tc.logger.Warn("initial trash collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(tc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := tc.Collect(ctx); err != nil {
					tc.logger.Error("trash collection failed",
						logger.Error(err))
				}
			case <-tc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector.
func (tc *TrashCollector) Stop() {
	close(tc.stopCh)
}

// Collect purges links trashed longer than the retention period.
func (tc *TrashCollector) Collect(ctx context.Context) (int, error) {
	cutoff := tc.now().Add(-tc.retention)

	removed, err := tc.purger.PurgeTrash(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		tc.logger.Info("trash collection completed",
			logger.Int("removed", removed),
			logger.String("cutoff", cutoff.Format(time.RFC3339)))
	} else {
		tc.logger.Debug("no trashed links to collect")
	}
	return removed, nil
}
