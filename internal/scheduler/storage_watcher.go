package scheduler

import (
	"context"
	"fmt"

	"github.com/Samyk00/LinkVault/internal/kv"
	"github.com/Samyk00/LinkVault/internal/logger"
)

// Reloader is a view that can re-read durable state.
type Reloader interface {
	LoadFromStorage(ctx context.Context) error
	ViewID() string
}

// Subscriber delivers change notifications for the view's namespace.
type Subscriber interface {
	Subscribe(ctx context.Context) (kv.Subscription, error)
}

// StorageWatcher reloads the view whenever another view writes to the shared
// namespace, and on manual triggers. It never merges: the latest durable
// state simply replaces memory.
type StorageWatcher struct {
	view          Reloader
	source        Subscriber
	logger        logger.Logger
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewStorageWatcher creates a watcher. manualTrigger may be nil.
func NewStorageWatcher(
	view Reloader,
	source Subscriber,
	log logger.Logger,
	manualTrigger chan struct{},
) *StorageWatcher {
	return &StorageWatcher{
		view:          view,
		source:        source,
		logger:        log,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start subscribes and begins reloading in the background.
func (sw *StorageWatcher) Start(ctx context.Context) error {
	sub, err := sw.source.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to storage changes: %w", err)
	}

	go func() {
		defer sub.Close()
		for {
			select {
			case change, ok := <-sub.Changes():
				if !ok {
					sw.logger.Warn("storage change feed closed")
					return
				}
				if change.Origin == sw.view.ViewID() {
					continue
				}
				sw.reload(ctx, "change",
					logger.String("origin", change.Origin),
					logger.Strings("keys", change.Keys))
			case <-sw.manualTrigger:
				sw.reload(ctx, "manual")
			case <-sw.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the watcher.
func (sw *StorageWatcher) Stop() {
	close(sw.stopCh)
}

func (sw *StorageWatcher) reload(ctx context.Context, reason string, fields ...logger.Field) {
	if err := sw.view.LoadFromStorage(ctx); err != nil {
		sw.logger.Error("reload from storage failed",
			append(fields, logger.String("reason", reason), logger.Error(err))...)
		return
	}
	sw.logger.Debug("reloaded from storage", append(fields, logger.String("reason", reason))...)
}
