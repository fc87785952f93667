package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Samyk00/LinkVault/internal/config"
	"github.com/Samyk00/LinkVault/internal/httpserver"
	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
	"github.com/Samyk00/LinkVault/internal/logger"
	"github.com/Samyk00/LinkVault/internal/scheduler"
	"github.com/Samyk00/LinkVault/internal/version"
)

// App is the long-running server: one engine, its background jobs and the HTTP API.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	engine  *Engine
	server  *httpserver.Server
	watcher *scheduler.StorageWatcher
	gc      *scheduler.TrashCollector
}

// New opens the engine and assembles the server around it.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	engine, err := OpenEngine(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	reloadTrigger := make(chan struct{}, 1)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		RateBurst:     cfg.RateBurst,
		RatePerMin:    cfg.RatePerMin,
		Store:         engine.Store,
		Bulk:          engine.Bulk,
		Backend:       engine.Backend,
		Fetcher:       engine.Fetcher,
		ReloadTrigger: reloadTrigger,
	}

	return &App{
		cfg:     cfg,
		logger:  loggerClient,
		engine:  engine,
		server:  httpserver.New(cfg, loggerClient, d),
		watcher: scheduler.NewStorageWatcher(engine.Store, engine.Persistence, loggerClient, reloadTrigger),
		gc:      scheduler.NewTrashCollector(engine.Store, loggerClient, cfg.GCInterval, cfg.TrashRetention),
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	defer a.engine.Close()

	a.logger.Infof("🚀 Starting LinkVault v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("LinkVault %s (commit=%s, built=%s, go=%s, backend=%s, namespace=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion,
		a.cfg.Backend, a.cfg.Namespace)

	if err := a.watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start storage watcher: %w", err)
	}
	a.logger.Info("storage watcher started", logger.String("view", a.engine.Store.ViewID()))

	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start trash collector: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.watcher.Stop()
		a.gc.Stop()
		return err
	}

	a.watcher.Stop()
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ LinkVault stopped cleanly")
	return nil
}
