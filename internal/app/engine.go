package app

import (
	"context"
	"fmt"

	"github.com/Samyk00/LinkVault/internal/bulk"
	"github.com/Samyk00/LinkVault/internal/catalog"
	"github.com/Samyk00/LinkVault/internal/config"
	"github.com/Samyk00/LinkVault/internal/kv"
	"github.com/Samyk00/LinkVault/internal/logger"
	"github.com/Samyk00/LinkVault/internal/metadata"
	"github.com/Samyk00/LinkVault/internal/persistence"
	"github.com/Samyk00/LinkVault/internal/redis"
	"github.com/Samyk00/LinkVault/internal/store"
	"github.com/Samyk00/LinkVault/internal/utils"
)

// Engine is one hydrated view of the dataset with everything that operates on it.
type Engine struct {
	Backend     kv.Backend
	Persistence *persistence.Service
	Store       *store.Store
	Bulk        *bulk.Coordinator
	Fetcher     *metadata.Fetcher

	log logger.Logger
}

// OpenEngine connects the configured backend and loads the store from it.
// Bulk actions decline every prompt unless a caller swaps the confirmer.
func OpenEngine(ctx context.Context, cfg *config.Config, log logger.Logger) (*Engine, error) {
	cat, err := catalog.NewLoader(cfg.CatalogFile).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load platform catalog: %w", err)
	}

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	svc := persistence.New(backend, persistence.Options{Quota: cfg.QuotaBytes, Logger: log})
	st := store.New(svc, store.Options{
		MaxSubFolders: cfg.MaxSubFolders,
		Catalog:       cat,
		Logger:        log,
	})
	if err := st.LoadFromStorage(ctx); err != nil {
		utils.MustClose(backend, log, backend.Name())
		return nil, fmt.Errorf("failed to load from storage: %w", err)
	}

	return &Engine{
		Backend:     backend,
		Persistence: svc,
		Store:       st,
		Bulk:        bulk.New(st, bulk.Always(false), log),
		Fetcher:     metadata.NewFetcher(cfg.FetchTimeout, log),
		log:         log,
	}, nil
}

// Close releases the backend.
func (e *Engine) Close() {
	utils.MustClose(e.Backend, e.log, e.Backend.Name())
}

func openBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (kv.Backend, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		return kv.NewRedis(client, cfg.Namespace, log), nil

	case config.BackendSQLite:
		b, err := kv.OpenSQLite(cfg.SQLitePath, cfg.Namespace)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store %s: %w", cfg.SQLitePath, err)
		}
		log.Info("sqlite store opened", logger.String("path", cfg.SQLitePath))
		return b, nil

	case config.BackendMemory:
		log.Warn("memory backend selected, data is lost on exit")
		return kv.NewMemory(cfg.Namespace).WithMaxBytes(cfg.QuotaBytes), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
