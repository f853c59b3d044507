package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adda-Baaj/todo-api-client/internal/config"
	"github.com/Adda-Baaj/todo-api-client/internal/logger"
	"github.com/Adda-Baaj/todo-api-client/internal/storage"
	"github.com/Adda-Baaj/todo-api-client/internal/syncer"
	"github.com/Adda-Baaj/todo-api-client/pkg/todoapi"
)

// Mirror keeps a local copy of the remote tasks and publishes changes. It
// owns the runtime and the store and releases both on Close.
type Mirror struct {
	runtime      *Runtime
	store        storage.Store
	syncService  *syncer.Service
	syncInterval time.Duration
	log          logger.Logger
}

// NewMirror builds a mirror runtime from config.
func NewMirror(ctx context.Context, cfg *config.Config, log logger.Logger) (*Mirror, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if cfg.SyncInterval <= 0 {
		return nil, fmt.Errorf("sync interval must be > 0")
	}

	rt, err := NewRuntime(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		TaskTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"task_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Mirror{
		runtime:      rt,
		store:        store,
		syncService:  syncer.NewService(rt.client, rt.fanout, log, store, rt.client.BaseURL()),
		syncInterval: cfg.SyncInterval,
		log:          log,
	}, nil
}

// RunOnce performs a single sync pass.
func (m *Mirror) RunOnce(ctx context.Context) (syncer.Result, error) {
	if m == nil || m.syncService == nil {
		return syncer.Result{}, fmt.Errorf("mirror is not initialized")
	}

	start := time.Now()
	m.log.InfoObj("sync started", "sync_meta", map[string]any{
		"started_at": start.UTC(),
	})
	res, err := m.syncService.Run(ctx)
	m.log.InfoObj("sync completed", "sync_meta", map[string]any{
		"fetched":    res.Fetched,
		"changed":    res.Changed,
		"published":  res.Published,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return res, err
}

// Run syncs immediately and then on every interval until ctx is cancelled.
func (m *Mirror) Run(ctx context.Context) error {
	if m == nil || m.syncService == nil {
		return fmt.Errorf("mirror is not initialized")
	}

	m.log.InfoObj("mirror loop starting", "mirror_state", map[string]any{
		"publishers_count": m.runtime.fanout.Size(),
		"sync_interval":    m.syncInterval.String(),
	})

	if _, err := m.RunOnce(ctx); err != nil {
		m.log.ErrorObj("initial sync failed", "error", err.Error())
	}

	ticker := time.NewTicker(m.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.InfoObj("mirror loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if _, err := m.RunOnce(ctx); err != nil {
				m.log.ErrorObj("scheduled sync failed", "error", err.Error())
			}
		}
	}
}

// LocalTasks returns the mirrored tasks that have not expired.
func (m *Mirror) LocalTasks() ([]todoapi.TaskDto, error) {
	if m == nil || m.store == nil {
		return nil, fmt.Errorf("mirror is not initialized")
	}
	return m.store.Tasks()
}

// Close releases the store and publisher connections.
func (m *Mirror) Close() error {
	if m == nil {
		return nil
	}
	var errs []error
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if err := m.runtime.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
