package providers

import (
	"context"
	"errors"

	"github.com/samber/do/v2"

	"github.com/HO1806/reeltrack/internal/config"
	"github.com/HO1806/reeltrack/internal/logger"
	"github.com/HO1806/reeltrack/internal/service"
	"github.com/HO1806/reeltrack/internal/supervisor"
)

// SupervisorHandle runs the background workers and stops them on shutdown.
type SupervisorHandle struct {
	*supervisor.Tree
	cancel context.CancelFunc
	done   <-chan error
}

// Shutdown implements do.Shutdownable.
func (h *SupervisorHandle) Shutdown() error {
	h.cancel()
	err := <-h.done
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ProvideSupervisor starts the mirror sync loop and, when a drop folder is
// configured, the import watcher.
func ProvideSupervisor(i do.Injector) (*SupervisorHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	syncService := do.MustInvoke[*service.SyncService](i)
	importService := do.MustInvoke[*service.ImportService](i)

	tree := supervisor.New(log.WithComponent("supervisor").Logger, supervisor.DefaultConfig())

	if syncService.Enabled() {
		tree.Add(supervisor.NewSyncWorker(syncService))
		log.Info("Mirror sync started", "interval", cfg.Remote.SyncInterval)
	}
	if cfg.Import.WatchDir != "" {
		tree.Add(supervisor.NewImportWatcher(importService, cfg.Import.WatchDir, log.Logger))
		log.Info("Import watcher started", "dir", cfg.Import.WatchDir)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)

	return &SupervisorHandle{Tree: tree, cancel: cancel, done: done}, nil
}
