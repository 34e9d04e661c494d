package supervisor

import (
	"context"
	"log/slog"

	"github.com/thejerf/suture/v4"

	"github.com/HO1806/reeltrack/internal/service"
	"github.com/HO1806/reeltrack/internal/watcher"
)

// SyncWorker runs the mirror sync loop as a supervised service.
type SyncWorker struct {
	sync *service.SyncService
}

// NewSyncWorker wraps the sync service.
func NewSyncWorker(s *service.SyncService) *SyncWorker {
	return &SyncWorker{sync: s}
}

// Serve implements suture.Service. Without a mirror there is nothing to run
// and the worker asks not to be restarted.
func (w *SyncWorker) Serve(ctx context.Context) error {
	if !w.sync.Enabled() {
		return suture.ErrDoNotRestart
	}
	w.sync.Run(ctx)
	return ctx.Err()
}

// String names the worker in supervisor logs.
func (w *SyncWorker) String() string { return "mirror-sync" }

// ImportWatcher watches the import drop folder as a supervised service.
// Each run gets a fresh fsnotify watcher so a restart recovers from a
// broken one.
type ImportWatcher struct {
	imports *service.ImportService
	dir     string
	logger  *slog.Logger
}

// NewImportWatcher creates a watcher worker for dir.
func NewImportWatcher(imports *service.ImportService, dir string, logger *slog.Logger) *ImportWatcher {
	return &ImportWatcher{imports: imports, dir: dir, logger: logger}
}

// Serve implements suture.Service.
func (w *ImportWatcher) Serve(ctx context.Context) error {
	fw, err := watcher.New(w.logger, watcher.Options{IgnoreHidden: true})
	if err != nil {
		return err
	}
	defer func() { _ = fw.Stop() }()

	if err := w.imports.RunWatcher(ctx, fw, w.dir); err != nil {
		return err
	}
	return ctx.Err()
}

// String names the worker in supervisor logs.
func (w *ImportWatcher) String() string { return "import-watcher" }
