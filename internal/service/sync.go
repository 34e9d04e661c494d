package service

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/remote"
)

// DefaultSyncDebounce is how long the sync loop waits after the last change
// before pushing to the mirror.
const DefaultSyncDebounce = 2 * time.Second

// SyncService keeps the remote mirror in step with the library.
// Sync is one-directional: local additions, edits and deletions are pushed
// to the mirror, and the mirror only ever contributes entries whose ids the
// library does not hold. Mirror copies never overwrite local entries.
type SyncService struct {
	library  *LibraryService
	mirror   Mirror
	debounce time.Duration
	interval time.Duration
	logger   *slog.Logger

	syncMu  sync.Mutex
	trigger chan struct{}
}

// NewSyncService creates a new sync service and subscribes it to library
// changes. interval <= 0 disables periodic syncs.
func NewSyncService(library *LibraryService, mirror Mirror, debounce, interval time.Duration, logger *slog.Logger) *SyncService {
	if debounce <= 0 {
		debounce = DefaultSyncDebounce
	}
	s := &SyncService{
		library:  library,
		mirror:   mirror,
		debounce: debounce,
		interval: interval,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
	library.OnChange(s.Trigger)
	return s
}

// Enabled reports whether a mirror is configured.
func (s *SyncService) Enabled() bool {
	return s.mirror != nil && s.mirror.Configured()
}

// Trigger schedules a debounced sync. It never blocks.
func (s *SyncService) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// SyncNow pushes local changes and then adds the mirror entries the library
// lacks. It runs at start and on request. A failed pass leaves the library
// untouched and is reported in the result, not as an error.
func (s *SyncService) SyncNow(ctx context.Context) (remote.SyncResult, error) {
	return s.sync(ctx, true)
}

// Push sends local changes to the mirror without reading anything back.
// Debounced and periodic passes use it.
func (s *SyncService) Push(ctx context.Context) (remote.SyncResult, error) {
	return s.sync(ctx, false)
}

func (s *SyncService) sync(ctx context.Context, merge bool) (remote.SyncResult, error) {
	if !s.Enabled() {
		return remote.SyncResult{}, domainerrors.Unavailable("no remote mirror configured")
	}

	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	changed, deleted := s.library.TakePending()
	local, version := s.library.VersionedSnapshot()

	var removed int
	for i, id := range deleted {
		if err := s.mirror.Delete(ctx, id); err != nil && !remote.IsNotFound(err) {
			s.library.RequeuePending(entryIDs(changed), deleted[i:])
			s.logger.Warn("sync failed, using local data", "error", err)
			return remote.SyncResult{Entries: local, Deleted: removed, Err: fmt.Errorf("delete %s: %w", id, err)}, nil
		}
		removed++
	}

	res := s.mirror.Sync(ctx, local)
	res.Deleted = removed
	if res.Err != nil {
		s.library.RequeuePending(entryIDs(changed), nil)
		return res, nil
	}

	pushed := make(map[string]struct{}, len(res.PushedIDs))
	for _, id := range res.PushedIDs {
		pushed[id] = struct{}{}
	}
	for i := range changed {
		if _, ok := pushed[changed[i].ID]; ok {
			continue
		}
		if err := s.mirror.Update(ctx, changed[i].ID, changed[i]); err != nil {
			s.library.RequeuePending(entryIDs(changed[i:]), nil)
			s.logger.Warn("sync failed, using local data", "error", err)
			res.Entries = local
			res.Err = fmt.Errorf("update %s: %w", changed[i].ID, err)
			return res, nil
		}
		res.Updated++
	}

	if !merge {
		return res, nil
	}
	added, err := s.library.MergeSynced(ctx, version, res.Entries)
	if err != nil {
		return res, fmt.Errorf("merge mirror entries: %w", err)
	}
	if added < 0 {
		s.logger.Debug("library changed during sync, skipping merge")
	} else if added > 0 {
		s.logger.Info("mirror entries merged", "added", added)
	}
	return res, nil
}

func entryIDs(entries []domain.Entry) []string {
	ids := make([]string, len(entries))
	for i := range entries {
		ids[i] = entries[i].ID
	}
	return ids
}

// Run syncs once, then again after every burst of changes and on every
// interval tick, until ctx is done.
func (s *SyncService) Run(ctx context.Context) {
	if !s.Enabled() {
		return
	}

	if _, err := s.SyncNow(ctx); err != nil {
		s.logger.Error("sync failed", "error", err)
	}

	debounce := time.NewTimer(s.debounce)
	debounce.Stop()
	defer debounce.Stop()

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
			debounce.Reset(s.debounce)
		case <-debounce.C:
			s.runOnce(ctx)
		case <-tick:
			s.runOnce(ctx)
		}
	}
}

func (s *SyncService) runOnce(ctx context.Context) {
	if _, err := s.Push(ctx); err != nil {
		s.logger.Error("sync failed", "error", err)
	}
}

// TakePending returns the entries edited and the ids deleted since the
// last call, and clears both sets. Edited ids that no longer exist are
// skipped; their deletion is reported instead.
func (s *LibraryService) TakePending() ([]domain.Entry, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := make([]domain.Entry, 0, len(s.pendingUpserts))
	for id := range s.pendingUpserts {
		if e, ok := s.current(id); ok {
			changed = append(changed, e)
		}
	}
	slices.SortFunc(changed, func(a, b domain.Entry) int { return strings.Compare(a.ID, b.ID) })

	deleted := slices.Sorted(maps.Keys(s.pendingDeletes))
	clear(s.pendingUpserts)
	clear(s.pendingDeletes)
	return changed, deleted
}

// RequeuePending puts back changes a failed push could not deliver. Ids
// touched again since TakePending keep their newer state.
func (s *LibraryService) RequeuePending(changed, deleted []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range changed {
		if _, gone := s.pendingDeletes[id]; !gone && s.indexOf(id) >= 0 {
			s.pendingUpserts[id] = struct{}{}
		}
	}
	for _, id := range deleted {
		if _, back := s.pendingUpserts[id]; !back && s.indexOf(id) < 0 {
			s.pendingDeletes[id] = struct{}{}
		}
	}
}

// MergeSynced adds the mirror entries whose ids the library does not hold,
// provided the library is still at version. Entries present on both sides
// keep their local copy. It returns how many entries were added, or -1 when
// a commit happened since version was read. Change listeners are not
// notified and nothing is queued for the next push.
func (s *LibraryService) MergeSynced(ctx context.Context, version uint64, entries []domain.Entry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version != version {
		return -1, nil
	}

	var fresh []domain.Entry
	for _, e := range entries {
		if s.indexOf(e.ID) >= 0 {
			continue
		}
		if _, deleted := s.pendingDeletes[e.ID]; deleted {
			continue
		}
		e.Normalize()
		fresh = append(fresh, e)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	next := slices.Concat(fresh, s.library)
	if err := s.commitLocked(ctx, next, fresh, nil, nil); err != nil {
		return 0, err
	}
	for i := range fresh {
		delete(s.pendingUpserts, fresh[i].ID)
	}
	return len(fresh), nil
}
