package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/id"
	"github.com/HO1806/reeltrack/internal/metrics"
	"github.com/HO1806/reeltrack/internal/notify"
	"github.com/HO1806/reeltrack/internal/store"
	"github.com/HO1806/reeltrack/internal/streak"
)

// LibraryOptions injects the clock, id generators and randomness.
// Zero fields fall back to the wall clock, real ids and a time-seeded PCG.
type LibraryOptions struct {
	Now               func() time.Time
	NewEntryID        func() string
	NewNotificationID notify.IDFunc
	Rand              *rand.Rand
}

// LibraryService owns the in-memory library snapshot and is the single
// writer to the entry store.
//
// Snapshots are copy-on-write: a mutation builds a new slice, persists it,
// runs the streak and unrated-watched rules over it, and only then swaps it
// in. Readers get the current slice and must not modify it.
type LibraryService struct {
	store  store.Store
	logger *slog.Logger

	now        func() time.Time
	newEntryID func() string
	newNoteID  notify.IDFunc

	mu       sync.RWMutex // guards library, settings and version; held for writing across a whole mutation
	library  []domain.Entry
	settings domain.Settings
	version  uint64

	rngMu sync.Mutex
	rng   *rand.Rand

	listenersMu sync.Mutex
	listeners   []func()

	events EventEmitter // guarded by mu

	// Ids edited or deleted since the last mirror push. Guarded by mu.
	pendingUpserts map[string]struct{}
	pendingDeletes map[string]struct{}
}

// NewLibraryService creates a library service. Call Load before use.
func NewLibraryService(st store.Store, logger *slog.Logger, opts LibraryOptions) *LibraryService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewEntryID == nil {
		opts.NewEntryID = id.NewEntryID
	}
	if opts.NewNotificationID == nil {
		opts.NewNotificationID = id.NewNotificationID
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	return &LibraryService{
		store:      st,
		logger:     logger,
		now:        opts.Now,
		newEntryID: opts.NewEntryID,
		newNoteID:  opts.NewNotificationID,
		rng:        opts.Rand,
		settings:   domain.DefaultSettings(),

		pendingUpserts: make(map[string]struct{}),
		pendingDeletes: make(map[string]struct{}),
	}
}

// Load reads the library and settings from the store and runs the streak
// and notification cycle once.
func (s *LibraryService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	s.settings = settings
	if err := s.commitLocked(ctx, entries, nil, nil, nil); err != nil {
		return err
	}
	clear(s.pendingUpserts)
	clear(s.pendingDeletes)

	s.logger.Info("library loaded", "entries", len(entries), "current_streak", s.settings.CurrentStreak)
	return nil
}

// Snapshot returns the current library, newest additions first.
// The slice is shared; callers must not modify it.
func (s *LibraryService) Snapshot() []domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.library
}

// VersionedSnapshot returns the current library with a version that
// changes on every commit.
func (s *LibraryService) VersionedSnapshot() ([]domain.Entry, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.library, s.version
}

// Settings returns the current settings.
func (s *LibraryService) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Now returns the service clock's current time.
func (s *LibraryService) Now() time.Time {
	return s.now()
}

// OnChange registers fn to run after every committed mutation that came
// from a user action. Listeners run on their own goroutine after the write
// lock is released, so they may read the library.
func (s *LibraryService) OnChange(fn func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SetEventEmitter routes committed changes and new notifications to e.
func (s *LibraryService) SetEventEmitter(e EventEmitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = e
}

func (s *LibraryService) notifyListeners() {
	s.listenersMu.Lock()
	fns := slices.Clone(s.listeners)
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// commitLocked runs the derive cycle over next, persists everything that
// changed and swaps the snapshot in. changed lists entries the caller
// modified or created; deleted lists removed ids; notes are extra
// notifications produced by the mutation itself. s.mu must be held.
func (s *LibraryService) commitLocked(ctx context.Context, next, changed []domain.Entry, deleted []string, notes []domain.Notification) error {
	now := s.now()

	settings, streakChanged := streak.Update(s.settings, next, now)
	if streakChanged {
		if n, ok := notify.StreakMilestone(settings.CurrentStreak, streak.IsMilestone(settings.CurrentStreak), now, s.newNoteID); ok {
			notes = append(notes, n)
		}
	}

	flagged, unrated := notify.UnratedWatched(next, now, s.newNoteID)
	if len(unrated) > 0 {
		notes = append(notes, unrated...)
		changed = mergeChanged(changed, flagged, unrated)
		next = flagged
	}

	for _, id := range deleted {
		if err := s.store.DeleteEntry(ctx, id); err != nil {
			return fmt.Errorf("delete entry %s: %w", id, err)
		}
	}
	if err := s.store.SaveEntries(ctx, changed); err != nil {
		return fmt.Errorf("save entries: %w", err)
	}
	if streakChanged {
		if err := s.store.SaveSettings(ctx, settings); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}
	if len(notes) > 0 {
		if err := s.store.AddNotifications(ctx, notes...); err != nil {
			return fmt.Errorf("save notifications: %w", err)
		}
		for _, n := range notes {
			metrics.RecordNotification(string(n.Type))
		}
	}

	if streakChanged {
		s.logger.Info("watch streak updated",
			"current", settings.CurrentStreak,
			"best", settings.BestStreak,
		)
	}

	s.library = next
	s.settings = settings
	s.version++
	recordLibrarySize(next)

	for i := range changed {
		delete(s.pendingDeletes, changed[i].ID)
		s.pendingUpserts[changed[i].ID] = struct{}{}
	}
	for _, id := range deleted {
		delete(s.pendingUpserts, id)
		s.pendingDeletes[id] = struct{}{}
	}

	if s.events != nil {
		for _, n := range notes {
			s.events.NotificationCreated(n)
		}
		s.events.LibraryChanged(s.version, len(next))
	}
	return nil
}

// mergeChanged adds the entries flagged by the unrated rule to changed,
// replacing stale copies already in it.
func mergeChanged(changed, flagged []domain.Entry, notes []domain.Notification) []domain.Entry {
	byID := make(map[string]int, len(flagged))
	for i := range flagged {
		byID[flagged[i].ID] = i
	}

	out := slices.Clone(changed)
	for _, n := range notes {
		if n.EntryID == nil {
			continue
		}
		e := flagged[byID[*n.EntryID]]
		if i := slices.IndexFunc(out, func(c domain.Entry) bool { return c.ID == e.ID }); i >= 0 {
			out[i] = e
		} else {
			out = append(out, e)
		}
	}
	return out
}

func recordLibrarySize(library []domain.Entry) {
	var movies, series int
	for i := range library {
		if library[i].Type == domain.MediaSeries {
			series++
		} else {
			movies++
		}
	}
	metrics.SetLibrarySize(movies, series)
}

// indexOf returns the position of id in the current snapshot, or -1.
func (s *LibraryService) indexOf(id string) int {
	return slices.IndexFunc(s.library, func(e domain.Entry) bool { return e.ID == id })
}
