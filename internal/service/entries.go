package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/metrics"
	"github.com/HO1806/reeltrack/internal/notify"
	"github.com/HO1806/reeltrack/internal/picker"
	"github.com/HO1806/reeltrack/internal/scoring"
)

// lastAutoEpisode is the episode after which progress asks to roll into the
// next season instead of counting on.
const lastAutoEpisode = 10

// AddResult is the outcome of an add. A duplicate is a normal outcome, not
// an error: Duplicate is set, Entry is zero and Notification describes it.
type AddResult struct {
	Entry        domain.Entry         `json:"entry,omitzero"`
	Duplicate    bool                 `json:"duplicate"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

// ScoredEntry pairs an entry with its current Smart Score.
type ScoredEntry struct {
	domain.Entry
	SmartScore float64 `json:"smartScore"`
}

// List returns the filtered library in the given order, each entry with
// its Smart Score. An empty sort uses the settings' default.
func (s *LibraryService) List(filter domain.EntryFilter, sortBy domain.SortMode) []ScoredEntry {
	s.mu.RLock()
	library, settings := s.library, s.settings
	s.mu.RUnlock()

	if sortBy == "" {
		sortBy = settings.DefaultSort
	}

	now := s.now()
	sorted := scoring.Sort(filter.Filter(library), library, sortBy, now)
	scorer := scoring.NewScorer(library, now)

	out := make([]ScoredEntry, len(sorted))
	for i, e := range sorted {
		out[i] = ScoredEntry{Entry: e, SmartScore: scorer.Score(e)}
	}
	return out
}

// Get returns one entry.
func (s *LibraryService) Get(id string) (domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Entry{}, domainerrors.NotFoundf("entry %s not found", id)
	}
	return s.library[i].Clone(), nil
}

// Score returns the Smart Score of one entry against the current library.
func (s *LibraryService) Score(id string) (float64, error) {
	s.mu.RLock()
	library := s.library
	s.mu.RUnlock()

	i := slices.IndexFunc(library, func(e domain.Entry) bool { return e.ID == id })
	if i < 0 {
		return 0, domainerrors.NotFoundf("entry %s not found", id)
	}
	return scoring.SmartScore(library[i], library, s.now()), nil
}

// GenreAverages returns the mean overall rating per genre, highest first.
func (s *LibraryService) GenreAverages() []domain.GenreAverage {
	return scoring.GenreBreakdown(s.Snapshot())
}

// Add creates an entry. Missing id, dateAdded and list fields are filled
// in and overall is derived from any sub-scores. The watch date is left
// as given, so adding never moves the streak. When the
// title and year collide with an existing entry nothing is added and a
// DUPLICATE_DETECTED notification is stored instead.
func (s *LibraryService) Add(ctx context.Context, e domain.Entry) (AddResult, error) {
	if err := validateEntry(&e); err != nil {
		return AddResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if n, dup := notify.Duplicate(e.Title, e.Year, s.library, now, s.newNoteID); dup {
		if err := s.store.AddNotifications(ctx, n); err != nil {
			return AddResult{}, err
		}
		metrics.RecordNotification(string(n.Type))
		if s.events != nil {
			s.events.NotificationCreated(n)
		}
		s.logger.Info("duplicate add rejected", "title", e.Title, "year", e.Year)
		return AddResult{Duplicate: true, Notification: &n}, nil
	}

	e.Rating = e.Rating.Consistent()
	s.prepareNew(&e, now)
	if err := s.commitLocked(ctx, prepend(s.library, e), []domain.Entry{e}, nil, nil); err != nil {
		return AddResult{}, err
	}
	s.logger.Info("entry added", "entry_id", e.ID, "title", e.Title, "type", e.Type)

	added, _ := s.current(e.ID)
	go s.notifyListeners()
	return AddResult{Entry: added}, nil
}

// AddMany appends new entries in one commit along with any notifications the
// caller produced. Entries are assumed already checked for collisions.
func (s *LibraryService) AddMany(ctx context.Context, entries []domain.Entry, notes []domain.Notification) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	fresh := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		s.prepareNew(&e, now)
		fresh = append(fresh, e)
	}

	next := make([]domain.Entry, 0, len(fresh)+len(s.library))
	next = append(next, fresh...)
	next = append(next, s.library...)

	if err := s.commitLocked(ctx, next, fresh, nil, notes); err != nil {
		return nil, err
	}
	go s.notifyListeners()
	return fresh, nil
}

// Upsert creates or fully replaces an entry by id, without the duplicate
// check. Used by the legacy mirror routes.
func (s *LibraryService) Upsert(ctx context.Context, e domain.Entry) error {
	if err := validateEntry(&e); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = s.newEntryID()
	}
	if e.DateAdded.IsZero() {
		e.DateAdded = s.now()
	}
	e.Normalize()

	var next []domain.Entry
	if i := s.indexOf(e.ID); i >= 0 {
		next = replaceAt(s.library, i, e)
	} else {
		next = prepend(s.library, e)
	}
	if err := s.commitLocked(ctx, next, []domain.Entry{e}, nil, nil); err != nil {
		return err
	}
	go s.notifyListeners()
	return nil
}

// Replace overwrites an existing entry with e, keeping its id and, when e
// has none, its dateAdded. Once the unrated notice has fired for an entry
// it stays fired.
func (s *LibraryService) Replace(ctx context.Context, id string, e domain.Entry) (domain.Entry, error) {
	if err := validateEntry(&e); err != nil {
		return domain.Entry{}, err
	}
	return s.update(ctx, id, func(cur *domain.Entry) error {
		dateAdded := cur.DateAdded
		notified := cur.NotifiedUnrated
		*cur = e.Clone()
		cur.ID = id
		cur.NotifiedUnrated = cur.NotifiedUnrated || notified
		if cur.DateAdded.IsZero() {
			cur.DateAdded = dateAdded
		}
		cur.Normalize()
		return nil
	})
}

// Delete removes an entry.
func (s *LibraryService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domainerrors.NotFoundf("entry %s not found", id)
	}

	next := slices.Concat(s.library[:i], s.library[i+1:])
	if err := s.commitLocked(ctx, next, nil, []string{id}, nil); err != nil {
		return err
	}
	s.logger.Info("entry deleted", "entry_id", id)
	go s.notifyListeners()
	return nil
}

// SetSubRatings sets story, acting and visuals and recomputes overall as
// their mean (nil when all three are nil).
func (s *LibraryService) SetSubRatings(ctx context.Context, id string, story, acting, visuals *float64) (domain.Entry, error) {
	for _, v := range []*float64{story, acting, visuals} {
		if err := checkScore(v); err != nil {
			return domain.Entry{}, err
		}
	}
	return s.update(ctx, id, func(e *domain.Entry) error {
		e.Rating = e.Rating.WithSubScores(story, acting, visuals)
		return nil
	})
}

// QuickRate sets the overall rating directly and leaves sub-ratings alone.
func (s *LibraryService) QuickRate(ctx context.Context, id string, overall float64) (domain.Entry, error) {
	if err := checkScore(&overall); err != nil {
		return domain.Entry{}, err
	}
	return s.update(ctx, id, func(e *domain.Entry) error {
		e.Rating = e.Rating.WithOverall(&overall)
		return nil
	})
}

// ToggleWatched flips between watched (stamped with now) and want_to_watch
// (watch date cleared).
func (s *LibraryService) ToggleWatched(ctx context.Context, id string) (domain.Entry, error) {
	return s.update(ctx, id, func(e *domain.Entry) error {
		if e.IsWatched() {
			e.Status = domain.StatusWantToWatch
			e.DateWatched = nil
			return nil
		}
		now := s.now()
		e.Status = domain.StatusWatched
		e.DateWatched = &now
		return nil
	})
}

// ToggleFavorite flips the favorite flag.
func (s *LibraryService) ToggleFavorite(ctx context.Context, id string) (domain.Entry, error) {
	return s.update(ctx, id, func(e *domain.Entry) error {
		e.IsFavorite = !e.IsFavorite
		return nil
	})
}

// TogglePin flips the pinned flag.
func (s *LibraryService) TogglePin(ctx context.Context, id string) (domain.Entry, error) {
	return s.update(ctx, id, func(e *domain.Entry) error {
		e.IsPinned = !e.IsPinned
		return nil
	})
}

// UpdateEpisode moves episode progress by delta. Progress never drops below
// episode 1. Past episode 10 it either rolls into episode 1 of the next
// season (startNextSeason) or stays at 10.
func (s *LibraryService) UpdateEpisode(ctx context.Context, id string, delta int, startNextSeason bool) (domain.Entry, error) {
	return s.update(ctx, id, func(e *domain.Entry) error {
		if e.Type != domain.MediaSeries {
			return domainerrors.Validation("episode progress only applies to series")
		}
		ep := e.CurrentEpisode + delta
		if ep < 1 {
			ep = 1
		}
		if ep > lastAutoEpisode {
			if startNextSeason {
				e.CurrentSeason++
				ep = 1
			} else {
				ep = lastAutoEpisode
			}
		}
		e.CurrentEpisode = ep
		return nil
	})
}

// Pick draws a weighted random unwatched entry of mediaType and returns it
// with the candidate pool it was drawn from.
func (s *LibraryService) Pick(mediaType domain.MediaType) (picker.Candidate, []picker.Candidate, error) {
	if !mediaType.Valid() {
		return picker.Candidate{}, nil, domainerrors.Validationf("unknown media type %q", mediaType)
	}

	library := s.Snapshot()
	cands := picker.Candidates(mediaType, library, s.now())

	s.rngMu.Lock()
	got, err := picker.Draw(cands, s.rng)
	s.rngMu.Unlock()

	metrics.RecordPick(string(mediaType), err)
	if err != nil {
		return picker.Candidate{}, nil, domainerrors.NotFoundf("your %s watchlist is empty", mediaType)
	}
	return got, cands, nil
}

// update applies fn to a clone of entry id and commits the result.
func (s *LibraryService) update(ctx context.Context, id string, fn func(e *domain.Entry) error) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Entry{}, domainerrors.NotFoundf("entry %s not found", id)
	}

	e := s.library[i].Clone()
	if err := fn(&e); err != nil {
		return domain.Entry{}, err
	}

	if err := s.commitLocked(ctx, replaceAt(s.library, i, e), []domain.Entry{e}, nil, nil); err != nil {
		return domain.Entry{}, err
	}

	out, _ := s.current(id)
	go s.notifyListeners()
	return out, nil
}

// current returns a clone of entry id from the committed snapshot. s.mu must be held.
func (s *LibraryService) current(id string) (domain.Entry, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Entry{}, false
	}
	return s.library[i].Clone(), true
}

func (s *LibraryService) prepareNew(e *domain.Entry, now time.Time) {
	if e.ID == "" {
		e.ID = s.newEntryID()
	}
	if e.DateAdded.IsZero() {
		e.DateAdded = now
	}
	if e.StreamingURL == "" {
		e.StreamingURL = domain.StremioURL(e.Type, e.IMDbID)
	}
	e.Normalize()
}

func validateEntry(e *domain.Entry) error {
	e.Title = strings.TrimSpace(e.Title)
	details := map[string]string{}
	if e.Title == "" {
		details["title"] = "title is required"
	}
	if !e.Type.Valid() {
		details["type"] = "must be one of: movie series"
	}
	if e.Status != "" && !e.Status.Valid() {
		details["status"] = "must be one of: want_to_watch watching watched dropped"
	}
	for field, v := range map[string]*float64{
		"rating.story":   e.Rating.Story,
		"rating.acting":  e.Rating.Acting,
		"rating.visuals": e.Rating.Visuals,
		"rating.overall": e.Rating.Overall,
	} {
		if checkScore(v) != nil {
			details[field] = "must be between 0 and 10"
		}
	}
	if len(details) > 0 {
		return domainerrors.ValidationWithDetails("invalid entry", details)
	}
	return nil
}

func checkScore(v *float64) error {
	if v != nil && (*v < 0 || *v > 10) {
		return domainerrors.Validationf("rating %g is outside 0-10", *v)
	}
	return nil
}

func prepend(library []domain.Entry, e domain.Entry) []domain.Entry {
	next := make([]domain.Entry, 0, len(library)+1)
	next = append(next, e)
	return append(next, library...)
}

func replaceAt(library []domain.Entry, i int, e domain.Entry) []domain.Entry {
	next := slices.Clone(library)
	next[i] = e
	return next
}
