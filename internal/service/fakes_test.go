package service

import (
	"context"
	"sync"

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/metadata/tmdb"
	"github.com/HO1806/reeltrack/internal/remote"
)

// fakeMetadata serves canned search results and metadata.
type fakeMetadata struct {
	mu        sync.Mutex
	results   map[string][]tmdb.SearchResult
	metadata  map[int]*tmdb.Metadata
	related   []tmdb.Related
	searchErr error
	searches  []string
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{
		results:  make(map[string][]tmdb.SearchResult),
		metadata: make(map[int]*tmdb.Metadata),
	}
}

func (f *fakeMetadata) Configured() bool { return true }

func (f *fakeMetadata) SearchMulti(_ context.Context, query string) ([]tmdb.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results[query], nil
}

func (f *fakeMetadata) Metadata(_ context.Context, id int, _ tmdb.Kind) (*tmdb.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	md, ok := f.metadata[id]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	c := *md
	return &c, nil
}

func (f *fakeMetadata) FindAndEnrich(ctx context.Context, title string, mediaType domain.MediaType) (*tmdb.Metadata, error) {
	results, err := f.SearchMulti(ctx, title)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Kind == tmdb.KindFor(mediaType) {
			return f.Metadata(ctx, r.ID, r.Kind)
		}
	}
	return nil, tmdb.ErrNoMatch
}

func (f *fakeMetadata) Similar(context.Context, int, tmdb.Kind) ([]tmdb.Related, error) {
	return f.related, nil
}

func (f *fakeMetadata) Recommendations(context.Context, int, tmdb.Kind) ([]tmdb.Related, error) {
	return f.related, nil
}

func matrixMetadata() *tmdb.Metadata {
	return &tmdb.Metadata{
		Title:        "The Matrix",
		Year:         1999,
		Type:         domain.MediaMovie,
		Genres:       []string{"Action", "Science Fiction"},
		Director:     "Lana Wachowski",
		Runtime:      136,
		TMDbID:       603,
		IMDbID:       "tt0133093",
		Popularity:   80,
		StreamingURL: "stremio:///detail/movie/tt0133093",
	}
}

// fakeSuggester returns fixed suggestions.
type fakeSuggester struct {
	suggestions []domain.Suggestion
	err         error
	seen        int
}

func (f *fakeSuggester) Configured() bool { return true }

func (f *fakeSuggester) Suggest(_ context.Context, library []domain.Entry) ([]domain.Suggestion, error) {
	f.seen = len(library)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Suggestion, len(f.suggestions))
	copy(out, f.suggestions)
	return out, nil
}

// fakeMirror is an in-memory mirror with the same push-missing, re-read
// behaviour as remote.Client.
type fakeMirror struct {
	mu        sync.Mutex
	remote    []domain.Entry
	err       error
	updateErr error
	calls     int
	updates   []string
	deletes   []string
}

func (f *fakeMirror) Configured() bool { return true }

func (f *fakeMirror) Sync(_ context.Context, local []domain.Entry) remote.SyncResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return remote.SyncResult{Entries: local, Err: f.err}
	}

	known := make(map[string]bool, len(f.remote))
	for _, e := range f.remote {
		known[e.ID] = true
	}
	var pushed []string
	for _, e := range local {
		if !known[e.ID] {
			f.remote = append(f.remote, e)
			pushed = append(pushed, e.ID)
		}
	}
	return remote.SyncResult{Entries: domain.CloneLibrary(f.remote), Pushed: len(pushed), PushedIDs: pushed}
}

func (f *fakeMirror) Update(_ context.Context, id string, e domain.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, id)
	for i := range f.remote {
		if f.remote[i].ID == id {
			f.remote[i] = e.Clone()
			return nil
		}
	}
	f.remote = append(f.remote, e.Clone())
	return nil
}

func (f *fakeMirror) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	for i := range f.remote {
		if f.remote[i].ID == id {
			f.remote = append(f.remote[:i], f.remote[i+1:]...)
			return nil
		}
	}
	return &remote.StatusError{Op: "delete", Status: 404}
}

// Get returns the mirror's copy of id.
func (f *fakeMirror) Get(id string) (domain.Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.remote {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return domain.Entry{}, false
}

func (f *fakeMirror) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeEmitter records emitted library events.
type fakeEmitter struct {
	mu       sync.Mutex
	versions []uint64
	notes    []domain.Notification
}

func (f *fakeEmitter) LibraryChanged(version uint64, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions = append(f.versions, version)
}

func (f *fakeEmitter) NotificationCreated(n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, n)
}

func (f *fakeEmitter) Versions() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint64(nil), f.versions...)
}

func (f *fakeEmitter) Notes() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Notification(nil), f.notes...)
}
