package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/metadata/tmdb"
	"github.com/HO1806/reeltrack/internal/validation"
	"github.com/HO1806/reeltrack/internal/watcher"
)

func setupTestImport(t *testing.T, md MetadataProvider) (*ImportService, *testLibrary) {
	t.Helper()
	tl := setupTestLibrary(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewImportService(tl.svc, md, validation.New(), logger), tl
}

func findByTitle(lib []domain.Entry, title string) (domain.Entry, bool) {
	for _, e := range lib {
		if e.Title == title {
			return e, true
		}
	}
	return domain.Entry{}, false
}

func TestImportService_Import(t *testing.T) {
	md := newFakeMetadata()
	md.results["The Matrix"] = []tmdb.SearchResult{{ID: 603, Kind: tmdb.KindMovie, Title: "The Matrix"}}
	md.results["Dune"] = []tmdb.SearchResult{
		{ID: 1, Kind: tmdb.KindTV, Title: "Dune"},
		{ID: 438631, Kind: tmdb.KindMovie, Title: "Dune: Part One"},
	}
	md.results["Unknown Film"] = []tmdb.SearchResult{{ID: 5, Kind: tmdb.KindMovie, Title: "Other Film"}}
	md.metadata[603] = matrixMetadata()
	md.metadata[438631] = &tmdb.Metadata{
		Title:        "Dune: Part One",
		Year:         2021,
		Type:         domain.MediaMovie,
		TMDbID:       438631,
		IMDbID:       "tt1160419",
		StreamingURL: "stremio:///detail/movie/tt1160419",
	}

	svc, tl := setupTestImport(t, md)
	ctx := context.Background()

	heat := domain.NewEntry("", domain.MediaMovie, "Heat", time.Time{})
	heat.IMDbID = "tt0113277"
	_, err := tl.svc.Add(ctx, heat)
	require.NoError(t, err)

	result, err := svc.Import(ctx, domain.StremioImport{
		Source: "stremio",
		Items: []domain.StremioItem{
			{IMDbID: "tt0113277", Title: "Heat (1995)", Type: domain.MediaMovie},
			{IMDbID: "tt0133093", Title: "The Matrix", Type: domain.MediaMovie, Status: domain.StatusWatched},
			{Title: "Dune", Type: domain.MediaMovie},
			{IMDbID: "tt9999999", Title: "Unknown Film", Type: domain.MediaMovie},
			{Title: "the matrix!!", Type: domain.MediaMovie},
			{Title: "Nameless", Type: domain.MediaSeries},
		},
	})
	require.NoError(t, err)

	assert.Len(t, result.Added, 4)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 2, result.Unenriched)

	lib := tl.svc.Snapshot()
	require.Len(t, lib, 5)

	matrix, ok := findByTitle(lib, "The Matrix")
	require.True(t, ok)
	assert.Equal(t, 1999, matrix.Year)
	assert.Equal(t, 603, matrix.TMDbID)
	assert.Equal(t, domain.StatusWatched, matrix.Status)
	assert.Nil(t, matrix.DateWatched, "imported history carries no watch date")
	assert.Zero(t, tl.svc.Settings().CurrentStreak)
	assert.Equal(t, "stremio:///detail/movie/tt0133093", matrix.StreamingURL)

	dune, ok := findByTitle(lib, "Dune: Part One")
	require.True(t, ok, "without an IMDb id the first result of the right kind is used")
	assert.Equal(t, 2021, dune.Year)

	unknown, ok := findByTitle(lib, "Unknown Film")
	require.True(t, ok, "a known IMDb id needs an exact title match")
	assert.Zero(t, unknown.Year)
	assert.Equal(t, domain.StatusWantToWatch, unknown.Status)
	assert.Equal(t, "stremio:///detail/movie/tt9999999", unknown.StreamingURL)

	complete := notesOfType(t, tl, domain.NotificationImportComplete)
	require.Len(t, complete, 1)
	assert.Equal(t, "Import complete: 4 added, 2 skipped", complete[0].Message)

	assert.Len(t, notesOfType(t, tl, domain.NotificationMissingMetadata), 2)
	assert.Len(t, notesOfType(t, tl, domain.NotificationMissingIMDbID), 1)
}

func TestImportService_Import_WithoutProvider(t *testing.T) {
	svc, tl := setupTestImport(t, nil)

	result, err := svc.Import(context.Background(), domain.StremioImport{
		Items: []domain.StremioItem{{IMDbID: "tt0113277", Title: "Heat", Type: domain.MediaMovie}},
	})
	require.NoError(t, err)
	require.Len(t, result.Added, 1)
	assert.Zero(t, result.Unenriched)
	assert.Equal(t, "Heat", tl.svc.Snapshot()[0].Title)
	assert.Empty(t, notesOfType(t, tl, domain.NotificationMissingMetadata))
}

func TestImportService_Import_ProviderFailureKeepsSkeleton(t *testing.T) {
	md := newFakeMetadata()
	md.searchErr = tmdb.ErrServer
	svc, tl := setupTestImport(t, md)

	result, err := svc.Import(context.Background(), domain.StremioImport{
		Items: []domain.StremioItem{{IMDbID: "tt0113277", Title: "Heat", Type: domain.MediaMovie}},
	})
	require.NoError(t, err)
	assert.Len(t, result.Added, 1)
	assert.Equal(t, 1, result.Unenriched)
	assert.Len(t, tl.svc.Snapshot(), 1)
}

func TestImportService_Import_Invalid(t *testing.T) {
	svc, tl := setupTestImport(t, nil)

	_, err := svc.Import(context.Background(), domain.StremioImport{
		Items: []domain.StremioItem{
			{Title: "Heat", Type: domain.MediaMovie},
			{Title: "Some Book", Type: "book"},
		},
	})
	requireCode(t, err, domainerrors.CodeValidation)
	assert.Empty(t, tl.svc.Snapshot(), "a malformed import writes nothing")
}

func TestImportService_ImportFile(t *testing.T) {
	svc, tl := setupTestImport(t, nil)
	dir := t.TempDir()

	good := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"source":"stremio","items":[{"imdb_id":"tt0113277","title":"Heat","type":"movie"}]}`), 0o644))

	result, err := svc.ImportFile(context.Background(), good)
	require.NoError(t, err)
	assert.Len(t, result.Added, 1)
	assert.Len(t, tl.svc.Snapshot(), 1)

	bad := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"items": [`), 0o644))

	_, err = svc.ImportFile(context.Background(), bad)
	requireCode(t, err, domainerrors.CodeValidation)
}

func TestImportService_RunWatcher(t *testing.T) {
	svc, tl := setupTestImport(t, nil)
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "early.json"),
		[]byte(`{"items":[{"title":"Heat","type":"movie"}]}`), 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := watcher.New(logger, watcher.Options{SettleDelay: 50 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.RunWatcher(ctx, w, dir) }()

	require.Eventually(t, func() bool {
		return len(tl.svc.Snapshot()) == 1
	}, 5*time.Second, 20*time.Millisecond)
	assert.FileExists(t, filepath.Join(dir, "processed", "early.json"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`nope`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.json"),
		[]byte(`{"items":[{"title":"Alien","type":"movie"}]}`), 0o644))

	require.Eventually(t, func() bool {
		return len(tl.svc.Snapshot()) == 2
	}, 5*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "failed", "broken.json"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
