package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/search"
	"github.com/HO1806/reeltrack/internal/service"
	"github.com/HO1806/reeltrack/internal/store/sqlite"
	"github.com/HO1806/reeltrack/internal/validation"
)

var testNow = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api     humatest.TestAPI
	library *service.LibraryService
}

// testEnvelope mirrors Envelope with raw data for decoding responses.
type testEnvelope struct {
	Version int             `json:"v"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details json.RawMessage `json:"details"`
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	st.SetSearchIndexer(index)

	n := 0
	library := service.NewLibraryService(st, logger, service.LibraryOptions{
		Now: func() time.Time { return testNow },
		NewEntryID: func() string {
			n++
			return fmt.Sprintf("entry-%d", n)
		},
		Rand: rand.New(rand.NewPCG(7, 11)),
	})
	require.NoError(t, library.Load(context.Background()))

	services := &Services{
		Library: library,
		Import:  service.NewImportService(library, nil, validation.New(), logger),
		Search:  service.NewSearchService(index, library, logger),
	}

	s := NewServer(st, services, Options{}, logger)

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.api),
		library: library,
	}
}

func decodeEnvelope(t *testing.T, body []byte) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	return env
}

func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()
	env := decodeEnvelope(t, body)
	require.True(t, env.Success, "expected success, got %s", body)

	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func (ts *testServer) createEntry(t *testing.T, mediaType, title string, year int) domain.Entry {
	t.Helper()
	resp := ts.api.Post("/api/v1/entries", map[string]any{
		"type":  mediaType,
		"title": title,
		"year":  year,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeData[domain.Entry](t, resp.Body.Bytes())
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decodeData[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, "mirror disabled", health.Components["mirror"].Message)
	assert.Equal(t, "event stream disabled", health.Components["events"].Message)
}

func TestCreateEntry(t *testing.T) {
	ts := setupTestServer(t)

	e := ts.createEntry(t, "movie", "Heat", 1995)
	assert.Equal(t, "entry-1", e.ID)
	assert.Equal(t, domain.StatusWantToWatch, e.Status)
	assert.Equal(t, testNow, e.DateAdded.UTC())

	resp := ts.api.Get("/api/v1/entries/" + e.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeData[domain.Entry](t, resp.Body.Bytes())
	assert.Equal(t, "Heat", got.Title)
}

func TestCreateAndReplaceEntry_DeriveOverall(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/entries", map[string]any{
		"type":   "movie",
		"title":  "Heat",
		"year":   1995,
		"rating": map[string]any{"story": 8, "acting": 6, "overall": 2},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decodeData[domain.Entry](t, resp.Body.Bytes())
	require.NotNil(t, created.Rating.Overall)
	assert.InDelta(t, 7.0, *created.Rating.Overall, 1e-9)

	resp = ts.api.Put("/api/v1/entries/"+created.ID, map[string]any{
		"type":   "movie",
		"title":  "Heat",
		"year":   1995,
		"rating": map[string]any{"visuals": 10, "overall": 1},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	replaced := decodeData[domain.Entry](t, resp.Body.Bytes())
	require.NotNil(t, replaced.Rating.Overall)
	assert.InDelta(t, 10.0, *replaced.Rating.Overall, 1e-9)
}

func TestCreateEntry_Duplicate(t *testing.T) {
	ts := setupTestServer(t)
	ts.createEntry(t, "movie", "The Matrix", 1999)

	resp := ts.api.Post("/api/v1/entries", map[string]any{
		"type":  "movie",
		"title": "the   MATRIX!!",
		"year":  1999,
	})
	require.Equal(t, http.StatusConflict, resp.Code)

	env := decodeEnvelope(t, resp.Body.Bytes())
	assert.False(t, env.Success)
	assert.Equal(t, "DUPLICATE", env.Code)

	var note domain.Notification
	require.NoError(t, json.Unmarshal(env.Details, &note))
	assert.Equal(t, domain.NotificationDuplicateDetected, note.Type)

	// A different year is a different title.
	ts.createEntry(t, "movie", "The Matrix", 2003)
	assert.Len(t, ts.library.Snapshot(), 2)
}

func TestCreateEntry_Invalid(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/entries", map[string]any{
		"type":  "book",
		"title": "Dune",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	env := decodeEnvelope(t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", env.Code)

	resp = ts.api.Post("/api/v1/entries", map[string]any{
		"type":  "movie",
		"title": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, ts.library.Snapshot())
}

func TestGetEntry_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/entries/missing")
	require.Equal(t, http.StatusNotFound, resp.Code)
	env := decodeEnvelope(t, resp.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, 1, env.Version)
}

func TestRateEntry(t *testing.T) {
	ts := setupTestServer(t)
	e := ts.createEntry(t, "movie", "Heat", 1995)

	resp := ts.api.Put("/api/v1/entries/"+e.ID+"/rating", map[string]any{
		"story":  8,
		"acting": 6,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	got := decodeData[domain.Entry](t, resp.Body.Bytes())
	require.NotNil(t, got.Rating.Overall)
	assert.InDelta(t, 7.0, *got.Rating.Overall, 1e-9)
	assert.Nil(t, got.Rating.Visuals)

	resp = ts.api.Post("/api/v1/entries/"+e.ID+"/quick-rate", map[string]any{"overall": 9.5})
	require.Equal(t, http.StatusOK, resp.Code)
	got = decodeData[domain.Entry](t, resp.Body.Bytes())
	assert.InDelta(t, 9.5, *got.Rating.Overall, 1e-9)

	resp = ts.api.Post("/api/v1/entries/"+e.ID+"/quick-rate", map[string]any{"overall": 11})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestToggleWatched_UnratedNotification(t *testing.T) {
	ts := setupTestServer(t)
	e := ts.createEntry(t, "movie", "Heat", 1995)

	resp := ts.api.Post("/api/v1/entries/" + e.ID + "/toggle-watched")
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeData[domain.Entry](t, resp.Body.Bytes())
	assert.Equal(t, domain.StatusWatched, got.Status)
	require.NotNil(t, got.DateWatched)

	resp = ts.api.Get("/api/v1/notifications")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decodeData[ListNotificationsResponse](t, resp.Body.Bytes())
	require.NotEmpty(t, list.Notifications)
	assert.Equal(t, 1, list.Unread)

	var unrated *domain.Notification
	for i := range list.Notifications {
		if list.Notifications[i].Type == domain.NotificationUnratedWatched {
			unrated = &list.Notifications[i]
		}
	}
	require.NotNil(t, unrated)
	require.NotNil(t, unrated.EntryID)
	assert.Equal(t, e.ID, *unrated.EntryID)

	resp = ts.api.Post("/api/v1/notifications/" + unrated.ID + "/read")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notifications")
	list = decodeData[ListNotificationsResponse](t, resp.Body.Bytes())
	assert.Equal(t, 0, list.Unread)

	resp = ts.api.Post("/api/v1/notifications/nope/read")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/notifications")
	require.Equal(t, http.StatusOK, resp.Code)
	resp = ts.api.Get("/api/v1/notifications")
	list = decodeData[ListNotificationsResponse](t, resp.Body.Bytes())
	assert.Empty(t, list.Notifications)
}

func TestUpdateEpisode(t *testing.T) {
	ts := setupTestServer(t)
	show := ts.createEntry(t, "series", "The Expanse", 2015)
	movie := ts.createEntry(t, "movie", "Heat", 1995)

	resp := ts.api.Post("/api/v1/entries/"+show.ID+"/episode", map[string]any{"delta": 12, "startNextSeason": true})
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeData[domain.Entry](t, resp.Body.Bytes())
	assert.Equal(t, 2, got.CurrentSeason)
	assert.Equal(t, 1, got.CurrentEpisode)

	resp = ts.api.Post("/api/v1/entries/"+movie.ID+"/episode", map[string]any{"delta": 1})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListEntries(t *testing.T) {
	ts := setupTestServer(t)
	ts.createEntry(t, "movie", "Zodiac", 2007)
	ts.createEntry(t, "movie", "Alien", 1979)
	ts.createEntry(t, "series", "Dark", 2017)

	resp := ts.api.Get("/api/v1/entries?type=movie&sort=title")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decodeData[ListEntriesResponse](t, resp.Body.Bytes())
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "Alien", list.Entries[0].Title)
	assert.Equal(t, "Zodiac", list.Entries[1].Title)
	assert.Positive(t, list.Entries[0].SmartScore)

	resp = ts.api.Get("/api/v1/entries?sort=bogus")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPick(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/pick", map[string]any{"type": "movie"})
	require.Equal(t, http.StatusNotFound, resp.Code)

	ts.createEntry(t, "movie", "Heat", 1995)

	resp = ts.api.Post("/api/v1/pick", map[string]any{"type": "movie"})
	require.Equal(t, http.StatusOK, resp.Code)
	pick := decodeData[PickResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Heat", pick.Pick.Entry.Title)
	require.Len(t, pick.Pool, 1)
	assert.GreaterOrEqual(t, pick.Pool[0].Slots, 1)
}

func TestSettings(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/settings")
	require.Equal(t, http.StatusOK, resp.Code)
	settings := decodeData[domain.Settings](t, resp.Body.Bytes())
	assert.Equal(t, domain.SortSmartScore, settings.DefaultSort)
	assert.True(t, settings.ShowPosters)
	assert.Contains(t, resp.Body.String(), `"lastWatchedDate":null`)

	resp = ts.api.Patch("/api/v1/settings", map[string]any{"defaultSort": "title", "showPosters": false})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	settings = decodeData[domain.Settings](t, resp.Body.Bytes())
	assert.Equal(t, domain.SortTitle, settings.DefaultSort)
	assert.False(t, settings.ShowPosters)

	resp = ts.api.Patch("/api/v1/settings", map[string]any{"defaultSort": "random"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestImport(t *testing.T) {
	ts := setupTestServer(t)
	ts.createEntry(t, "movie", "Heat", 1995)

	resp := ts.api.Post("/api/v1/import", map[string]any{
		"source": "stremio",
		"items": []map[string]any{
			{"imdb_id": "tt0113277", "title": "HEAT", "type": "movie", "status": "watched"},
			{"imdb_id": "tt2092588", "title": "The Expanse", "type": "series"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decodeData[domain.ImportResult](t, resp.Body.Bytes())
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Added, 1)
	assert.Equal(t, "The Expanse", result.Added[0].Title)

	resp = ts.api.Post("/api/v1/import", map[string]any{
		"items": []map[string]any{{"title": "", "type": "movie"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSearch(t *testing.T) {
	ts := setupTestServer(t)
	ts.createEntry(t, "movie", "Heat", 1995)
	ts.createEntry(t, "series", "The Expanse", 2015)

	resp := ts.api.Get("/api/v1/search?q=expanse")
	require.Equal(t, http.StatusOK, resp.Code)
	result := decodeData[search.SearchResult](t, resp.Body.Bytes())
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "The Expanse", result.Hits[0].Title)
}

func TestStats(t *testing.T) {
	ts := setupTestServer(t)
	ts.createEntry(t, "movie", "Heat", 1995)
	ts.createEntry(t, "series", "Dark", 2017)

	resp := ts.api.Get("/api/v1/stats")
	require.Equal(t, http.StatusOK, resp.Code)
	stats := decodeData[domain.LibraryStats](t, resp.Body.Bytes())
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.Movies)
	assert.Equal(t, 1, stats.Series)
}

func TestUnconfiguredProviders(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{"/api/v1/suggestions", "/api/v1/metadata/search?q=heat"} {
		resp := ts.api.Get(path)
		assert.Equal(t, http.StatusServiceUnavailable, resp.Code, path)
		env := decodeEnvelope(t, resp.Body.Bytes())
		assert.Equal(t, "UNAVAILABLE", env.Code, path)
	}

	resp := ts.api.Post("/api/v1/sync")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestLegacyLibraryRoutes(t *testing.T) {
	ts := setupTestServer(t)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		ts.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/api/library", `{"id":"legacy-1","type":"movie","title":"Heat","year":1995,"status":"want_to_watch"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	// Upsert skips the duplicate rule.
	rec = do(http.MethodPost, "/api/library", `{"id":"legacy-2","type":"movie","title":"Heat","year":1995}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodGet, "/api/library", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []domain.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "legacy-2", entries[0].ID)

	rec = do(http.MethodPut, "/api/library/legacy-1", `{"type":"movie","title":"Heat (Director's Cut)","year":1995}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got, err := ts.library.Get("legacy-1")
	require.NoError(t, err)
	assert.Equal(t, "Heat (Director's Cut)", got.Title)

	rec = do(http.MethodPut, "/api/library/missing", `{"type":"movie","title":"Nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)

	rec = do(http.MethodPost, "/api/library", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodDelete, "/api/library/legacy-2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(http.MethodDelete, "/api/library/legacy-2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, ts.library.Snapshot(), 1)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	ts.createEntry(t, "movie", "Heat", 1995)

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reeltrack_library_entries")
}
