package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HO1806/reeltrack/internal/domain"
)

var added = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

// fakeMirror is an in-memory /api/library backend.
type fakeMirror struct {
	mu      sync.Mutex
	entries map[string]domain.Entry
	posts   int
	failGet bool
}

func (m *fakeMirror) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/library", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.failGet {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "db down"})
			return
		}
		out := make([]domain.Entry, 0, len(m.entries))
		for _, e := range m.entries {
			out = append(out, e)
		}
		json.NewEncoder(w).Encode(out)
	})
	r.Post("/api/library", func(w http.ResponseWriter, r *http.Request) {
		var e domain.Entry
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		m.mu.Lock()
		m.entries[e.ID] = e
		m.posts++
		m.mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	})
	r.Put("/api/library/{id}", func(w http.ResponseWriter, r *http.Request) {
		var e domain.Entry
		json.NewDecoder(r.Body).Decode(&e)
		m.mu.Lock()
		m.entries[chi.URLParam(r, "id")] = e
		m.mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	})
	r.Delete("/api/library/{id}", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		delete(m.entries, chi.URLParam(r, "id"))
		m.mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	})
	return r
}

func newTestClient(t *testing.T, m *fakeMirror) *Client {
	t.Helper()
	server := httptest.NewServer(m.router())
	t.Cleanup(server.Close)
	c := New(server.URL, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.http = server.Client()
	return c
}

func entry(id string) domain.Entry {
	return domain.NewEntry(id, domain.MediaMovie, "Title "+id, added)
}

func TestClient_CRUD(t *testing.T) {
	m := &fakeMirror{entries: map[string]domain.Entry{}}
	c := newTestClient(t, m)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, entry("a")))

	e := entry("a")
	e.Title = "Renamed"
	require.NoError(t, c.Update(ctx, "a", e))

	got, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Renamed", got[0].Title)
	assert.True(t, got[0].DateAdded.Equal(added))

	require.NoError(t, c.Delete(ctx, "a"))
	got, err = c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_StatusError(t *testing.T) {
	m := &fakeMirror{entries: map[string]domain.Entry{}, failGet: true}
	c := newTestClient(t, m)

	_, err := c.List(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Equal(t, "db down", se.Message)
	assert.False(t, IsNotFound(err))
}

func TestClient_IsNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)
	c := New(server.URL, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := c.Delete(context.Background(), "gone")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClient_NotConfigured(t *testing.T) {
	c := New("", 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.List(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSync_PushesMissingIDsOnly(t *testing.T) {
	shared := entry("shared")
	shared.Title = "Remote version"
	m := &fakeMirror{entries: map[string]domain.Entry{"shared": shared, "remote-only": entry("remote-only")}}
	c := newTestClient(t, m)

	localShared := entry("shared")
	localShared.Title = "Local version"
	local := []domain.Entry{localShared, entry("local-only")}

	res := c.Sync(context.Background(), local)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Pushed)
	assert.Equal(t, []string{"local-only"}, res.PushedIDs)
	assert.Equal(t, 1, m.posts)
	assert.Len(t, res.Entries, 3)

	for _, e := range res.Entries {
		if e.ID == "shared" {
			assert.Equal(t, "Remote version", e.Title, "entries on both sides are not compared")
		}
	}
}

func TestSync_FailureReturnsLocal(t *testing.T) {
	m := &fakeMirror{entries: map[string]domain.Entry{}, failGet: true}
	c := newTestClient(t, m)
	local := []domain.Entry{entry("a")}

	res := c.Sync(context.Background(), local)
	require.Error(t, res.Err)
	assert.Equal(t, local, res.Entries)
	assert.Zero(t, m.posts)
}
