package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/remote"
)

func TestSyncService_SyncNow(t *testing.T) {
	tl := setupTestLibrary(t)
	local := tl.add(t, domain.MediaMovie, "Heat", 1995)

	remoteOnly := domain.NewEntry("r-1", domain.MediaSeries, "The Expanse", testStart)
	mirror := &fakeMirror{remote: []domain.Entry{remoteOnly}}
	svc := NewSyncService(tl.svc, mirror, time.Hour, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	res, err := svc.SyncNow(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Pushed)

	lib := tl.svc.Snapshot()
	require.Len(t, lib, 2)
	_, ok := findByTitle(lib, "The Expanse")
	assert.True(t, ok, "mirror entries are pulled in")

	stored, err := tl.store.GetEntry(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, "The Expanse", stored.Title)

	// Nothing new to push on the second pass.
	res, err = svc.SyncNow(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Pushed)
	assert.Equal(t, local.ID, mirror.remote[1].ID)
	assert.Empty(t, mirror.updates, "pushed and merged entries are not sent back as edits")
}

func TestSyncService_LocalEditsSurviveSync(t *testing.T) {
	tl := setupTestLibrary(t)
	ctx := context.Background()
	heat := tl.add(t, domain.MediaMovie, "Heat", 1995)

	mirror := &fakeMirror{}
	svc := NewSyncService(tl.svc, mirror, time.Hour, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := svc.SyncNow(ctx)
	require.NoError(t, err)

	_, err = tl.svc.SetSubRatings(ctx, heat.ID, domain.Score(8), domain.Score(6), nil)
	require.NoError(t, err)

	for _, pass := range []func(context.Context) (remote.SyncResult, error){svc.Push, svc.SyncNow} {
		res, err := pass(ctx)
		require.NoError(t, err)
		require.NoError(t, res.Err)

		got, err := tl.svc.Get(heat.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Rating.Overall)
		assert.InDelta(t, 7.0, *got.Rating.Overall, 1e-9)
	}

	mirrored, ok := mirror.Get(heat.ID)
	require.True(t, ok)
	require.NotNil(t, mirrored.Rating.Overall)
	assert.InDelta(t, 7.0, *mirrored.Rating.Overall, 1e-9)
	assert.Equal(t, []string{heat.ID}, mirror.updates, "the edit is pushed once")
}

func TestSyncService_LocalDeletesArePushed(t *testing.T) {
	tl := setupTestLibrary(t)
	ctx := context.Background()
	alien := tl.add(t, domain.MediaMovie, "Alien", 1979)

	mirror := &fakeMirror{}
	svc := NewSyncService(tl.svc, mirror, time.Hour, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := svc.SyncNow(ctx)
	require.NoError(t, err)

	require.NoError(t, tl.svc.Delete(ctx, alien.ID))

	res, err := svc.SyncNow(ctx)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Deleted)

	_, err = tl.svc.Get(alien.ID)
	requireCode(t, err, domainerrors.CodeNotFound)
	_, ok := mirror.Get(alien.ID)
	assert.False(t, ok)
}

func TestSyncService_DeleteOfUnpushedEntry(t *testing.T) {
	tl := setupTestLibrary(t)
	ctx := context.Background()
	alien := tl.add(t, domain.MediaMovie, "Alien", 1979)
	require.NoError(t, tl.svc.Delete(ctx, alien.ID))

	mirror := &fakeMirror{}
	svc := NewSyncService(tl.svc, mirror, time.Hour, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	res, err := svc.SyncNow(ctx)
	require.NoError(t, err)
	require.NoError(t, res.Err, "a mirror that never had the entry is already in step")
	assert.Equal(t, []string{alien.ID}, mirror.deletes)

	_, deleted := tl.svc.TakePending()
	assert.Empty(t, deleted)
}

func TestSyncService_FailedUpdateIsRetried(t *testing.T) {
	tl := setupTestLibrary(t)
	ctx := context.Background()
	heat := tl.add(t, domain.MediaMovie, "Heat", 1995)

	mirror := &fakeMirror{}
	svc := NewSyncService(tl.svc, mirror, time.Hour, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := svc.SyncNow(ctx)
	require.NoError(t, err)

	_, err = tl.svc.ToggleFavorite(ctx, heat.ID)
	require.NoError(t, err)

	mirror.mu.Lock()
	mirror.updateErr = errors.New("connection reset")
	mirror.mu.Unlock()

	res, err := svc.Push(ctx)
	require.NoError(t, err)
	require.Error(t, res.Err)

	mirror.mu.Lock()
	mirror.updateErr = nil
	mirror.mu.Unlock()

	res, err = svc.Push(ctx)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Updated)

	mirrored, ok := mirror.Get(heat.ID)
	require.True(t, ok)
	assert.True(t, mirrored.IsFavorite)
}

func TestSyncService_FailureKeepsLocal(t *testing.T) {
	tl := setupTestLibrary(t)
	tl.add(t, domain.MediaMovie, "Heat", 1995)

	mirror := &fakeMirror{err: errors.New("connection refused")}
	svc := NewSyncService(tl.svc, mirror, time.Hour, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	res, err := svc.SyncNow(context.Background())
	require.NoError(t, err)
	require.Error(t, res.Err)
	assert.Len(t, tl.svc.Snapshot(), 1)
}

func TestSyncService_NotConfigured(t *testing.T) {
	tl := setupTestLibrary(t)
	svc := NewSyncService(tl.svc, nil, 0, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.False(t, svc.Enabled())
	_, err := svc.SyncNow(context.Background())
	requireCode(t, err, domainerrors.CodeUnavailable)
}

func TestSyncService_RunDebouncesChanges(t *testing.T) {
	tl := setupTestLibrary(t)
	mirror := &fakeMirror{}
	svc := NewSyncService(tl.svc, mirror, 50*time.Millisecond, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	require.Eventually(t, func() bool { return mirror.Calls() == 1 }, 2*time.Second, 10*time.Millisecond,
		"sync runs once at start")

	tl.add(t, domain.MediaMovie, "Heat", 1995)
	tl.add(t, domain.MediaMovie, "Alien", 1979)

	require.Eventually(t, func() bool {
		mirror.mu.Lock()
		defer mirror.mu.Unlock()
		return len(mirror.remote) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, mirror.Calls(), 2)
}
