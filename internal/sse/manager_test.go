package sse

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HO1806/reeltrack/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case evt, ok := <-c.EventChan:
		require.True(t, ok, "client channel closed")
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestManager_ConnectDisconnect(t *testing.T) {
	m := NewManager(testLogger())

	c1, err := m.Connect()
	require.NoError(t, err)
	c2, err := m.Connect()
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Contains(t, c1.ID, "sse")
	assert.Equal(t, 2, m.ClientCount())

	m.Disconnect(c1.ID)
	assert.Equal(t, 1, m.ClientCount())

	_, open := <-c1.Done
	assert.False(t, open)

	// Unknown and repeated ids are ignored.
	m.Disconnect(c1.ID)
	m.Disconnect("nope")
	assert.Equal(t, 1, m.ClientCount())
}

func TestManager_BroadcastsLibraryEvents(t *testing.T) {
	m := NewManager(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	client, err := m.Connect()
	require.NoError(t, err)

	m.LibraryChanged(7, 3)
	evt := receive(t, client)
	assert.Equal(t, EventLibraryChanged, evt.Type)
	assert.Equal(t, LibraryChangedData{Version: 7, Entries: 3}, evt.Data)

	entryID := "e1"
	m.NotificationCreated(domain.Notification{
		ID:      "n1",
		Type:    domain.NotificationUnratedWatched,
		EntryID: &entryID,
	})
	evt = receive(t, client)
	assert.Equal(t, EventNotificationCreated, evt.Type)
	n, ok := evt.Data.(domain.Notification)
	require.True(t, ok)
	assert.Equal(t, "n1", n.ID)
}

func TestManager_StopClosesClients(t *testing.T) {
	m := NewManager(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(stopped)
	}()

	client, err := m.Connect()
	require.NoError(t, err)

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop")
	}

	_, open := <-client.Done
	assert.False(t, open)
	assert.Equal(t, 0, m.ClientCount())
}

func TestManager_ShutdownDrainsAndRejects(t *testing.T) {
	m := NewManager(testLogger())
	client, err := m.Connect()
	require.NoError(t, err)

	// Queued before shutdown, delivered by the drain.
	m.LibraryChanged(1, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))

	evt, ok := <-client.EventChan
	require.True(t, ok)
	assert.Equal(t, EventLibraryChanged, evt.Type)

	// Emitting after shutdown is a no-op, and a second shutdown is too.
	assert.NotPanics(t, func() { m.LibraryChanged(2, 2) })
	assert.NoError(t, m.Shutdown(ctx))
}

func TestManager_SlowClientDropsEvents(t *testing.T) {
	m := NewManager(testLogger())
	client, err := m.Connect()
	require.NoError(t, err)

	for i := 0; i < cap(client.EventChan)+10; i++ {
		m.broadcast(NewHeartbeatEvent())
	}
	assert.Len(t, client.EventChan, cap(client.EventChan))
}
