// Package sse implements Server-Sent Events for live library updates.
package sse

import (
	"time"

	"github.com/HO1806/reeltrack/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventLibraryChanged is sent after every committed library mutation.
	EventLibraryChanged EventType = "library.changed"
	// EventNotificationCreated carries a newly stored notification.
	EventNotificationCreated EventType = "notification.created"
	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// LibraryChangedData tells clients which library version to expect on
// their next read.
type LibraryChangedData struct {
	Version uint64 `json:"version"`
	Entries int    `json:"entries"`
}

// NewLibraryChangedEvent creates a library.changed event.
func NewLibraryChangedEvent(version uint64, entries int) Event {
	return Event{
		Type:      EventLibraryChanged,
		Timestamp: time.Now(),
		Data:      LibraryChangedData{Version: version, Entries: entries},
	}
}

// NewNotificationEvent creates a notification.created event.
func NewNotificationEvent(n domain.Notification) Event {
	return Event{
		Type:      EventNotificationCreated,
		Timestamp: time.Now(),
		Data:      n,
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
		Data:      struct{}{},
	}
}
