// Package store defines the persistence interface for the ReelTrack library.
package store

import (
	"context"
	"errors"

	"github.com/HO1806/reeltrack/internal/domain"
)

// Sentinel errors returned by Store implementations.
var (
	ErrEntryNotFound        = errors.New("entry not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Store is the durable Entry Store together with settings and notifications.
type Store interface {
	Close() error
	Ping(ctx context.Context) error
	SetSearchIndexer(indexer SearchIndexer)

	// Entries
	ListEntries(ctx context.Context) ([]domain.Entry, error)
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	UpsertEntry(ctx context.Context, e *domain.Entry) error
	UpdateEntry(ctx context.Context, e *domain.Entry) error
	DeleteEntry(ctx context.Context, id string) error
	SaveEntries(ctx context.Context, entries []domain.Entry) error

	// Settings
	GetSettings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, s domain.Settings) error

	// Notifications
	ListNotifications(ctx context.Context) ([]domain.Notification, error)
	AddNotifications(ctx context.Context, notes ...domain.Notification) error
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	ClearNotifications(ctx context.Context) error
}

// SearchIndexer keeps the search index in step with entry writes.
// Store implementations call it after a successful write; indexing failures
// are logged, never returned to the writer.
type SearchIndexer interface {
	IndexEntry(ctx context.Context, e *domain.Entry) error
	DeleteEntry(ctx context.Context, id string) error
}

// NoopSearchIndexer is a SearchIndexer that does nothing.
type NoopSearchIndexer struct{}

// IndexEntry is a no-op.
func (NoopSearchIndexer) IndexEntry(context.Context, *domain.Entry) error { return nil }

// DeleteEntry is a no-op.
func (NoopSearchIndexer) DeleteEntry(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a no-op search indexer.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}
