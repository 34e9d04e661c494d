package service

import (
	"context"

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/metadata/gemini"
	"github.com/HO1806/reeltrack/internal/metadata/tmdb"
	"github.com/HO1806/reeltrack/internal/remote"
	"github.com/HO1806/reeltrack/internal/sse"
)

// MetadataProvider looks up titles and their details. *tmdb.Client implements it.
type MetadataProvider interface {
	Configured() bool
	SearchMulti(ctx context.Context, query string) ([]tmdb.SearchResult, error)
	Metadata(ctx context.Context, id int, kind tmdb.Kind) (*tmdb.Metadata, error)
	FindAndEnrich(ctx context.Context, title string, mediaType domain.MediaType) (*tmdb.Metadata, error)
	Similar(ctx context.Context, id int, kind tmdb.Kind) ([]tmdb.Related, error)
	Recommendations(ctx context.Context, id int, kind tmdb.Kind) ([]tmdb.Related, error)
}

// SuggestionProvider produces suggestions from the library's taste profile.
// *gemini.Client implements it.
type SuggestionProvider interface {
	Configured() bool
	Suggest(ctx context.Context, library []domain.Entry) ([]domain.Suggestion, error)
}

// Mirror is the remote copy of the library. *remote.Client implements it.
type Mirror interface {
	Configured() bool
	Sync(ctx context.Context, local []domain.Entry) remote.SyncResult
	Update(ctx context.Context, id string, e domain.Entry) error
	Delete(ctx context.Context, id string) error
}

// EventEmitter pushes committed library changes to live clients.
// *sse.Manager implements it. Implementations must not block.
type EventEmitter interface {
	LibraryChanged(version uint64, entries int)
	NotificationCreated(n domain.Notification)
}

var (
	_ MetadataProvider   = (*tmdb.Client)(nil)
	_ SuggestionProvider = (*gemini.Client)(nil)
	_ Mirror             = (*remote.Client)(nil)
	_ EventEmitter       = (*sse.Manager)(nil)
)
