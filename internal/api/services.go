package api

import (
	"github.com/HO1806/reeltrack/internal/service"
	"github.com/HO1806/reeltrack/internal/sse"
)

// Services groups the business logic services used by the API server.
// Any service except Library may be nil; its routes then answer 503.
type Services struct {
	Library    *service.LibraryService
	Import     *service.ImportService
	Suggestion *service.SuggestionService
	Metadata   *service.MetadataService
	Search     *service.SearchService
	Sync       *service.SyncService
	// Events streams library changes; nil disables /api/v1/events.
	Events *sse.Manager
}
