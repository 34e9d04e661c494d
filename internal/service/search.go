package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HO1806/reeltrack/internal/search"
)

// SearchService runs full-text searches over the library.
// The store keeps the index current on every write; this service handles
// queries and full rebuilds.
type SearchService struct {
	index   *search.SearchIndex
	library *LibraryService
	logger  *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, library *LibraryService, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:   index,
		library: library,
		logger:  logger,
	}
}

// Search runs a query against the index.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// DocumentCount returns the number of indexed entries.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the index from the current library.
func (s *SearchService) ReindexAll(_ context.Context) error {
	entries := s.library.Snapshot()

	s.logger.Info("starting full reindex", "entries", len(entries))
	if err := s.index.Rebuild(entries); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	s.logger.Info("reindex complete", "entries", len(entries))
	return nil
}

// EnsureIndexed rebuilds the index when its document count has drifted from
// the library, e.g. after the index directory was removed.
func (s *SearchService) EnsureIndexed(ctx context.Context) error {
	count, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if int(count) == len(s.library.Snapshot()) {
		return nil
	}
	return s.ReindexAll(ctx)
}
