package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/HO1806/reeltrack/internal/breaker"
	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/metadata/tmdb"
)

// MetadataService exposes metadata lookups and applies them to entries.
type MetadataService struct {
	library  *LibraryService
	provider MetadataProvider
	logger   *slog.Logger
}

// NewMetadataService creates a new metadata service.
func NewMetadataService(library *LibraryService, provider MetadataProvider, logger *slog.Logger) *MetadataService {
	return &MetadataService{
		library:  library,
		provider: provider,
		logger:   logger,
	}
}

// Search searches the provider for movies and series.
// Results are transient and never stored.
func (s *MetadataService) Search(ctx context.Context, query string) ([]tmdb.SearchResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	s.logger.Debug("searching TMDB", "query", query)

	results, err := s.provider.SearchMulti(ctx, query)
	if err != nil {
		return nil, providerError(err)
	}
	return results, nil
}

// Similar returns titles similar to the given provider title.
func (s *MetadataService) Similar(ctx context.Context, kind tmdb.Kind, id int) ([]tmdb.Related, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	related, err := s.provider.Similar(ctx, id, kind)
	if err != nil {
		return nil, providerError(err)
	}
	return related, nil
}

// Recommendations returns the provider's recommendations for a title.
func (s *MetadataService) Recommendations(ctx context.Context, kind tmdb.Kind, id int) ([]tmdb.Related, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	related, err := s.provider.Recommendations(ctx, id, kind)
	if err != nil {
		return nil, providerError(err)
	}
	return related, nil
}

// AddFromProvider adds a provider title as a want_to_watch entry filled
// from its full metadata.
func (s *MetadataService) AddFromProvider(ctx context.Context, kind tmdb.Kind, id int) (AddResult, error) {
	if err := s.ready(); err != nil {
		return AddResult{}, err
	}
	if !kind.Valid() {
		return AddResult{}, domainerrors.Validationf("unknown kind %q", kind)
	}

	md, err := s.provider.Metadata(ctx, id, kind)
	if err != nil {
		return AddResult{}, providerError(err)
	}

	e := domain.NewEntry("", kind.MediaType(), md.Title, s.library.Now())
	md.ApplyTo(&e)
	return s.library.Add(ctx, e)
}

// Enrich refreshes an entry's provider fields. An entry with a known
// provider id is fetched directly; otherwise its title is searched.
// User-owned fields are left alone.
func (s *MetadataService) Enrich(ctx context.Context, entryID string) (domain.Entry, error) {
	if err := s.ready(); err != nil {
		return domain.Entry{}, err
	}

	cur, err := s.library.Get(entryID)
	if err != nil {
		return domain.Entry{}, err
	}

	var md *tmdb.Metadata
	if cur.TMDbID > 0 {
		md, err = s.provider.Metadata(ctx, cur.TMDbID, tmdb.KindFor(cur.Type))
	} else {
		md, err = s.provider.FindAndEnrich(ctx, cur.Title, cur.Type)
	}
	if err != nil {
		return domain.Entry{}, providerError(err)
	}

	return s.library.update(ctx, entryID, func(e *domain.Entry) error {
		md.ApplyTo(e)
		return nil
	})
}

func (s *MetadataService) ready() error {
	if s.provider == nil || !s.provider.Configured() {
		return domainerrors.Unavailable("metadata provider is not configured")
	}
	return nil
}

// providerError maps metadata provider failures onto domain errors.
func providerError(err error) error {
	switch {
	case errors.Is(err, tmdb.ErrNotFound), errors.Is(err, tmdb.ErrNoMatch):
		return domainerrors.Wrap(err, domainerrors.CodeNotFound, "title not found")
	case errors.Is(err, tmdb.ErrBadRequest):
		return domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid metadata request")
	case breaker.IsOpen(err):
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "metadata provider temporarily unavailable")
	default:
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "metadata provider error")
	}
}
