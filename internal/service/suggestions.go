package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/metadata/gemini"
)

// SuggestionService asks the suggestion provider for titles matching the
// library's taste profile and adds accepted ones.
type SuggestionService struct {
	library  *LibraryService
	provider SuggestionProvider
	metadata MetadataProvider
	logger   *slog.Logger
}

// NewSuggestionService creates a new suggestion service. metadata may be
// nil, in which case added suggestions stay skeletons.
func NewSuggestionService(library *LibraryService, provider SuggestionProvider, metadata MetadataProvider, logger *slog.Logger) *SuggestionService {
	return &SuggestionService{
		library:  library,
		provider: provider,
		metadata: metadata,
		logger:   logger,
	}
}

// Suggest returns fresh suggestions with AlreadyInWatchlist set for titles
// the library already holds.
func (s *SuggestionService) Suggest(ctx context.Context) ([]domain.Suggestion, error) {
	if s.provider == nil || !s.provider.Configured() {
		return nil, domainerrors.Unavailable("suggestions are not configured")
	}

	library := s.library.Snapshot()
	suggestions, err := s.provider.Suggest(ctx, library)
	if err != nil {
		return nil, suggestionError(err)
	}

	for i := range suggestions {
		suggestions[i].AlreadyInWatchlist = domain.IsDuplicate(suggestions[i].Title, suggestions[i].Year, library)
	}

	s.logger.Info("suggestions generated", "count", len(suggestions))
	return suggestions, nil
}

// Add adds a suggestion as a want_to_watch entry, enriched from the
// metadata provider when possible. A suggestion already in the library is
// rejected the same way a duplicate add is.
func (s *SuggestionService) Add(ctx context.Context, sug domain.Suggestion) (AddResult, error) {
	if !sug.Type.Valid() {
		return AddResult{}, domainerrors.Validationf("unknown media type %q", sug.Type)
	}

	e := domain.NewEntry("", sug.Type, sug.Title, s.library.Now())
	e.Year = sug.Year
	if sug.IMDbID != nil {
		e.IMDbID = *sug.IMDbID
	}
	if sug.Poster != nil {
		e.Poster = *sug.Poster
	}

	if !domain.IsDuplicate(e.Title, e.Year, s.library.Snapshot()) && s.metadata != nil && s.metadata.Configured() {
		md, err := s.metadata.FindAndEnrich(ctx, sug.Title, sug.Type)
		if err != nil {
			s.logger.Warn("suggestion enrichment failed", "title", sug.Title, "error", err)
		} else {
			md.ApplyTo(&e)
		}
	}

	return s.library.Add(ctx, e)
}

func suggestionError(err error) error {
	switch {
	case errors.Is(err, gemini.ErrNotConfigured), errors.Is(err, gemini.ErrUnauthorized):
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "suggestion provider rejected the request")
	case errors.Is(err, gemini.ErrEmptyResponse), errors.Is(err, gemini.ErrInvalidResponse):
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "suggestion provider returned no usable suggestions")
	default:
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "suggestion provider unavailable")
	}
}
