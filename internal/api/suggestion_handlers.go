package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
)

func (s *Server) registerSuggestionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSuggestions",
		Method:      http.MethodGet,
		Path:        "/api/v1/suggestions",
		Summary:     "Get suggestions",
		Description: "Asks the suggestion provider for titles matching the library's taste profile",
		Tags:        []string{"Suggestions"},
	}, s.handleGetSuggestions)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addSuggestion",
		Method:        http.MethodPost,
		Path:          "/api/v1/suggestions/add",
		Summary:       "Add suggestion",
		Description:   "Adds a suggested title to the watchlist, enriched with provider metadata when available",
		Tags:          []string{"Suggestions"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddSuggestion)
}

// SuggestionsResponse contains generated suggestions.
type SuggestionsResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions" doc:"Suggested titles"`
}

// SuggestionsOutput wraps the suggestions response for Huma.
type SuggestionsOutput struct {
	Body SuggestionsResponse
}

// AddSuggestionRequest is a suggestion the user chose to add.
type AddSuggestionRequest struct {
	Title  string  `json:"title" minLength:"1" doc:"Title"`
	Year   int     `json:"year,omitempty" doc:"Release year"`
	Type   string  `json:"type" enum:"movie,series" doc:"movie or series"`
	Reason string  `json:"reason,omitempty" doc:"Why it was suggested"`
	IMDbID *string `json:"imdb_id,omitempty" doc:"IMDb id"`
	Poster *string `json:"poster,omitempty" doc:"Poster URL"`
}

// AddSuggestionInput wraps the add suggestion request for Huma.
type AddSuggestionInput struct {
	Body AddSuggestionRequest
}

func (s *Server) handleGetSuggestions(ctx context.Context, _ *struct{}) (*SuggestionsOutput, error) {
	if s.services.Suggestion == nil {
		return nil, domainerrors.Unavailable("suggestions are not configured")
	}

	suggestions, err := s.services.Suggestion.Suggest(ctx)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}
	return &SuggestionsOutput{Body: SuggestionsResponse{Suggestions: suggestions}}, nil
}

func (s *Server) handleAddSuggestion(ctx context.Context, input *AddSuggestionInput) (*EntryOutput, error) {
	if s.services.Suggestion == nil {
		return nil, domainerrors.Unavailable("suggestions are not configured")
	}

	res, err := s.services.Suggestion.Add(ctx, domain.Suggestion{
		Title:  input.Body.Title,
		Year:   input.Body.Year,
		Type:   domain.MediaType(input.Body.Type),
		Reason: input.Body.Reason,
		IMDbID: input.Body.IMDbID,
		Poster: input.Body.Poster,
	})
	if err != nil {
		return nil, err
	}
	if err := duplicateError(res); err != nil {
		return nil, err
	}
	return &EntryOutput{Body: res.Entry}, nil
}
