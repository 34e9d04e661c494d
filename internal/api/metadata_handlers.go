package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/metadata/tmdb"
)

func (s *Server) registerMetadataRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchMetadata",
		Method:      http.MethodGet,
		Path:        "/api/v1/metadata/search",
		Summary:     "Search TMDB",
		Description: "Searches TMDB for movies and series. Results are not stored",
		Tags:        []string{"Metadata"},
	}, s.handleSearchMetadata)

	huma.Register(s.api, huma.Operation{
		OperationID: "similarTitles",
		Method:      http.MethodGet,
		Path:        "/api/v1/metadata/{kind}/{id}/similar",
		Summary:     "Similar titles",
		Tags:        []string{"Metadata"},
	}, s.handleSimilar)

	huma.Register(s.api, huma.Operation{
		OperationID: "recommendedTitles",
		Method:      http.MethodGet,
		Path:        "/api/v1/metadata/{kind}/{id}/recommendations",
		Summary:     "Recommended titles",
		Tags:        []string{"Metadata"},
	}, s.handleRecommendations)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addFromMetadata",
		Method:        http.MethodPost,
		Path:          "/api/v1/metadata/{kind}/{id}/add",
		Summary:       "Add TMDB title",
		Description:   "Adds a TMDB title to the watchlist with its full metadata",
		Tags:          []string{"Metadata"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddFromMetadata)

	huma.Register(s.api, huma.Operation{
		OperationID: "enrichEntry",
		Method:      http.MethodPost,
		Path:        "/api/v1/entries/{id}/enrich",
		Summary:     "Refresh entry metadata",
		Description: "Re-fetches provider fields for an entry. Ratings, status and notes are kept",
		Tags:        []string{"Metadata"},
	}, s.handleEnrichEntry)
}

// === DTOs ===

// MetadataSearchInput contains parameters for a provider search.
type MetadataSearchInput struct {
	Query string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Title to search for"`
}

// MetadataSearchResponse contains provider search results.
type MetadataSearchResponse struct {
	Results []tmdb.SearchResult `json:"results" doc:"Movie and series matches"`
}

// MetadataSearchOutput wraps the provider search response for Huma.
type MetadataSearchOutput struct {
	Body MetadataSearchResponse
}

// ProviderTitleInput identifies a provider title by path.
type ProviderTitleInput struct {
	Kind string `path:"kind" enum:"movie,tv" doc:"movie or tv"`
	ID   int    `path:"id" minimum:"1" doc:"TMDB id"`
}

// RelatedResponse contains similar or recommended titles.
type RelatedResponse struct {
	Results []tmdb.Related `json:"results" doc:"Related titles"`
}

// RelatedOutput wraps the related titles response for Huma.
type RelatedOutput struct {
	Body RelatedResponse
}

// === Handlers ===

func (s *Server) handleSearchMetadata(ctx context.Context, input *MetadataSearchInput) (*MetadataSearchOutput, error) {
	if err := s.requireMetadata(); err != nil {
		return nil, err
	}

	results, err := s.services.Metadata.Search(ctx, input.Query)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []tmdb.SearchResult{}
	}
	return &MetadataSearchOutput{Body: MetadataSearchResponse{Results: results}}, nil
}

func (s *Server) handleSimilar(ctx context.Context, input *ProviderTitleInput) (*RelatedOutput, error) {
	if err := s.requireMetadata(); err != nil {
		return nil, err
	}

	related, err := s.services.Metadata.Similar(ctx, tmdb.Kind(input.Kind), input.ID)
	if err != nil {
		return nil, err
	}
	return &RelatedOutput{Body: RelatedResponse{Results: nonNilRelated(related)}}, nil
}

func (s *Server) handleRecommendations(ctx context.Context, input *ProviderTitleInput) (*RelatedOutput, error) {
	if err := s.requireMetadata(); err != nil {
		return nil, err
	}

	related, err := s.services.Metadata.Recommendations(ctx, tmdb.Kind(input.Kind), input.ID)
	if err != nil {
		return nil, err
	}
	return &RelatedOutput{Body: RelatedResponse{Results: nonNilRelated(related)}}, nil
}

func (s *Server) handleAddFromMetadata(ctx context.Context, input *ProviderTitleInput) (*EntryOutput, error) {
	if err := s.requireMetadata(); err != nil {
		return nil, err
	}

	res, err := s.services.Metadata.AddFromProvider(ctx, tmdb.Kind(input.Kind), input.ID)
	if err != nil {
		return nil, err
	}
	if err := duplicateError(res); err != nil {
		return nil, err
	}
	return &EntryOutput{Body: res.Entry}, nil
}

func (s *Server) handleEnrichEntry(ctx context.Context, input *EntryIDInput) (*EntryOutput, error) {
	if err := s.requireMetadata(); err != nil {
		return nil, err
	}

	e, err := s.services.Metadata.Enrich(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: e}, nil
}

func (s *Server) requireMetadata() error {
	if s.services.Metadata == nil {
		return domainerrors.Unavailable("metadata provider is not configured")
	}
	return nil
}

func nonNilRelated(related []tmdb.Related) []tmdb.Related {
	if related == nil {
		return []tmdb.Related{}
	}
	return related
}
