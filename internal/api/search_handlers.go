package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search library",
		Description: "Full-text search over titles, directors, cast, genres and notes",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the library.
type SearchInput struct {
	Query     string  `query:"q" maxLength:"200" doc:"Search query. Omit to browse with filters only"`
	Type      string  `query:"type" doc:"movie or series"`
	Status    string  `query:"status" doc:"Watch status"`
	Genres    string  `query:"genres" maxLength:"200" doc:"Comma-separated genre names or slugs"`
	MinYear   int     `query:"minYear" doc:"Earliest release year"`
	MaxYear   int     `query:"maxYear" doc:"Latest release year"`
	MinRating float64 `query:"minRating" minimum:"0" maximum:"10" doc:"Minimum overall rating"`
	Limit     int     `query:"limit" minimum:"0" maximum:"100" doc:"Max results (default 20)"`
	Offset    int     `query:"offset" minimum:"0" doc:"Pagination offset"`
	Sort      string  `query:"sort" doc:"relevance, title, year, rating or recent"`
	Order     string  `query:"order" doc:"asc or desc"`
	Facets    bool    `query:"facets" doc:"Include facets in response"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if s.services.Search == nil {
		return nil, domainerrors.Unavailable("search is not available")
	}

	params := search.DefaultSearchParams()
	params.Query = strings.TrimSpace(input.Query)
	params.Type = input.Type
	params.Status = input.Status
	params.MinYear = input.MinYear
	params.MaxYear = input.MaxYear
	params.MinRating = input.MinRating
	params.Offset = input.Offset
	params.IncludeFacets = input.Facets
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	if input.Sort != "" {
		params.SortBy = input.Sort
	}
	if input.Order != "" {
		params.SortOrder = input.Order
	}
	if input.Genres != "" {
		for g := range strings.SplitSeq(input.Genres, ",") {
			if g = strings.TrimSpace(g); g != "" {
				params.Genres = append(params.Genres, g)
			}
		}
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: result}, nil
}
