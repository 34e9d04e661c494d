package tmdb

import (
	"context"
	"net/url"
	"strings"

	"github.com/HO1806/reeltrack/internal/domain"
)

// SearchMulti searches movies and tv together. People and other media types
// are dropped.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("query", query)

	var raw rawSearchResponse
	if err := c.get(ctx, "/search/multi", q, &raw); err != nil {
		return nil, wrapError("search", "", 0, err)
	}

	results := make([]SearchResult, 0, len(raw.Results))
	for i := range raw.Results {
		r := &raw.Results[i]
		kind := Kind(r.MediaType)
		if !kind.Valid() {
			continue
		}
		results = append(results, SearchResult{
			ID:          r.ID,
			Kind:        kind,
			Title:       r.displayTitle(),
			Year:        r.year(),
			Poster:      c.imageURL(r.PosterPath),
			Overview:    r.Overview,
			Popularity:  r.Popularity,
			VoteAverage: r.VoteAverage,
		})
	}
	return results, nil
}

// FindAndEnrich searches for title and returns full metadata for the first
// result of the requested media type.
func (c *Client) FindAndEnrich(ctx context.Context, title string, mediaType domain.MediaType) (*Metadata, error) {
	results, err := c.SearchMulti(ctx, title)
	if err != nil {
		return nil, err
	}

	kind := KindFor(mediaType)
	for _, r := range results {
		if r.Kind == kind {
			return c.Metadata(ctx, r.ID, kind)
		}
	}
	return nil, wrapError("find", kind, 0, ErrNoMatch)
}

// BestMatch picks the search result to enrich an imported title with.
// Only results of the given kind are considered. When the import carried an
// IMDb id the title must match exactly (case-insensitive), so a known id is
// never paired with the wrong film; otherwise the first result wins.
func BestMatch(results []SearchResult, kind Kind, title string, haveIMDbID bool) (SearchResult, bool) {
	for _, r := range results {
		if r.Kind != kind {
			continue
		}
		if !haveIMDbID || strings.EqualFold(r.Title, title) {
			return r, true
		}
	}
	return SearchResult{}, false
}
