package tmdb

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/HO1806/reeltrack/internal/domain"
)

// Details returns the details document for a title.
func (c *Client) Details(ctx context.Context, id int, kind Kind) (*Details, error) {
	var d Details
	if err := c.get(ctx, fmt.Sprintf("/%s/%d", kind, id), nil, &d); err != nil {
		return nil, wrapError("details", kind, id, err)
	}
	return &d, nil
}

// ExternalIDs returns the IMDb and TVDB ids TMDB holds for a title.
func (c *Client) ExternalIDs(ctx context.Context, id int, kind Kind) (*ExternalIDs, error) {
	var ids ExternalIDs
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/external_ids", kind, id), nil, &ids); err != nil {
		return nil, wrapError("external_ids", kind, id, err)
	}
	return &ids, nil
}

// Credits returns the cast and crew of a title.
func (c *Client) Credits(ctx context.Context, id int, kind Kind) (*Credits, error) {
	var cr Credits
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/credits", kind, id), nil, &cr); err != nil {
		return nil, wrapError("credits", kind, id, err)
	}
	return &cr, nil
}

// Similar returns titles TMDB considers similar.
func (c *Client) Similar(ctx context.Context, id int, kind Kind) ([]Related, error) {
	return c.related(ctx, "similar", id, kind)
}

// Recommendations returns TMDB's recommendations for a title.
func (c *Client) Recommendations(ctx context.Context, id int, kind Kind) ([]Related, error) {
	return c.related(ctx, "recommendations", id, kind)
}

func (c *Client) related(ctx context.Context, op string, id int, kind Kind) ([]Related, error) {
	var raw rawSearchResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/%s", kind, id, op), nil, &raw); err != nil {
		return nil, wrapError(op, kind, id, err)
	}

	out := make([]Related, 0, len(raw.Results))
	for i := range raw.Results {
		r := &raw.Results[i]
		rel := Related{
			ID:       r.ID,
			Title:    r.displayTitle(),
			Year:     r.year(),
			Poster:   c.imageURL(r.PosterPath),
			Type:     kind.MediaType(),
			Overview: r.Overview,
			Rating:   r.VoteAverage,
		}
		if r.BackdropPath != "" {
			rel.Backdrop = backdropBaseURL + r.BackdropPath
		}
		out = append(out, rel)
	}
	return out, nil
}

// Metadata fetches details, external ids and credits concurrently and folds
// them into an entry-shaped record.
func (c *Client) Metadata(ctx context.Context, id int, kind Kind) (*Metadata, error) {
	var (
		details *Details
		ids     *ExternalIDs
		credits *Credits
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		details, err = c.Details(gctx, id, kind)
		return err
	})
	g.Go(func() (err error) {
		ids, err = c.ExternalIDs(gctx, id, kind)
		return err
	})
	g.Go(func() (err error) {
		credits, err = c.Credits(gctx, id, kind)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mediaType := kind.MediaType()
	m := &Metadata{
		Title:       details.Title,
		Year:        yearOf(details.ReleaseDate, details.FirstAirDate),
		Type:        mediaType,
		Genres:      make([]string, 0, len(details.Genres)),
		Poster:      c.imageURL(details.PosterPath),
		Description: details.Overview,
		Cast:        credits.TopCast(castLimit),
		Runtime:     details.Runtime,
		Seasons:     details.NumberOfSeasons,
		TMDbID:      id,
		IMDbID:      ids.IMDbID,
		VoteAverage: details.VoteAverage,
		Popularity:  details.Popularity,
	}
	if m.Title == "" {
		m.Title = details.Name
	}
	for _, g := range details.Genres {
		m.Genres = append(m.Genres, g.Name)
	}
	if m.Runtime == 0 && len(details.EpisodeRunTime) > 0 {
		m.Runtime = details.EpisodeRunTime[0]
	}

	if kind == KindMovie {
		m.Director = credits.Director()
	} else if len(details.CreatedBy) > 0 {
		m.Director = details.CreatedBy[0].Name
	}

	m.StreamingURL = domain.StremioURL(mediaType, m.IMDbID)
	return m, nil
}
