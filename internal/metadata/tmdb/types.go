package tmdb

import (
	"strconv"

	"github.com/HO1806/reeltrack/internal/domain"
)

// Kind is the TMDB media kind used in URL paths.
type Kind string

// TMDB media kinds.
const (
	KindMovie Kind = "movie"
	KindTV    Kind = "tv"
)

// KindFor maps a library media type to a TMDB kind.
func KindFor(t domain.MediaType) Kind {
	return Kind(t.TMDBKind())
}

// MediaType maps the kind back to a library media type.
func (k Kind) MediaType() domain.MediaType {
	if k == KindTV {
		return domain.MediaSeries
	}
	return domain.MediaMovie
}

// Valid reports whether k is movie or tv.
func (k Kind) Valid() bool {
	return k == KindMovie || k == KindTV
}

// SearchResult is one movie or tv hit from /search/multi.
type SearchResult struct {
	ID          int     `json:"id"`
	Kind        Kind    `json:"mediaType"`
	Title       string  `json:"title"`
	Year        int     `json:"year"`
	Poster      string  `json:"poster"`
	Overview    string  `json:"overview"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"voteAverage"`
}

// Related is a similar or recommended title.
type Related struct {
	ID       int              `json:"id"`
	Title    string           `json:"title"`
	Year     int              `json:"year"`
	Poster   string           `json:"poster"`
	Backdrop string           `json:"backdrop,omitempty"`
	Type     domain.MediaType `json:"type"`
	Overview string           `json:"overview"`
	Rating   float64          `json:"rating"`
}

// Metadata is the entry-shaped result of a full lookup.
type Metadata struct {
	Title        string           `json:"title"`
	Year         int              `json:"year"`
	Type         domain.MediaType `json:"type"`
	Genres       []string         `json:"genres"`
	Poster       string           `json:"poster"`
	Description  string           `json:"description"`
	Director     string           `json:"director"`
	Cast         []string         `json:"cast"`
	Runtime      int              `json:"runtime"`
	Seasons      int              `json:"seasons"`
	TMDbID       int              `json:"tmdbId"`
	IMDbID       string           `json:"imdbId"`
	VoteAverage  float64          `json:"vote_average"`
	Popularity   float64          `json:"tmdbPopularity"`
	StreamingURL string           `json:"streamingUrl"`
}

// ApplyTo copies provider fields onto e. User-owned fields (status, rating,
// notes, flags, progress) are left alone, and an IMDb id already on the entry
// is kept when the provider has none.
func (m *Metadata) ApplyTo(e *domain.Entry) {
	e.Title = m.Title
	e.Year = m.Year
	e.Genres = append([]string{}, m.Genres...)
	e.Poster = m.Poster
	e.Description = m.Description
	e.Director = m.Director
	e.Cast = append([]string{}, m.Cast...)
	e.Runtime = m.Runtime
	e.Seasons = m.Seasons
	e.TMDbID = m.TMDbID
	e.VoteAverage = m.VoteAverage
	e.TMDbPopularity = m.Popularity
	if m.IMDbID != "" {
		e.IMDbID = m.IMDbID
		e.StreamingURL = m.StreamingURL
	}
}

// Raw API response types (internal)

type rawSearchResponse struct {
	Results []rawResult `json:"results"`
}

type rawResult struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Overview     string  `json:"overview"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
}

func (r *rawResult) displayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

func (r *rawResult) year() int {
	return yearOf(r.ReleaseDate, r.FirstAirDate)
}

// Details is the /movie/{id} or /tv/{id} document.
type Details struct {
	Title            string       `json:"title"`
	Name             string       `json:"name"`
	ReleaseDate      string       `json:"release_date"`
	FirstAirDate     string       `json:"first_air_date"`
	Genres           []rawGenre   `json:"genres"`
	PosterPath       string       `json:"poster_path"`
	Overview         string       `json:"overview"`
	Runtime          int          `json:"runtime"`
	EpisodeRunTime   []int        `json:"episode_run_time"`
	NumberOfSeasons  int          `json:"number_of_seasons"`
	VoteAverage      float64      `json:"vote_average"`
	Popularity       float64      `json:"popularity"`
	CreatedBy        []rawPerson  `json:"created_by"`
}

type rawGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type rawPerson struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Job       string `json:"job"`
	Character string `json:"character"`
}

// ExternalIDs are the cross-reference ids TMDB knows for a title.
type ExternalIDs struct {
	IMDbID string `json:"imdb_id"`
	TVDbID int    `json:"tvdb_id"`
}

// Credits is the cast and crew of a title.
type Credits struct {
	Cast []rawPerson `json:"cast"`
	Crew []rawPerson `json:"crew"`
}

// Director returns the first crew member with the Director job, or "".
func (c *Credits) Director() string {
	for _, p := range c.Crew {
		if p.Job == "Director" {
			return p.Name
		}
	}
	return ""
}

// TopCast returns the names of the first n billed cast members.
func (c *Credits) TopCast(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < len(c.Cast) && i < n; i++ {
		out = append(out, c.Cast[i].Name)
	}
	return out
}

// yearOf returns the year of the first non-empty YYYY-MM-DD date, or 0.
func yearOf(dates ...string) int {
	for _, d := range dates {
		if len(d) < 4 {
			continue
		}
		if y, err := strconv.Atoi(d[:4]); err == nil {
			return y
		}
	}
	return 0
}
