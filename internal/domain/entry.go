// Package domain contains the core entities of the ReelTrack library:
// entries, their ratings and progress, notifications and settings.
package domain

import (
	"slices"
	"time"
)

// MediaType distinguishes movies from series.
type MediaType string

// Media types.
const (
	MediaMovie  MediaType = "movie"
	MediaSeries MediaType = "series"
)

// Valid reports whether t is a known media type.
func (t MediaType) Valid() bool {
	return t == MediaMovie || t == MediaSeries
}

// TMDBKind returns the path segment TMDB uses for this media type.
func (t MediaType) TMDBKind() string {
	if t == MediaSeries {
		return "tv"
	}
	return "movie"
}

// WatchStatus is where an entry sits in the user's watch lifecycle.
type WatchStatus string

// Watch statuses.
const (
	StatusWantToWatch WatchStatus = "want_to_watch"
	StatusWatching    WatchStatus = "watching"
	StatusWatched     WatchStatus = "watched"
	StatusDropped     WatchStatus = "dropped"
)

// Valid reports whether s is a known status.
func (s WatchStatus) Valid() bool {
	switch s {
	case StatusWantToWatch, StatusWatching, StatusWatched, StatusDropped:
		return true
	}
	return false
}

// Entry is a single movie or series in the library.
// JSON field names match the persisted library rows and the legacy REST shape.
type Entry struct {
	ID              string      `json:"id"`
	Type            MediaType   `json:"type"`
	Title           string      `json:"title"`
	Year            int         `json:"year"`
	Genres          []string    `json:"genres"`
	Poster          string      `json:"poster"`
	Description     string      `json:"description"`
	Director        string      `json:"director"`
	Cast            []string    `json:"cast"`
	Runtime         int         `json:"runtime"`
	Seasons         int         `json:"seasons"`
	CurrentSeason   int         `json:"currentSeason"`
	CurrentEpisode  int         `json:"currentEpisode"`
	Status          WatchStatus `json:"status"`
	Rating          Rating      `json:"rating"`
	RewatchCount    int         `json:"rewatchCount"`
	StreamingURL    string      `json:"streamingUrl"`
	IMDbID          string      `json:"imdbId"`
	TMDbID          int         `json:"tmdbId"`
	TMDbPopularity  float64     `json:"tmdbPopularity"`
	VoteAverage     float64     `json:"vote_average,omitempty"`
	IMDbRating      float64     `json:"imdbRating,omitempty"`
	PersonalNote    string      `json:"personalNote"`
	DateAdded       time.Time   `json:"dateAdded"`
	DateWatched     *time.Time  `json:"dateWatched"`
	Tags            []string    `json:"tags"`
	IsFavorite      bool        `json:"isFavorite"`
	IsPinned        bool        `json:"isPinned"`
	NotifiedUnrated bool        `json:"notifiedUnrated"`
}

// NewEntry returns a skeleton entry with the defaults every new entry starts from.
func NewEntry(id string, mediaType MediaType, title string, now time.Time) Entry {
	return Entry{
		ID:             id,
		Type:           mediaType,
		Title:          title,
		Genres:         []string{},
		Cast:           []string{},
		Tags:           []string{},
		CurrentSeason:  1,
		CurrentEpisode: 1,
		Status:         StatusWantToWatch,
		DateAdded:      now,
	}
}

// IsWatched reports whether the entry has been watched.
func (e *Entry) IsWatched() bool {
	return e.Status == StatusWatched
}

// HasGenre reports whether the entry is tagged with genre g.
func (e *Entry) HasGenre(g string) bool {
	return slices.Contains(e.Genres, g)
}

// Clone returns a deep copy. Library snapshots are never mutated in place,
// so every edit starts from a clone.
func (e Entry) Clone() Entry {
	c := e
	c.Genres = cloneStrings(e.Genres)
	c.Cast = cloneStrings(e.Cast)
	c.Tags = cloneStrings(e.Tags)
	c.Rating = e.Rating.Clone()
	if e.DateWatched != nil {
		t := *e.DateWatched
		c.DateWatched = &t
	}
	return c
}

// Normalize fills nil slices and zero progress counters so stored and
// serialized entries always have the same shape.
func (e *Entry) Normalize() {
	if e.Genres == nil {
		e.Genres = []string{}
	}
	if e.Cast == nil {
		e.Cast = []string{}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.CurrentSeason < 1 {
		e.CurrentSeason = 1
	}
	if e.CurrentEpisode < 1 {
		e.CurrentEpisode = 1
	}
	if e.Status == "" {
		e.Status = StatusWantToWatch
	}
}

// StremioURL builds the deep link Stremio uses to open a title.
func StremioURL(mediaType MediaType, imdbID string) string {
	if imdbID == "" {
		return ""
	}
	return "stremio:///detail/" + string(mediaType) + "/" + imdbID
}

// CloneLibrary deep-copies a library snapshot.
func CloneLibrary(library []Entry) []Entry {
	out := make([]Entry, len(library))
	for i := range library {
		out[i] = library[i].Clone()
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
