package domain

import "strings"

// Tab is a predefined library view.
type Tab string

// Library tabs.
const (
	TabAll       Tab = ""
	TabMovies    Tab = "movies"
	TabSeries    Tab = "series"
	TabFavorites Tab = "favorites"
	TabHistory   Tab = "history"
)

// favoriteThreshold is the minimum overall score for the favorites tab.
const favoriteThreshold = 4.5

// EntryFilter narrows a library listing. Zero values match everything.
type EntryFilter struct {
	Tab       Tab
	Type      MediaType
	Status    WatchStatus
	Genre     string
	MinRating float64
	Query     string
}

// Matches reports whether e passes the filter.
func (f EntryFilter) Matches(e *Entry) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(f.Query)) {
		return false
	}
	if f.Genre != "" && !e.HasGenre(f.Genre) {
		return false
	}

	switch f.Tab {
	case TabMovies:
		return e.Type == MediaMovie && !e.IsWatched()
	case TabSeries:
		return e.Type == MediaSeries && !e.IsWatched()
	case TabFavorites:
		return e.IsWatched() && e.Rating.OverallOr(0) >= favoriteThreshold
	case TabHistory:
		if !e.IsWatched() {
			return false
		}
	}

	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.MinRating > 0 && e.Rating.OverallOr(0) < f.MinRating {
		return false
	}
	return true
}

// Filter returns the entries matching f, preserving order.
func (f EntryFilter) Filter(library []Entry) []Entry {
	out := make([]Entry, 0, len(library))
	for i := range library {
		if f.Matches(&library[i]) {
			out = append(out, library[i])
		}
	}
	return out
}
