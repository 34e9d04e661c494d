package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filterFixture() []Entry {
	return []Entry{
		{ID: "m1", Type: MediaMovie, Title: "Heat", Status: StatusWantToWatch, Genres: []string{"Crime"}},
		{ID: "m2", Type: MediaMovie, Title: "Alien", Status: StatusWatched, Genres: []string{"Horror"}, Rating: Rating{Overall: Score(9)}},
		{ID: "s1", Type: MediaSeries, Title: "Dark", Status: StatusWatching, Genres: []string{"Mystery"}},
		{ID: "s2", Type: MediaSeries, Title: "Lost", Status: StatusWatched, Genres: []string{"Mystery"}, Rating: Rating{Overall: Score(3)}},
	}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i := range entries {
		out[i] = entries[i].ID
	}
	return out
}

func TestEntryFilter(t *testing.T) {
	library := filterFixture()

	tests := []struct {
		name   string
		filter EntryFilter
		want   []string
	}{
		{"zero value matches all", EntryFilter{}, []string{"m1", "m2", "s1", "s2"}},
		{"movies tab hides watched", EntryFilter{Tab: TabMovies}, []string{"m1"}},
		{"series tab hides watched", EntryFilter{Tab: TabSeries}, []string{"s1"}},
		{"favorites tab", EntryFilter{Tab: TabFavorites}, []string{"m2"}},
		{"history with type", EntryFilter{Tab: TabHistory, Type: MediaSeries}, []string{"s2"}},
		{"genre", EntryFilter{Genre: "Mystery"}, []string{"s1", "s2"}},
		{"min rating", EntryFilter{MinRating: 5}, []string{"m2"}},
		{"title query is case-insensitive", EntryFilter{Query: "AL"}, []string{"m2"}},
		{"status", EntryFilter{Status: StatusWatching}, []string{"s1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Filter(library)))
		})
	}
}
