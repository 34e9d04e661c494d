package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/HO1806/reeltrack/internal/domain"
)

func sortedIDs(entries []domain.Entry) []string {
	out := make([]string, len(entries))
	for i := range entries {
		out[i] = entries[i].ID
	}
	return out
}

func TestSort_PinnedFirst(t *testing.T) {
	a := unwatched("a")
	a.Title = "Alpha"
	b := unwatched("b")
	b.Title = "Bravo"
	b.IsPinned = true
	c := unwatched("c")
	c.Title = "charlie"

	got := Sort([]domain.Entry{a, b, c}, nil, domain.SortTitle, testNow)
	assert.Equal(t, []string{"b", "a", "c"}, sortedIDs(got))
}

func TestSort_SmartScore(t *testing.T) {
	library := tasteLibrary()
	low := unwatched("low", "Drama")
	high := unwatched("high", "Drama", "Comedy")
	mid := unwatched("mid", "Comedy")

	got := Sort([]domain.Entry{low, mid, high}, append(library, low, mid, high), domain.SortSmartScore, testNow)
	// high: 50+35+30 clamps to 100, mid: 50+30+5 = 85, low: 50+35 = 85, stable keeps low before mid
	assert.Equal(t, []string{"high", "low", "mid"}, sortedIDs(got))
}

func TestSort_RecentlyWatched(t *testing.T) {
	t1 := testNow.Add(-48 * time.Hour)
	t2 := testNow.Add(-time.Hour)

	never := unwatched("never")
	older := rated("older", 5)
	older.DateWatched = &t1
	newer := rated("newer", 5)
	newer.DateWatched = &t2

	got := Sort([]domain.Entry{never, older, newer}, nil, domain.SortRecentlyWatched, testNow)
	assert.Equal(t, []string{"newer", "older", "never"}, sortedIDs(got))
}

func TestSort_RatingYearDateAdded(t *testing.T) {
	x := rated("x", 4)
	x.Year = 1999
	x.DateAdded = testNow.Add(-time.Hour)
	y := rated("y", 9)
	y.Year = 2010
	y.DateAdded = testNow.Add(-2 * time.Hour)
	z := unwatched("z")
	z.Year = 2020
	z.DateAdded = testNow

	entries := []domain.Entry{x, y, z}
	assert.Equal(t, []string{"y", "x", "z"}, sortedIDs(Sort(entries, nil, domain.SortRating, testNow)))
	assert.Equal(t, []string{"z", "y", "x"}, sortedIDs(Sort(entries, nil, domain.SortYear, testNow)))
	assert.Equal(t, []string{"z", "x", "y"}, sortedIDs(Sort(entries, nil, domain.SortDateAdded, testNow)))
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	entries := []domain.Entry{unwatched("b"), unwatched("a")}
	entries[0].Title = "B"
	entries[1].Title = "A"

	_ = Sort(entries, nil, domain.SortTitle, testNow)
	assert.Equal(t, "b", entries[0].ID)
}
