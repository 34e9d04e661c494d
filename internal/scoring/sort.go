package scoring

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/HO1806/reeltrack/internal/domain"
)

// Sort returns a sorted copy of entries. Pinned entries always come first;
// within each group the order is given by mode. Smart Scores are computed
// against library, which may be a superset of entries (a filtered view).
// Unknown modes keep the input order.
func Sort(entries, library []domain.Entry, mode domain.SortMode, now time.Time) []domain.Entry {
	out := slices.Clone(entries)

	var scores map[string]float64
	if mode == domain.SortSmartScore {
		scorer := NewScorer(library, now)
		scores = make(map[string]float64, len(out))
		for i := range out {
			scores[out[i].ID] = scorer.Score(out[i])
		}
	}

	slices.SortStableFunc(out, func(a, b domain.Entry) int {
		if a.IsPinned != b.IsPinned {
			if a.IsPinned {
				return -1
			}
			return 1
		}

		switch mode {
		case domain.SortSmartScore:
			return cmp.Compare(scores[b.ID], scores[a.ID])
		case domain.SortDateAdded:
			return b.DateAdded.Compare(a.DateAdded)
		case domain.SortRating:
			return cmp.Compare(b.Rating.OverallOr(0), a.Rating.OverallOr(0))
		case domain.SortTitle:
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case domain.SortYear:
			return cmp.Compare(b.Year, a.Year)
		case domain.SortRecentlyWatched:
			return compareWatched(a.DateWatched, b.DateWatched)
		}
		return 0
	})

	return out
}

// compareWatched orders most recent first with never-watched entries last.
func compareWatched(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return b.Compare(*a)
}
