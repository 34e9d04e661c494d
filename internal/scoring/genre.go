// Package scoring computes per-entry Smart Scores and the genre affinity
// profile they are built on. Everything here is a pure function of a library
// snapshot and an explicit reference time.
package scoring

import (
	"slices"
	"strings"

	"github.com/HO1806/reeltrack/internal/domain"
)

// GenreAverages returns the mean overall rating per genre, considering only
// entries that have an overall rating. Genres with no rated entries are absent.
func GenreAverages(library []domain.Entry) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for i := range library {
		overall := library[i].Rating.Overall
		if overall == nil {
			continue
		}
		for _, g := range library[i].Genres {
			sums[g] += *overall
			counts[g]++
		}
	}

	avgs := make(map[string]float64, len(sums))
	for g, sum := range sums {
		avgs[g] = sum / float64(counts[g])
	}
	return avgs
}

// GenreBreakdown is GenreAverages with counts, ordered by average descending
// and then by genre name.
func GenreBreakdown(library []domain.Entry) []domain.GenreAverage {
	counts := make(map[string]int)
	for i := range library {
		if library[i].Rating.Overall == nil {
			continue
		}
		for _, g := range library[i].Genres {
			counts[g]++
		}
	}

	avgs := GenreAverages(library)
	out := make([]domain.GenreAverage, 0, len(avgs))
	for g, avg := range avgs {
		out = append(out, domain.GenreAverage{Genre: g, Average: avg, Count: counts[g]})
	}
	slices.SortFunc(out, func(a, b domain.GenreAverage) int {
		if a.Average != b.Average {
			if a.Average > b.Average {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Genre, b.Genre)
	})
	return out
}

// TopGenre returns the genre with the highest average. Ties go to the
// lexicographically smallest genre name. ok is false for an empty map.
func TopGenre(avgs map[string]float64) (genre string, ok bool) {
	best := 0.0
	for g, avg := range avgs {
		if !ok || avg > best || (avg == best && g < genre) {
			genre, best, ok = g, avg, true
		}
	}
	return genre, ok
}
