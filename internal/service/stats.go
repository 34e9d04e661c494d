package service

import (
	"math"

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/scoring"
)

const topGenreCount = 5

// Stats summarizes the current library for the dashboard.
func (s *LibraryService) Stats() domain.LibraryStats {
	s.mu.RLock()
	library, settings := s.library, s.settings
	s.mu.RUnlock()

	return ComputeStats(library, settings)
}

// ComputeStats builds the dashboard summary of library. Ratings are bucketed
// into the histogram by rounding overall to the nearest whole point.
func ComputeStats(library []domain.Entry, settings domain.Settings) domain.LibraryStats {
	stats := domain.LibraryStats{
		TotalEntries:    len(library),
		ByStatus:        make(map[domain.WatchStatus]int),
		GenreCounts:     make(map[string]int),
		RatingHistogram: make(map[int]int),
		CurrentStreak:   settings.CurrentStreak,
		BestStreak:      settings.BestStreak,
	}

	var ratingSum float64
	for i := range library {
		e := &library[i]

		switch e.Type {
		case domain.MediaMovie:
			stats.Movies++
		case domain.MediaSeries:
			stats.Series++
		}
		stats.ByStatus[e.Status]++

		if e.IsWatched() {
			stats.Watched++
			stats.TotalRuntime += e.Runtime
		}
		if e.IsFavorite {
			stats.Favorites++
		}
		for _, g := range e.Genres {
			stats.GenreCounts[g]++
		}

		if e.Rating.Overall != nil {
			stats.Rated++
			ratingSum += *e.Rating.Overall
			stats.RatingHistogram[int(math.Round(*e.Rating.Overall))]++
		}
	}

	if stats.Rated > 0 {
		avg := math.Round(ratingSum/float64(stats.Rated)*10) / 10
		stats.AverageRating = &avg
	}

	top := scoring.GenreBreakdown(library)
	if len(top) > topGenreCount {
		top = top[:topGenreCount]
	}
	stats.TopGenres = top

	return stats
}
