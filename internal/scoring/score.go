package scoring

import (
	"math"
	"time"

	"github.com/HO1806/reeltrack/internal/domain"
)

const (
	baseScore   = 50.0
	maxScore    = 100.0
	genreWeight = 5.0

	highPopularity      = 100.0
	highPopularityBonus = 10.0
	midPopularity       = 50.0
	midPopularityBonus  = 5.0

	// Entries waiting longer than this get a nudge back up the list.
	staleAfterMonths = 6
	staleBonus       = 8.0

	// Bonus for entries outside the user's favourite genre.
	explorationBonus = 5.0
)

// SmartScore ranks how strongly an unwatched entry should be recommended,
// in [0, 100]. Watched entries always score 0.
//
// The per-genre bonus is not capped individually; only the total is
// clamped, so a highly rated genre can dominate the score.
func SmartScore(e domain.Entry, library []domain.Entry, now time.Time) float64 {
	return NewScorer(library, now).Score(e)
}

// Scorer caches the genre profile of one library snapshot so scoring many
// entries against the same snapshot stays linear.
type Scorer struct {
	avgs   map[string]float64
	top    string
	hasTop bool
	now    time.Time
}

// NewScorer builds a scorer for library at reference time now.
func NewScorer(library []domain.Entry, now time.Time) *Scorer {
	avgs := GenreAverages(library)
	top, ok := TopGenre(avgs)
	return &Scorer{avgs: avgs, top: top, hasTop: ok, now: now}
}

// Score returns the Smart Score of e.
func (s *Scorer) Score(e domain.Entry) float64 {
	if e.IsWatched() {
		return 0
	}

	score := baseScore

	for _, g := range e.Genres {
		if avg, ok := s.avgs[g]; ok {
			score += avg * genreWeight
		}
	}

	switch {
	case e.TMDbPopularity > highPopularity:
		score += highPopularityBonus
	case e.TMDbPopularity > midPopularity:
		score += midPopularityBonus
	}

	if !e.DateAdded.IsZero() && e.DateAdded.Before(s.now.AddDate(0, -staleAfterMonths, 0)) {
		score += staleBonus
	}

	if s.hasTop && !e.HasGenre(s.top) {
		score += explorationBonus
	}

	return math.Max(0, math.Min(maxScore, score))
}
