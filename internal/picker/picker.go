// Package picker draws a random unwatched entry, favouring higher Smart Scores.
package picker

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/scoring"
)

// ErrNothingToPick is returned when no unwatched entry of the requested type exists.
var ErrNothingToPick = errors.New("picker: nothing to pick")

// Candidate is an eligible entry together with its weight in the draw.
type Candidate struct {
	Entry domain.Entry `json:"entry"`
	Score float64      `json:"score"`
	Slots int          `json:"slots"`
}

// Slots is the number of pool slots an entry with the given score occupies:
// floor(score/10), but never fewer than one.
func Slots(score float64) int {
	return max(1, int(math.Floor(score/10)))
}

// Candidates returns every entry of mediaType that is not watched, weighted
// by its Smart Score against the whole library.
func Candidates(mediaType domain.MediaType, library []domain.Entry, now time.Time) []Candidate {
	scorer := scoring.NewScorer(library, now)

	var out []Candidate
	for i := range library {
		e := library[i]
		if e.Type != mediaType || e.IsWatched() {
			continue
		}
		score := scorer.Score(e)
		out = append(out, Candidate{Entry: e, Score: score, Slots: Slots(score)})
	}
	return out
}

// Draw picks one candidate with probability proportional to its slots.
// This is equivalent to replicating each candidate Slots times into a pool
// and drawing uniformly from it.
func Draw(candidates []Candidate, rng *rand.Rand) (Candidate, error) {
	total := 0
	for _, c := range candidates {
		total += c.Slots
	}
	if total == 0 {
		return Candidate{}, ErrNothingToPick
	}

	n := rng.IntN(total)
	for _, c := range candidates {
		if n < c.Slots {
			return c, nil
		}
		n -= c.Slots
	}
	return candidates[len(candidates)-1], nil
}

// Pick draws a weighted random unwatched entry of mediaType.
func Pick(mediaType domain.MediaType, library []domain.Entry, now time.Time, rng *rand.Rand) (Candidate, error) {
	return Draw(Candidates(mediaType, library, now), rng)
}
