package picker

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HO1806/reeltrack/internal/domain"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1024))
}

func TestSlots(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0, 1},
		{9.9, 1},
		{10, 1},
		{19.9, 1},
		{20, 2},
		{55, 5},
		{90, 9},
		{100, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slots(tt.score), "score %v", tt.score)
	}
}

func TestDraw_Distribution(t *testing.T) {
	candidates := []Candidate{
		{Entry: domain.Entry{ID: "A"}, Score: 90, Slots: Slots(90)},
		{Entry: domain.Entry{ID: "B"}, Score: 10, Slots: Slots(10)},
	}
	rng := seeded()

	counts := map[string]int{}
	const draws = 10000
	for range draws {
		c, err := Draw(candidates, rng)
		require.NoError(t, err)
		counts[c.Entry.ID]++
	}

	// Pool is nine slots of A to one of B.
	assert.InDelta(t, 0.9, float64(counts["A"])/draws, 0.02)
	assert.InDelta(t, 0.1, float64(counts["B"])/draws, 0.02)
}

func TestDraw_Empty(t *testing.T) {
	_, err := Draw(nil, seeded())
	assert.True(t, errors.Is(err, ErrNothingToPick))
}

func TestPick_FiltersTypeAndWatched(t *testing.T) {
	library := []domain.Entry{
		{ID: "m-watched", Type: domain.MediaMovie, Status: domain.StatusWatched},
		{ID: "series", Type: domain.MediaSeries, Status: domain.StatusWantToWatch},
		{ID: "movie", Type: domain.MediaMovie, Status: domain.StatusDropped},
	}

	rng := seeded()
	for range 50 {
		c, err := Pick(domain.MediaMovie, library, testNow, rng)
		require.NoError(t, err)
		assert.Equal(t, "movie", c.Entry.ID)
	}
}

func TestPick_NothingEligible(t *testing.T) {
	library := []domain.Entry{
		{ID: "m", Type: domain.MediaMovie, Status: domain.StatusWatched},
	}

	_, err := Pick(domain.MediaMovie, library, testNow, seeded())
	assert.ErrorIs(t, err, ErrNothingToPick)

	_, err = Pick(domain.MediaSeries, library, testNow, seeded())
	assert.ErrorIs(t, err, ErrNothingToPick)
}

func TestPick_SameSeedSameResult(t *testing.T) {
	library := []domain.Entry{
		{ID: "a", Type: domain.MediaMovie, Status: domain.StatusWantToWatch},
		{ID: "b", Type: domain.MediaMovie, Status: domain.StatusWantToWatch, TMDbPopularity: 200},
		{ID: "c", Type: domain.MediaMovie, Status: domain.StatusWatching},
	}

	first, err := Pick(domain.MediaMovie, library, testNow, seeded())
	require.NoError(t, err)
	second, err := Pick(domain.MediaMovie, library, testNow, seeded())
	require.NoError(t, err)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)
}

func TestCandidates_Weights(t *testing.T) {
	library := []domain.Entry{
		{ID: "plain", Type: domain.MediaMovie, Status: domain.StatusWantToWatch, DateAdded: testNow},
		{ID: "popular", Type: domain.MediaMovie, Status: domain.StatusWantToWatch, DateAdded: testNow, TMDbPopularity: 120},
	}

	got := Candidates(domain.MediaMovie, library, testNow)
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].Slots)
	assert.Equal(t, 6, got[1].Slots)
}
