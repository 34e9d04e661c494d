package gemini

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/HO1806/reeltrack/internal/domain"
)

const (
	suggestionCount = 10
	lovedLimit      = 10
	dislikedLimit   = 5
	lovedThreshold  = 7.0
	dislikeCeiling  = 5.0
	noneYet         = "None yet"
)

// BuildPrompt renders the taste-profile prompt for a library snapshot.
func BuildPrompt(library []domain.Entry) string {
	var favorites, loved, disliked, owned []string

	rated := make([]domain.Entry, 0, len(library))
	for _, e := range library {
		if e.IsFavorite {
			favorites = append(favorites, fmt.Sprintf("%s (%d) - %s", e.Title, e.Year, e.Type))
		}
		owned = append(owned, fmt.Sprintf("%s (%d)", e.Title, e.Year))
		if e.Rating.OverallOr(0) > 0 {
			rated = append(rated, e)
		}
	}

	slices.SortStableFunc(rated, func(a, b domain.Entry) int {
		return cmp.Compare(b.Rating.OverallOr(0), a.Rating.OverallOr(0))
	})
	for _, e := range rated {
		if len(loved) == lovedLimit {
			break
		}
		if e.Rating.OverallOr(0) >= lovedThreshold {
			loved = append(loved, ratedLine(e))
		}
	}
	for i := len(rated) - 1; i >= 0 && len(disliked) < dislikedLimit; i-- {
		if rated[i].Rating.OverallOr(0) <= dislikeCeiling {
			disliked = append(disliked, ratedLine(rated[i]))
		}
	}

	var b strings.Builder
	b.WriteString("You are a personal movie and series recommendation engine with excellent taste.\n\n")
	b.WriteString("The user has the following taste profile:\n\n")
	section(&b, "FAVORITES (absolute favorites)", favorites)
	section(&b, "HIGHLY RATED (loved these)", loved)
	section(&b, "DISLIKED (low ratings)", disliked)
	section(&b, "ALREADY IN LIBRARY (DO NOT RECOMMEND THESE)", owned)
	fmt.Fprintf(&b, "Your task: Suggest exactly %d NEW movies or series this user would love based on their favorites and high ratings.\n", suggestionCount)
	b.WriteString("Never suggest titles already in their library (watched or unwatched).\n")
	b.WriteString("For each, write one sentence explaining WHY based on their specific taste.\n\n")
	b.WriteString("Respond ONLY with a valid JSON array, no markdown, no explanation, just the array:\n")
	b.WriteString(`[
  {
    "title": "...",
    "year": 2019,
    "type": "movie or series",
    "reason": "Because you loved X and Y which share similar themes...",
    "imdb_id": "tt... if you know it confidently, else null",
    "poster": "URL to the poster image if you can find one, else null"
  }
]`)
	return b.String()
}

func ratedLine(e domain.Entry) string {
	return fmt.Sprintf("%s (%d) - %s - rated %g/10", e.Title, e.Year, strings.Join(e.Genres, ", "), e.Rating.OverallOr(0))
}

func section(b *strings.Builder, heading string, lines []string) {
	b.WriteString(heading)
	b.WriteString(":\n")
	if len(lines) == 0 {
		b.WriteString(noneYet)
	} else {
		b.WriteString(strings.Join(lines, "\n"))
	}
	b.WriteString("\n\n")
}
