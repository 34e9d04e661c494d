package gemini

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/HO1806/reeltrack/internal/domain"
)

type rawSuggestion struct {
	Title  string  `json:"title"`
	Year   int     `json:"year"`
	Type   string  `json:"type"`
	Reason string  `json:"reason"`
	IMDbID *string `json:"imdb_id"`
	Poster *string `json:"poster"`
}

// ParseSuggestions decodes the model's reply. Markdown code fences are
// stripped first. Items without a title, a year or a movie/series type are
// dropped; the rest are returned in reply order. AlreadyInWatchlist is left
// for the caller to fill in.
func ParseSuggestions(text string) ([]domain.Suggestion, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var raw []rawSuggestion
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	out := make([]domain.Suggestion, 0, len(raw))
	for _, r := range raw {
		t := domain.MediaType(strings.ToLower(strings.TrimSpace(r.Type)))
		title := strings.TrimSpace(r.Title)
		if title == "" || r.Year <= 0 || !t.Valid() {
			continue
		}
		out = append(out, domain.Suggestion{
			Title:  title,
			Year:   r.Year,
			Type:   t,
			Reason: r.Reason,
			IMDbID: nonEmpty(r.IMDbID),
			Poster: nonEmpty(r.Poster),
		})
	}
	return out, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}
