package domain

import "github.com/goccy/go-json"

// DateLayout is the calendar-date format used for streak bookkeeping.
const DateLayout = "2006-01-02"

// SortMode selects how the library view is ordered.
type SortMode string

// Sort modes.
const (
	SortSmartScore      SortMode = "smartScore"
	SortDateAdded       SortMode = "dateAdded"
	SortRating          SortMode = "rating"
	SortTitle           SortMode = "title"
	SortYear            SortMode = "year"
	SortRecentlyWatched SortMode = "recentlyWatched"
)

// Valid reports whether m is a known sort mode.
func (m SortMode) Valid() bool {
	switch m {
	case SortSmartScore, SortDateAdded, SortRating, SortTitle, SortYear, SortRecentlyWatched:
		return true
	}
	return false
}

// Settings is the persisted user settings record, including streak state.
// Provider API keys live in server configuration, not here.
type Settings struct {
	ShowPosters   bool     `json:"showPosters"`
	DefaultSort   SortMode `json:"defaultSort"`
	BestStreak    int      `json:"bestStreak"`
	CurrentStreak int      `json:"currentStreak"`
	// LastWatchedDate is YYYY-MM-DD, empty when nothing has been watched yet.
	// It serializes as null while empty.
	LastWatchedDate string `json:"lastWatchedDate" nullable:"true"`
}

type settingsJSON struct {
	ShowPosters     bool     `json:"showPosters"`
	DefaultSort     SortMode `json:"defaultSort"`
	BestStreak      int      `json:"bestStreak"`
	CurrentStreak   int      `json:"currentStreak"`
	LastWatchedDate *string  `json:"lastWatchedDate"`
}

// MarshalJSON writes an empty LastWatchedDate as null.
func (s Settings) MarshalJSON() ([]byte, error) {
	out := settingsJSON{
		ShowPosters:   s.ShowPosters,
		DefaultSort:   s.DefaultSort,
		BestStreak:    s.BestStreak,
		CurrentStreak: s.CurrentStreak,
	}
	if s.LastWatchedDate != "" {
		d := s.LastWatchedDate
		out.LastWatchedDate = &d
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts null or a missing lastWatchedDate as empty.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var in settingsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Settings{
		ShowPosters:   in.ShowPosters,
		DefaultSort:   in.DefaultSort,
		BestStreak:    in.BestStreak,
		CurrentStreak: in.CurrentStreak,
	}
	if in.LastWatchedDate != nil {
		s.LastWatchedDate = *in.LastWatchedDate
	}
	return nil
}

// DefaultSettings returns the settings a fresh library starts with.
func DefaultSettings() Settings {
	return Settings{
		ShowPosters: true,
		DefaultSort: SortSmartScore,
	}
}
