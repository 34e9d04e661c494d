package service

import (
	"context"
	"fmt"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
)

// SettingsUpdate is a partial settings change. Nil fields are left as they
// are. Streak fields are derived and cannot be set.
type SettingsUpdate struct {
	ShowPosters *bool            `json:"showPosters,omitempty"`
	DefaultSort *domain.SortMode `json:"defaultSort,omitempty"`
}

// UpdateSettings applies u and persists the result.
func (s *LibraryService) UpdateSettings(ctx context.Context, u SettingsUpdate) (domain.Settings, error) {
	if u.DefaultSort != nil && !u.DefaultSort.Valid() {
		return domain.Settings{}, domainerrors.Validationf("unknown sort mode %q", *u.DefaultSort)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	if u.ShowPosters != nil {
		next.ShowPosters = *u.ShowPosters
	}
	if u.DefaultSort != nil {
		next.DefaultSort = *u.DefaultSort
	}

	if err := s.store.SaveSettings(ctx, next); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	s.settings = next

	s.logger.Info("settings updated",
		"show_posters", next.ShowPosters,
		"default_sort", next.DefaultSort,
	)
	return next, nil
}
