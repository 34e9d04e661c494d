package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/HO1806/reeltrack/internal/domain"
)

// GetSettings returns the stored settings, or domain.DefaultSettings when
// nothing has been saved yet.
func (s *Store) GetSettings(ctx context.Context) (domain.Settings, error) {
	var (
		st          domain.Settings
		showPosters int
		lastWatched sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT show_posters, default_sort, best_streak, current_streak, last_watched_date
		FROM settings WHERE id = 1`).Scan(
		&showPosters,
		&st.DefaultSort,
		&st.BestStreak,
		&st.CurrentStreak,
		&lastWatched,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, err
	}

	st.ShowPosters = showPosters != 0
	st.LastWatchedDate = lastWatched.String
	return st, nil
}

// SaveSettings writes the single settings row.
func (s *Store) SaveSettings(ctx context.Context, st domain.Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, show_posters, default_sort, best_streak, current_streak, last_watched_date, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			show_posters = excluded.show_posters,
			default_sort = excluded.default_sort,
			best_streak = excluded.best_streak,
			current_streak = excluded.current_streak,
			last_watched_date = excluded.last_watched_date,
			updated_at = excluded.updated_at`,
		boolInt(st.ShowPosters),
		string(st.DefaultSort),
		st.BestStreak,
		st.CurrentStreak,
		nullString(st.LastWatchedDate),
		formatTime(time.Now()),
	)
	return err
}
