package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/store"
)

// entryColumns is the ordered list of columns selected in library queries.
// Must match the scan order in scanEntry and the argument order in entryArgs.
const entryColumns = `id, type, title, year, genres, poster, description, director,
	cast_members, runtime, seasons, current_season, current_episode, status, rating,
	rewatch_count, streaming_url, imdb_id, tmdb_id, tmdb_popularity, vote_average,
	imdb_rating, personal_note, date_added, date_watched, tags, is_favorite, is_pinned,
	notified_unrated`

const upsertEntrySQL = `
	INSERT INTO library (` + entryColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		type = excluded.type,
		title = excluded.title,
		year = excluded.year,
		genres = excluded.genres,
		poster = excluded.poster,
		description = excluded.description,
		director = excluded.director,
		cast_members = excluded.cast_members,
		runtime = excluded.runtime,
		seasons = excluded.seasons,
		current_season = excluded.current_season,
		current_episode = excluded.current_episode,
		status = excluded.status,
		rating = excluded.rating,
		rewatch_count = excluded.rewatch_count,
		streaming_url = excluded.streaming_url,
		imdb_id = excluded.imdb_id,
		tmdb_id = excluded.tmdb_id,
		tmdb_popularity = excluded.tmdb_popularity,
		vote_average = excluded.vote_average,
		imdb_rating = excluded.imdb_rating,
		personal_note = excluded.personal_note,
		date_added = excluded.date_added,
		date_watched = excluded.date_watched,
		tags = excluded.tags,
		is_favorite = excluded.is_favorite,
		is_pinned = excluded.is_pinned,
		notified_unrated = excluded.notified_unrated`

// scanEntry scans a sql.Row (or sql.Rows via its Scan method) into a domain.Entry.
func scanEntry(scanner interface{ Scan(dest ...any) error }) (*domain.Entry, error) {
	var e domain.Entry

	var (
		genres, cast, rating, tags     string
		imdbID                         sql.NullString
		tmdbID                         sql.NullInt64
		dateAdded                      string
		dateWatched                    sql.NullString
		isFavorite, isPinned, notified int
	)

	err := scanner.Scan(
		&e.ID,
		&e.Type,
		&e.Title,
		&e.Year,
		&genres,
		&e.Poster,
		&e.Description,
		&e.Director,
		&cast,
		&e.Runtime,
		&e.Seasons,
		&e.CurrentSeason,
		&e.CurrentEpisode,
		&e.Status,
		&rating,
		&e.RewatchCount,
		&e.StreamingURL,
		&imdbID,
		&tmdbID,
		&e.TMDbPopularity,
		&e.VoteAverage,
		&e.IMDbRating,
		&e.PersonalNote,
		&dateAdded,
		&dateWatched,
		&tags,
		&isFavorite,
		&isPinned,
		&notified,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalColumns(
		column{"genres", genres, &e.Genres},
		column{"cast_members", cast, &e.Cast},
		column{"rating", rating, &e.Rating},
		column{"tags", tags, &e.Tags},
	); err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.ID, err)
	}

	e.IMDbID = imdbID.String
	e.TMDbID = int(tmdbID.Int64)
	e.IsFavorite = isFavorite != 0
	e.IsPinned = isPinned != 0
	e.NotifiedUnrated = notified != 0

	e.DateAdded, err = parseTime(dateAdded)
	if err != nil {
		return nil, err
	}
	e.DateWatched, err = parseNullableTime(dateWatched)
	if err != nil {
		return nil, err
	}

	e.Normalize()
	return &e, nil
}

type column struct {
	name string
	raw  string
	dest any
}

func unmarshalColumns(cols ...column) error {
	for _, c := range cols {
		if c.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(c.raw), c.dest); err != nil {
			return fmt.Errorf("decode %s: %w", c.name, err)
		}
	}
	return nil
}

// entryArgs returns the insert arguments for e in entryColumns order.
func entryArgs(e *domain.Entry) ([]any, error) {
	e.Normalize()

	genres, err := json.Marshal(e.Genres)
	if err != nil {
		return nil, err
	}
	cast, err := json.Marshal(e.Cast)
	if err != nil {
		return nil, err
	}
	rating, err := json.Marshal(e.Rating)
	if err != nil {
		return nil, err
	}
	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return nil, err
	}

	return []any{
		e.ID,
		string(e.Type),
		e.Title,
		e.Year,
		string(genres),
		e.Poster,
		e.Description,
		e.Director,
		string(cast),
		e.Runtime,
		e.Seasons,
		e.CurrentSeason,
		e.CurrentEpisode,
		string(e.Status),
		string(rating),
		e.RewatchCount,
		e.StreamingURL,
		nullString(e.IMDbID),
		nullInt64(int64(e.TMDbID)),
		e.TMDbPopularity,
		e.VoteAverage,
		e.IMDbRating,
		e.PersonalNote,
		formatTime(e.DateAdded),
		nullTimeString(e.DateWatched),
		string(tags),
		boolInt(e.IsFavorite),
		boolInt(e.IsPinned),
		boolInt(e.NotifiedUnrated),
	}, nil
}

// ListEntries returns every entry, newest first.
func (s *Store) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM library ORDER BY date_added DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetEntry retrieves an entry by id.
// Returns store.ErrEntryNotFound if it does not exist.
func (s *Store) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM library WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpsertEntry inserts e or replaces the stored row with the same id.
func (s *Store) UpsertEntry(ctx context.Context, e *domain.Entry) error {
	args, err := entryArgs(e)
	if err != nil {
		return fmt.Errorf("encode entry %s: %w", e.ID, err)
	}
	if _, err := s.db.ExecContext(ctx, upsertEntrySQL, args...); err != nil {
		return fmt.Errorf("upsert entry %s: %w", e.ID, err)
	}
	s.index(ctx, e)
	return nil
}

// UpdateEntry replaces an existing entry.
// Returns store.ErrEntryNotFound if no row has e.ID.
func (s *Store) UpdateEntry(ctx context.Context, e *domain.Entry) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM library WHERE id = ?`, e.ID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrEntryNotFound
	}
	if err != nil {
		return err
	}
	return s.UpsertEntry(ctx, e)
}

// DeleteEntry removes an entry.
// Returns store.ErrEntryNotFound if it does not exist.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM library WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrEntryNotFound
	}

	if err := s.searchIndexer.DeleteEntry(ctx, id); err != nil {
		s.logger.Warn("failed to remove entry from search index", "entry_id", id, "error", err)
	}
	return nil
}

// SaveEntries upserts entries in a single transaction.
func (s *Store) SaveEntries(ctx context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, upsertEntrySQL)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := range entries {
		args, err := entryArgs(&entries[i])
		if err != nil {
			return fmt.Errorf("encode entry %s: %w", entries[i].ID, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("upsert entry %s: %w", entries[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	for i := range entries {
		s.index(ctx, &entries[i])
	}
	return nil
}

func (s *Store) index(ctx context.Context, e *domain.Entry) {
	if err := s.searchIndexer.IndexEntry(ctx, e); err != nil {
		s.logger.Warn("failed to index entry", "entry_id", e.ID, "error", err)
	}
}
