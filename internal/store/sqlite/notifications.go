package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/store"
)

const notificationColumns = `id, type, message, entry_id, read, created_at`

func scanNotification(scanner interface{ Scan(dest ...any) error }) (*domain.Notification, error) {
	var (
		n         domain.Notification
		entryID   sql.NullString
		read      int
		createdAt string
	)

	if err := scanner.Scan(&n.ID, &n.Type, &n.Message, &entryID, &read, &createdAt); err != nil {
		return nil, err
	}

	if entryID.Valid {
		id := entryID.String
		n.EntryID = &id
	}
	n.Read = read != 0

	var err error
	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotifications returns all notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}

// AddNotifications inserts notes in a single transaction.
func (s *Store) AddNotifications(ctx context.Context, notes ...domain.Notification) error {
	if len(notes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, n := range notes {
		var entryID sql.NullString
		if n.EntryID != nil {
			entryID = sql.NullString{String: *n.EntryID, Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notifications (`+notificationColumns+`)
			VALUES (?, ?, ?, ?, ?, ?)`,
			n.ID, string(n.Type), n.Message, entryID, boolInt(n.Read), formatTime(n.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert notification %s: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// MarkNotificationRead flips the read flag of one notification.
// Returns store.ErrNotificationNotFound if it does not exist.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotificationNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks every notification read.
func (s *Store) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE read = 0`)
	return err
}

// ClearNotifications deletes every notification.
func (s *Store) ClearNotifications(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notifications`)
	return err
}
