// Package notify derives in-app notifications from library snapshots.
//
// Every rule is a pure function: it takes a snapshot, the current time and an
// id generator, and returns new notifications (plus an updated copy of the
// library where a rule needs to remember that it fired).
package notify

import (
	"fmt"
	"time"

	"github.com/HO1806/reeltrack/internal/domain"
)

// IDFunc generates notification ids.
type IDFunc func() string

func newNotification(kind domain.NotificationType, message string, entryID *string, now time.Time, newID IDFunc) domain.Notification {
	return domain.Notification{
		ID:        newID(),
		Type:      kind,
		Message:   message,
		EntryID:   entryID,
		CreatedAt: now,
	}
}

// UnratedWatched emits one notification for each watched entry that has no
// overall rating and has not been flagged yet. The returned library is a copy
// with NotifiedUnrated set on every entry that fired; when nothing fires the
// input slice is returned as is.
func UnratedWatched(library []domain.Entry, now time.Time, newID IDFunc) ([]domain.Entry, []domain.Notification) {
	var (
		out   []domain.Entry
		notes []domain.Notification
	)

	for i := range library {
		e := &library[i]
		if !e.IsWatched() || e.Rating.IsRated() || e.NotifiedUnrated {
			continue
		}
		if out == nil {
			out = domain.CloneLibrary(library)
		}
		out[i].NotifiedUnrated = true

		id := e.ID
		notes = append(notes, newNotification(
			domain.NotificationUnratedWatched,
			fmt.Sprintf("★ Rate '%s' — you watched it but haven't rated it yet", e.Title),
			&id, now, newID,
		))
	}

	if out == nil {
		return library, nil
	}
	return out, notes
}

// Duplicate checks a candidate title and year against the library. When it
// collides with an existing entry the returned notification describes the
// collision and carries no entry reference.
func Duplicate(title string, year int, library []domain.Entry, now time.Time, newID IDFunc) (domain.Notification, bool) {
	if !domain.IsDuplicate(title, year, library) {
		return domain.Notification{}, false
	}
	return newNotification(
		domain.NotificationDuplicateDetected,
		fmt.Sprintf("Double vision? '%s' (%d) is already in your library.", title, year),
		nil, now, newID,
	), true
}

// StreakMilestone emits a notification when a streak transition lands on a
// milestone length.
func StreakMilestone(current int, isMilestone bool, now time.Time, newID IDFunc) (domain.Notification, bool) {
	if !isMilestone {
		return domain.Notification{}, false
	}
	return newNotification(
		domain.NotificationStreakMilestone,
		fmt.Sprintf("🔥 %d-day watch streak! Keep it going.", current),
		nil, now, newID,
	), true
}

// ImportComplete summarizes an import run.
func ImportComplete(added, skipped int, now time.Time, newID IDFunc) domain.Notification {
	return newNotification(
		domain.NotificationImportComplete,
		fmt.Sprintf("Import complete: %d added, %d skipped", added, skipped),
		nil, now, newID,
	)
}

// MissingMetadata reports an entry that could not be enriched from the metadata provider.
func MissingMetadata(e domain.Entry, now time.Time, newID IDFunc) domain.Notification {
	id := e.ID
	return newNotification(
		domain.NotificationMissingMetadata,
		fmt.Sprintf("Couldn't find details for '%s'. You can fill them in by hand.", e.Title),
		&id, now, newID,
	)
}

// MissingIMDbID reports an entry without an IMDb id, which means no streaming link.
func MissingIMDbID(e domain.Entry, now time.Time, newID IDFunc) domain.Notification {
	id := e.ID
	return newNotification(
		domain.NotificationMissingIMDbID,
		fmt.Sprintf("'%s' has no IMDb id, so it can't be opened in Stremio.", e.Title),
		&id, now, newID,
	)
}
