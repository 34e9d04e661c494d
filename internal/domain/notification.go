package domain

import "time"

// NotificationType identifies the rule that produced a notification.
type NotificationType string

// Notification types.
const (
	NotificationUnratedWatched    NotificationType = "UNRATED_WATCHED"
	NotificationDuplicateDetected NotificationType = "DUPLICATE_DETECTED"
	NotificationImportComplete    NotificationType = "IMPORT_COMPLETE"
	NotificationStreakMilestone   NotificationType = "STREAK_MILESTONE"
	NotificationMissingMetadata   NotificationType = "MISSING_METADATA"
	NotificationMissingIMDbID     NotificationType = "MISSING_IMDB_ID"
)

// Notification is an in-app message. After creation only Read changes.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	EntryID   *string          `json:"entryId"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
