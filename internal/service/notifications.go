package service

import (
	"context"
	"errors"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/store"
)

// Notifications returns every stored notification, newest first.
func (s *LibraryService) Notifications(ctx context.Context) ([]domain.Notification, error) {
	return s.store.ListNotifications(ctx)
}

// MarkNotificationRead marks one notification read.
func (s *LibraryService) MarkNotificationRead(ctx context.Context, id string) error {
	err := s.store.MarkNotificationRead(ctx, id)
	if errors.Is(err, store.ErrNotificationNotFound) {
		return domainerrors.NotFoundf("notification %s not found", id)
	}
	return err
}

// MarkAllNotificationsRead marks every notification read.
func (s *LibraryService) MarkAllNotificationsRead(ctx context.Context) error {
	return s.store.MarkAllNotificationsRead(ctx)
}

// ClearNotifications deletes every notification.
func (s *LibraryService) ClearNotifications(ctx context.Context) error {
	if err := s.store.ClearNotifications(ctx); err != nil {
		return err
	}
	s.logger.Info("notifications cleared")
	return nil
}
