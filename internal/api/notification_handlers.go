package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/HO1806/reeltrack/internal/domain"
)

func (s *Server) registerNotificationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications",
		Summary:     "List notifications",
		Description: "Returns every notification, newest first, with the unread count",
		Tags:        []string{"Notifications"},
	}, s.handleListNotifications)

	huma.Register(s.api, huma.Operation{
		OperationID: "markNotificationRead",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/{id}/read",
		Summary:     "Mark notification read",
		Tags:        []string{"Notifications"},
	}, s.handleMarkNotificationRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "markAllNotificationsRead",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/read-all",
		Summary:     "Mark all notifications read",
		Tags:        []string{"Notifications"},
	}, s.handleMarkAllNotificationsRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearNotifications",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notifications",
		Summary:     "Clear notifications",
		Tags:        []string{"Notifications"},
	}, s.handleClearNotifications)
}

// ListNotificationsResponse contains notifications and the unread count.
type ListNotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications" doc:"Notifications, newest first"`
	Unread        int                   `json:"unread" doc:"Number of unread notifications"`
}

// ListNotificationsOutput wraps the list notifications response for Huma.
type ListNotificationsOutput struct {
	Body ListNotificationsResponse
}

// NotificationIDInput identifies a notification by path.
type NotificationIDInput struct {
	ID string `path:"id" doc:"Notification ID"`
}

func (s *Server) handleListNotifications(ctx context.Context, _ *struct{}) (*ListNotificationsOutput, error) {
	notes, err := s.services.Library.Notifications(ctx)
	if err != nil {
		return nil, err
	}

	unread := 0
	for _, n := range notes {
		if !n.Read {
			unread++
		}
	}
	if notes == nil {
		notes = []domain.Notification{}
	}

	return &ListNotificationsOutput{
		Body: ListNotificationsResponse{Notifications: notes, Unread: unread},
	}, nil
}

func (s *Server) handleMarkNotificationRead(ctx context.Context, input *NotificationIDInput) (*MessageOutput, error) {
	if err := s.services.Library.MarkNotificationRead(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Notification marked read"}}, nil
}

func (s *Server) handleMarkAllNotificationsRead(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if err := s.services.Library.MarkAllNotificationsRead(ctx); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "All notifications marked read"}}, nil
}

func (s *Server) handleClearNotifications(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if err := s.services.Library.ClearNotifications(ctx); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Notifications cleared"}}, nil
}
