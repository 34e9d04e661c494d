package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings",
		Summary:     "Get settings",
		Description: "Returns display settings and streak state",
		Tags:        []string{"Settings"},
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPatch,
		Path:        "/api/v1/settings",
		Summary:     "Update settings",
		Description: "Updates display settings. Streak fields are read-only",
		Tags:        []string{"Settings"},
	}, s.handleUpdateSettings)
}

// SettingsOutput wraps the settings for Huma.
type SettingsOutput struct {
	Body domain.Settings
}

// UpdateSettingsRequest is the request body for updating settings.
type UpdateSettingsRequest struct {
	ShowPosters *bool   `json:"showPosters,omitempty" doc:"Show poster images"`
	DefaultSort *string `json:"defaultSort,omitempty" enum:"smartScore,dateAdded,rating,title,year,recentlyWatched" doc:"Default library order"`
}

// UpdateSettingsInput wraps the update settings request for Huma.
type UpdateSettingsInput struct {
	Body UpdateSettingsRequest
}

func (s *Server) handleGetSettings(_ context.Context, _ *struct{}) (*SettingsOutput, error) {
	return &SettingsOutput{Body: s.services.Library.Settings()}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	u := service.SettingsUpdate{ShowPosters: input.Body.ShowPosters}
	if input.Body.DefaultSort != nil {
		mode := domain.SortMode(*input.Body.DefaultSort)
		u.DefaultSort = &mode
	}

	settings, err := s.services.Library.UpdateSettings(ctx, u)
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Body: settings}, nil
}
