package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/HO1806/reeltrack/internal/domain"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Library statistics",
		Description: "Returns totals, rating distribution, genre breakdown and streaks",
		Tags:        []string{"Stats"},
	}, s.handleGetStats)
}

// StatsOutput wraps the library stats for Huma.
type StatsOutput struct {
	Body domain.LibraryStats
}

func (s *Server) handleGetStats(_ context.Context, _ *struct{}) (*StatsOutput, error) {
	return &StatsOutput{Body: s.services.Library.Stats()}, nil
}
