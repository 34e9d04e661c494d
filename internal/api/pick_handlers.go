package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/picker"
)

func (s *Server) registerPickRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "pickEntry",
		Method:      http.MethodPost,
		Path:        "/api/v1/pick",
		Summary:     "Pick something to watch",
		Description: "Draws a weighted random unwatched entry. Higher Smart Scores get more slots in the pool",
		Tags:        []string{"Picker"},
	}, s.handlePick)
}

// PickRequest is the request body for a pick.
type PickRequest struct {
	Type domain.MediaType `json:"type" enum:"movie,series" doc:"movie or series"`
}

// PickInput wraps the pick request for Huma.
type PickInput struct {
	Body PickRequest
}

// PickResponse contains the drawn entry and the pool it came from.
type PickResponse struct {
	Pick picker.Candidate   `json:"pick" doc:"Drawn entry with its score and slots"`
	Pool []picker.Candidate `json:"pool" doc:"Every candidate with its weight"`
}

// PickOutput wraps the pick response for Huma.
type PickOutput struct {
	Body PickResponse
}

func (s *Server) handlePick(_ context.Context, input *PickInput) (*PickOutput, error) {
	got, pool, err := s.services.Library.Pick(input.Body.Type)
	if err != nil {
		return nil, err
	}
	return &PickOutput{Body: PickResponse{Pick: got, Pool: pool}}, nil
}
