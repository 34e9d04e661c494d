package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/HO1806/reeltrack/internal/errors"
)

func (s *Server) registerSyncRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "syncNow",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync",
		Summary:     "Sync with mirror",
		Description: "Pushes local additions, edits and deletions to the remote mirror, then adds mirror entries the library lacks. Local entries are never overwritten",
		Tags:        []string{"Sync"},
	}, s.handleSyncNow)
}

// SyncResponse describes one sync pass.
type SyncResponse struct {
	Pushed  int    `json:"pushed" doc:"Entries created on the mirror"`
	Updated int    `json:"updated" doc:"Local edits sent to the mirror"`
	Deleted int    `json:"deleted" doc:"Local deletions sent to the mirror"`
	Entries int    `json:"entries" doc:"Mirror size after the pass"`
	Error   string `json:"error,omitempty" doc:"Why the pass stopped early"`
}

// SyncOutput wraps the sync response for Huma.
type SyncOutput struct {
	Body SyncResponse
}

func (s *Server) handleSyncNow(ctx context.Context, _ *struct{}) (*SyncOutput, error) {
	if s.services.Sync == nil {
		return nil, domainerrors.Unavailable("no remote mirror configured")
	}

	res, err := s.services.Sync.SyncNow(ctx)
	if err != nil {
		return nil, err
	}

	resp := SyncResponse{
		Pushed:  res.Pushed,
		Updated: res.Updated,
		Deleted: res.Deleted,
		Entries: len(res.Entries),
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	return &SyncOutput{Body: resp}, nil
}
