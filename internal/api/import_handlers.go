package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
)

func (s *Server) registerImportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "importStremio",
		Method:      http.MethodPost,
		Path:        "/api/v1/import",
		Summary:     "Import a Stremio export",
		Description: "Adds every title of a Stremio library export that is not already in the library",
		Tags:        []string{"Import"},
	}, s.handleImport)
}

// ImportItemRequest is one title of a Stremio export.
type ImportItemRequest struct {
	IMDbID string `json:"imdb_id,omitempty" doc:"IMDb id"`
	Title  string `json:"title" doc:"Title"`
	Type   string `json:"type" doc:"movie or series"`
	Status string `json:"status,omitempty" doc:"Watch status"`
}

// ImportRequest is a Stremio library export.
type ImportRequest struct {
	ExportedAt string              `json:"exported_at,omitempty" doc:"Export timestamp"`
	Source     string              `json:"source,omitempty" doc:"Exporter name"`
	Version    string              `json:"version,omitempty" doc:"Export format version"`
	Items      []ImportItemRequest `json:"items" doc:"Exported titles"`
}

// ImportInput wraps the import request for Huma.
type ImportInput struct {
	Body ImportRequest
}

// ImportOutput wraps the import result for Huma.
type ImportOutput struct {
	Body domain.ImportResult
}

func (s *Server) handleImport(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if s.services.Import == nil {
		return nil, domainerrors.Unavailable("import is not available")
	}

	data := domain.StremioImport{
		ExportedAt: input.Body.ExportedAt,
		Source:     input.Body.Source,
		Version:    input.Body.Version,
		Items:      make([]domain.StremioItem, len(input.Body.Items)),
	}
	for i, item := range input.Body.Items {
		data.Items[i] = domain.StremioItem{
			IMDbID: item.IMDbID,
			Title:  item.Title,
			Type:   domain.MediaType(item.Type),
			Status: domain.WatchStatus(item.Status),
		}
	}

	result, err := s.services.Import.Import(ctx, data)
	if err != nil {
		return nil, err
	}
	return &ImportOutput{Body: result}, nil
}
