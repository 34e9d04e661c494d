package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/http/response"
)

// maxLegacyBody caps legacy request bodies.
const maxLegacyBody = 1 << 20

// handleLegacyList returns the whole library as a bare array, newest first.
func (s *Server) handleLegacyList(w http.ResponseWriter, _ *http.Request) {
	library := s.services.Library.Snapshot()
	if library == nil {
		library = []domain.Entry{}
	}
	response.Raw(w, http.StatusOK, library, s.logger)
}

// handleLegacyUpsert inserts or replaces an entry by id.
func (s *Server) handleLegacyUpsert(w http.ResponseWriter, r *http.Request) {
	var e domain.Entry
	if err := decodeLegacyBody(w, r, &e); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	if err := s.services.Library.Upsert(r.Context(), e); err != nil {
		s.legacyError(w, err)
		return
	}
	response.OK(w, s.logger)
}

// handleLegacyUpdate replaces the entry at the path id.
func (s *Server) handleLegacyUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var e domain.Entry
	if err := decodeLegacyBody(w, r, &e); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	if _, err := s.services.Library.Replace(r.Context(), id, e); err != nil {
		s.legacyError(w, err)
		return
	}
	response.OK(w, s.logger)
}

// handleLegacyDelete removes an entry. Deleting an unknown id succeeds.
func (s *Server) handleLegacyDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.services.Library.Delete(r.Context(), id)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		s.legacyError(w, err)
		return
	}
	response.OK(w, s.logger)
}

func (s *Server) legacyError(w http.ResponseWriter, err error) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) && domainErr.Code != domainerrors.CodeInternal {
		response.HandleError(w, err, s.logger)
		return
	}
	s.logger.Error("legacy library request failed", "error", err)
	response.InternalError(w, err.Error(), s.logger)
}

func decodeLegacyBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxLegacyBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}
