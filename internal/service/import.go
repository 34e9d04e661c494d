package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/metadata/tmdb"
	"github.com/HO1806/reeltrack/internal/metrics"
	"github.com/HO1806/reeltrack/internal/notify"
	"github.com/HO1806/reeltrack/internal/validation"
	"github.com/HO1806/reeltrack/internal/watcher"
)

// Drop-folder subdirectories that processed files are moved into.
const (
	processedDir = "processed"
	failedDir    = "failed"
)

// ImportService brings Stremio library exports into the library.
type ImportService struct {
	library   *LibraryService
	metadata  MetadataProvider
	validator *validation.Validator
	logger    *slog.Logger
}

// NewImportService creates a new import service. metadata may be nil, in
// which case imported entries stay skeletons.
func NewImportService(library *LibraryService, metadata MetadataProvider, v *validation.Validator, logger *slog.Logger) *ImportService {
	return &ImportService{
		library:   library,
		metadata:  metadata,
		validator: v,
		logger:    logger,
	}
}

// Import adds every item of data that is not already in the library.
// An item is skipped when an existing entry, or an earlier item of the same
// file, has the same IMDb id or normalized title. New entries start as
// skeletons and are enriched from the metadata provider when it is
// configured; an enrichment failure keeps the skeleton and is reported as a
// MISSING_METADATA notification. A malformed payload writes nothing.
func (s *ImportService) Import(ctx context.Context, data domain.StremioImport) (domain.ImportResult, error) {
	if err := s.validator.Validate(data); err != nil {
		return domain.ImportResult{}, err
	}

	lib := s.library
	now := lib.Now()
	seen := lib.Snapshot()

	var (
		result domain.ImportResult
		fresh  []domain.Entry
		notes  []domain.Notification
	)

	for _, item := range data.Items {
		if err := ctx.Err(); err != nil {
			return domain.ImportResult{}, err
		}

		if domain.FindImportMatch(item.IMDbID, item.Title, seen) >= 0 {
			result.Skipped++
			continue
		}

		e := skeletonFromImport(lib.newEntryID(), item, now)
		if s.enabled() {
			if err := s.enrich(ctx, &e, item.IMDbID != ""); err != nil {
				s.logger.Warn("import enrichment failed",
					"title", item.Title,
					"error", err,
				)
				result.Unenriched++
				notes = append(notes, notify.MissingMetadata(e, now, lib.newNoteID))
			}
		}
		if e.IMDbID == "" {
			notes = append(notes, notify.MissingIMDbID(e, now, lib.newNoteID))
		}

		fresh = append(fresh, e)
		seen = append(seen, e)
	}

	notes = append(notes, notify.ImportComplete(len(fresh), result.Skipped, now, lib.newNoteID))

	added, err := lib.AddMany(ctx, fresh, notes)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("save imported entries: %w", err)
	}
	result.Added = added
	if result.Added == nil {
		result.Added = []domain.Entry{}
	}
	metrics.RecordImport(len(added), result.Skipped, result.Unenriched)

	s.logger.Info("import complete",
		"source", data.Source,
		"added", len(added),
		"skipped", result.Skipped,
		"unenriched", result.Unenriched,
	)
	return result, nil
}

// ImportFile reads a Stremio export from path and imports it.
func (s *ImportService) ImportFile(ctx context.Context, path string) (domain.ImportResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("read import file: %w", err)
	}

	var data domain.StremioImport
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.ImportResult{}, domainerrors.Validationf("invalid import file %s: %v", filepath.Base(path), err)
	}
	return s.Import(ctx, data)
}

// RunWatcher imports every export already in dir and then every export
// dropped into it until ctx is done. Each file is moved to processed/ or
// failed/ afterwards so it is only imported once.
func (s *ImportService) RunWatcher(ctx context.Context, w *watcher.Watcher, dir string) error {
	if err := w.Watch(dir); err != nil {
		return fmt.Errorf("watch import dir: %w", err)
	}

	existing, err := w.Existing(dir)
	if err != nil {
		return fmt.Errorf("list import dir: %w", err)
	}
	for _, path := range existing {
		s.importDropped(ctx, dir, path)
	}

	go func() {
		if err := w.Start(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("import watcher stopped", "error", err)
		}
	}()

	s.logger.Info("watching import folder", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return w.Stop()
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if ev.Type == watcher.EventAdded && filepath.Dir(ev.Path) == filepath.Clean(dir) {
				s.importDropped(ctx, dir, ev.Path)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			s.logger.Warn("import watcher error", "error", err)
		}
	}
}

func (s *ImportService) importDropped(ctx context.Context, dir, path string) {
	target := processedDir
	result, err := s.ImportFile(ctx, path)
	if err != nil {
		target = failedDir
		s.logger.Warn("dropped import failed", "path", path, "error", err)
	} else {
		s.logger.Info("dropped import done",
			"path", path,
			"added", len(result.Added),
			"skipped", result.Skipped,
		)
	}

	dest := filepath.Join(dir, target)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		s.logger.Error("create import archive dir", "dir", dest, "error", err)
		return
	}
	if err := os.Rename(path, filepath.Join(dest, filepath.Base(path))); err != nil {
		s.logger.Error("move import file", "path", path, "error", err)
	}
}

func (s *ImportService) enabled() bool {
	return s.metadata != nil && s.metadata.Configured()
}

// enrich fills e from the provider. With a known IMDb id only an exact
// title match is trusted; otherwise the first result of the right kind is.
func (s *ImportService) enrich(ctx context.Context, e *domain.Entry, haveIMDbID bool) error {
	results, err := s.metadata.SearchMulti(ctx, e.Title)
	if err != nil {
		return err
	}

	kind := tmdb.KindFor(e.Type)
	match, ok := tmdb.BestMatch(results, kind, e.Title, haveIMDbID)
	if !ok {
		return tmdb.ErrNoMatch
	}

	md, err := s.metadata.Metadata(ctx, match.ID, kind)
	if err != nil {
		return err
	}
	md.ApplyTo(e)
	return nil
}

func skeletonFromImport(id string, item domain.StremioItem, now time.Time) domain.Entry {
	e := domain.NewEntry(id, item.Type, item.Title, now)
	if item.Status != "" {
		e.Status = item.Status
	}
	e.IMDbID = item.IMDbID
	e.StreamingURL = domain.StremioURL(item.Type, item.IMDbID)
	return e
}
