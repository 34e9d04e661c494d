package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/HO1806/reeltrack/internal/config"
	"github.com/HO1806/reeltrack/internal/logger"
	"github.com/HO1806/reeltrack/internal/metadata/gemini"
	"github.com/HO1806/reeltrack/internal/metadata/tmdb"
	"github.com/HO1806/reeltrack/internal/remote"
	"github.com/HO1806/reeltrack/internal/service"
	"github.com/HO1806/reeltrack/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideLibraryService provides the library service with the persisted
// library already loaded.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	// The index must be attached to the store before the first write.
	_ = do.MustInvoke[*SearchIndexHandle](i)

	library := service.NewLibraryService(storeHandle.Store, log.Logger, service.LibraryOptions{})
	library.SetEventEmitter(do.MustInvoke[*SSEManagerHandle](i).Manager)
	if err := library.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}

	log.Info("Library loaded", "entries", len(library.Snapshot()))
	return library, nil
}

// ProvideImportService provides the Stremio import service.
func ProvideImportService(i do.Injector) (*service.ImportService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	library := do.MustInvoke[*service.LibraryService](i)
	tmdbClient := do.MustInvoke[*tmdb.Client](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	var metadata service.MetadataProvider
	if cfg.Import.Enrich && tmdbClient.Configured() {
		metadata = tmdbClient
	}

	return service.NewImportService(library, metadata, v, log.WithComponent("import").Logger), nil
}

// ProvideMetadataService provides the TMDB metadata service.
func ProvideMetadataService(i do.Injector) (*service.MetadataService, error) {
	library := do.MustInvoke[*service.LibraryService](i)
	tmdbClient := do.MustInvoke[*tmdb.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMetadataService(library, tmdbClient, log.Logger), nil
}

// ProvideSuggestionService provides the suggestion service.
func ProvideSuggestionService(i do.Injector) (*service.SuggestionService, error) {
	library := do.MustInvoke[*service.LibraryService](i)
	geminiClient := do.MustInvoke[*gemini.Client](i)
	tmdbClient := do.MustInvoke[*tmdb.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSuggestionService(library, geminiClient, tmdbClient, log.Logger), nil
}

// ProvideSyncService provides the mirror sync service.
func ProvideSyncService(i do.Injector) (*service.SyncService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	library := do.MustInvoke[*service.LibraryService](i)
	remoteClient := do.MustInvoke[*remote.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	var mirror service.Mirror
	if remoteClient.Configured() {
		mirror = remoteClient
	}

	return service.NewSyncService(library, mirror, service.DefaultSyncDebounce, cfg.Remote.SyncInterval, log.WithComponent("sync").Logger), nil
}
