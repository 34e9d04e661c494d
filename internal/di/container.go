// Package di provides dependency injection configuration for the ReelTrack server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/HO1806/reeltrack/internal/config"
	"github.com/HO1806/reeltrack/internal/di/providers"
	"github.com/HO1806/reeltrack/internal/logger"
	"github.com/HO1806/reeltrack/internal/metadata/gemini"
	"github.com/HO1806/reeltrack/internal/metadata/tmdb"
	"github.com/HO1806/reeltrack/internal/remote"
	"github.com/HO1806/reeltrack/internal/service"
	"github.com/HO1806/reeltrack/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideCache)
	do.Provide(injector, providers.ProvideSSEManager)

	// External providers
	do.Provide(injector, providers.ProvideTMDBClient)
	do.Provide(injector, providers.ProvideGeminiClient)
	do.Provide(injector, providers.ProvideRemoteClient)

	// Business services
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideImportService)
	do.Provide(injector, providers.ProvideMetadataService)
	do.Provide(injector, providers.ProvideSuggestionService)
	do.Provide(injector, providers.ProvideSyncService)

	// Workers
	do.Provide(injector, providers.ProvideSupervisor)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the background workers and
// the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.CacheHandle](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*tmdb.Client](injector)
	_ = do.MustInvoke[*gemini.Client](injector)
	_ = do.MustInvoke[*remote.Client](injector)

	// Business services
	if _, err := do.Invoke[*service.LibraryService](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.ImportService](injector)
	_ = do.MustInvoke[*service.MetadataService](injector)
	_ = do.MustInvoke[*service.SuggestionService](injector)
	_ = do.MustInvoke[*service.SyncService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SupervisorHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Trigger search reindex if needed
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
