package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/HO1806/reeltrack/internal/api"
	"github.com/HO1806/reeltrack/internal/config"
	"github.com/HO1806/reeltrack/internal/logger"
	"github.com/HO1806/reeltrack/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	events := do.MustInvoke[*SSEManagerHandle](i)

	services := &api.Services{
		Library:    do.MustInvoke[*service.LibraryService](i),
		Import:     do.MustInvoke[*service.ImportService](i),
		Suggestion: do.MustInvoke[*service.SuggestionService](i),
		Metadata:   do.MustInvoke[*service.MetadataService](i),
		Search:     do.MustInvoke[*service.SearchService](i),
		Sync:       do.MustInvoke[*service.SyncService](i),
		Events:     events.Manager,
	}

	handler := api.NewServer(storeHandle.Store, services, api.Options{
		CORSOrigins:        cfg.Server.CORSOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Streams never go idle, so close them when shutdown begins.
	srv.RegisterOnShutdown(events.Stop)

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP server error")
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
