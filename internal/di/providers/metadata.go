package providers

import (
	"github.com/samber/do/v2"

	"github.com/HO1806/reeltrack/internal/config"
	"github.com/HO1806/reeltrack/internal/logger"
	"github.com/HO1806/reeltrack/internal/metadata/cache"
	"github.com/HO1806/reeltrack/internal/metadata/gemini"
	"github.com/HO1806/reeltrack/internal/metadata/tmdb"
	"github.com/HO1806/reeltrack/internal/remote"
)

// CacheHandle wraps the provider response cache with shutdown capability.
type CacheHandle struct {
	*cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	if h.Cache == nil {
		return nil
	}
	return h.Close()
}

// ProvideCache provides the badger cache for TMDB responses. A cache that
// fails to open is logged and skipped; lookups then always hit the network.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.TMDB.Enabled() {
		return &CacheHandle{}, nil
	}

	c, err := cache.Open(cfg.Data.CachePath(), cfg.TMDB.CacheTTL, log.Logger)
	if err != nil {
		log.WithError(err).Warn("Provider cache unavailable, continuing without it")
		return &CacheHandle{}, nil
	}

	log.Info("Provider cache initialized", "path", cfg.Data.CachePath(), "ttl", cfg.TMDB.CacheTTL)
	return &CacheHandle{Cache: c}, nil
}

// ProvideTMDBClient provides the TMDB metadata client. Without an API key
// the client reports itself unconfigured and metadata features answer 503.
func ProvideTMDBClient(i do.Injector) (*tmdb.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)

	client := tmdb.New(tmdb.Config{
		APIKey:         cfg.TMDB.APIKey,
		BaseURL:        cfg.TMDB.BaseURL,
		ImageBaseURL:   cfg.TMDB.ImageBaseURL,
		Timeout:        cfg.TMDB.Timeout,
		RequestSpacing: cfg.TMDB.RequestSpacing,
	}, cacheHandle.Cache, log.WithComponent("tmdb").Logger)

	if !client.Configured() {
		log.Info("TMDB API key not set, metadata enrichment disabled")
	}
	return client, nil
}

// ProvideGeminiClient provides the suggestion client.
func ProvideGeminiClient(i do.Injector) (*gemini.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := gemini.New(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	}, log.WithComponent("gemini").Logger)

	if !client.Configured() {
		log.Info("Gemini API key not set, suggestions disabled")
	}
	return client, nil
}

// ProvideRemoteClient provides the remote library mirror client.
func ProvideRemoteClient(i do.Injector) (*remote.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := remote.New(cfg.Remote.BaseURL, cfg.Remote.Timeout, log.WithComponent("remote").Logger)
	if client.Configured() {
		log.Info("Remote mirror configured", "url", cfg.Remote.BaseURL)
	}
	return client, nil
}
