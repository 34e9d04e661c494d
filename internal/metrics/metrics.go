// Package metrics exposes Prometheus metrics for the library service and its
// provider clients. Collectors register on the default registry and are
// served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PicksTotal counts weighted random picks by media type and outcome.
	PicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reeltrack_picks_total",
			Help: "Total number of random picks",
		},
		[]string{"type", "outcome"},
	)

	// NotificationsTotal counts notifications emitted, by type.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reeltrack_notifications_total",
			Help: "Total number of notifications emitted",
		},
		[]string{"type"},
	)

	// ProviderRequestsTotal counts outbound provider requests by outcome.
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reeltrack_provider_requests_total",
			Help: "Total number of outbound provider requests",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderRequestDuration tracks outbound provider latency.
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reeltrack_provider_request_duration_seconds",
			Help:    "Duration of outbound provider requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	// ProviderCacheTotal counts provider cache lookups by result.
	ProviderCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reeltrack_provider_cache_total",
			Help: "Provider response cache lookups",
		},
		[]string{"result"},
	)

	// BreakerState reports circuit breaker state (0 closed, 1 half-open, 2 open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reeltrack_breaker_state",
			Help: "Circuit breaker state: 0 closed, 1 half-open, 2 open",
		},
		[]string{"name"},
	)

	// SyncTotal counts mirror syncs by outcome.
	SyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reeltrack_sync_total",
			Help: "Total number of remote mirror syncs",
		},
		[]string{"outcome"},
	)

	// ImportItemsTotal counts imported items by outcome (added, skipped, unenriched).
	ImportItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reeltrack_import_items_total",
			Help: "Total number of import items processed",
		},
		[]string{"outcome"},
	)

	// LibraryEntries reports library size by media type.
	LibraryEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reeltrack_library_entries",
			Help: "Number of entries in the library",
		},
		[]string{"type"},
	)
)

// RecordProviderRequest records one outbound provider call.
func RecordProviderRequest(provider string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordPick records a picker draw.
func RecordPick(mediaType string, err error) {
	outcome := "picked"
	if err != nil {
		outcome = "empty"
	}
	PicksTotal.WithLabelValues(mediaType, outcome).Inc()
}

// RecordNotification records one emitted notification.
func RecordNotification(kind string) {
	NotificationsTotal.WithLabelValues(kind).Inc()
}

// RecordSync records a mirror sync.
func RecordSync(err error) {
	outcome := "success"
	if err != nil {
		outcome = "fallback"
	}
	SyncTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup records a provider cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ProviderCacheTotal.WithLabelValues(result).Inc()
}

// SetLibrarySize publishes the current library size.
func SetLibrarySize(movies, series int) {
	LibraryEntries.WithLabelValues("movie").Set(float64(movies))
	LibraryEntries.WithLabelValues("series").Set(float64(series))
}

// RecordImport records the outcome counts of one import run.
func RecordImport(added, skipped, unenriched int) {
	ImportItemsTotal.WithLabelValues("added").Add(float64(added))
	ImportItemsTotal.WithLabelValues("skipped").Add(float64(skipped))
	ImportItemsTotal.WithLabelValues("unenriched").Add(float64(unenriched))
}
