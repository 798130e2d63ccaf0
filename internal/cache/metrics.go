package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PageLookupsTotal counts envelope lookups by outcome.
	// Labels: result (hit, miss)
	PageLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_cache_page_lookups_total",
			Help: "Total number of page envelope lookups",
		},
		[]string{"result"},
	)

	// InvalidationsTotal counts whole-cache invalidations.
	InvalidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_cache_invalidations_total",
			Help: "Total number of whole-cache invalidations",
		},
	)

	// MaterializationsTotal counts payload materialization attempts by outcome.
	// Labels: status (success, failure, skipped)
	MaterializationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_payload_materializations_total",
			Help: "Total number of binary payload materialization attempts",
		},
		[]string{"status"},
	)

	// HandlesGauge tracks the number of live payload handles.
	HandlesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_payload_handles",
			Help: "Current number of materialized payload handles",
		},
	)

	// PhotosCachedGauge tracks the number of distinct photos in the metadata map.
	PhotosCachedGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_cache_photos",
			Help: "Current number of distinct photos in the metadata cache",
		},
	)
)

// RecordPageLookup records an envelope lookup outcome.
// result should be "hit" or "miss".
func RecordPageLookup(result string) {
	PageLookupsTotal.WithLabelValues(result).Inc()
}

// RecordInvalidation records a whole-cache invalidation.
func RecordInvalidation() {
	InvalidationsTotal.Inc()
}

// RecordMaterialization records a payload materialization attempt.
// status should be one of "success", "failure", "skipped".
func RecordMaterialization(status string) {
	MaterializationsTotal.WithLabelValues(status).Inc()
}

// UpdateHandleCount updates the live payload handle gauge.
func UpdateHandleCount(n int) {
	HandlesGauge.Set(float64(n))
}

// UpdatePhotoCount updates the cached photo gauge.
func UpdatePhotoCount(n int) {
	PhotosCachedGauge.Set(float64(n))
}
