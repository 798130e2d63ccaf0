package pagination

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts the total number of pagination requests.
	// Labels: status (HTTP status code), page_range (page bucket: 1-10, 11-50, etc.)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_pagination_requests_total",
			Help: "Total number of paginated feed requests",
		},
		[]string{"status", "page_range"},
	)

	// PageClampedTotal counts requests whose page number had to be corrected
	// against the authoritative total (upstream truncation or bad bookmarks).
	PageClampedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_pagination_page_clamped_total",
			Help: "Total number of requests whose page number was clamped",
		},
	)

	// DurationSeconds tracks request duration distribution.
	// Labels: operation (handler, coordinator, source)
	DurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_pagination_duration_seconds",
			Help:    "Paginated request duration distribution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
		},
		[]string{"operation"},
	)
)

// RecordRequest records a pagination request metric.
func RecordRequest(statusCode int, page int) {
	RequestsTotal.WithLabelValues(
		fmt.Sprintf("%d", statusCode),
		getPageRangeBucket(page),
	).Inc()
}

// RecordClamp records that a requested page was corrected to the server's
// clamped value.
func RecordClamp() {
	PageClampedTotal.Inc()
}

// RecordDuration records operation duration in seconds.
func RecordDuration(operation string, duration float64) {
	DurationSeconds.WithLabelValues(operation).Observe(duration)
}

// getPageRangeBucket returns the page range bucket for a given page number.
func getPageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
