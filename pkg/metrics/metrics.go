package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogapi_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blogapi_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	StoreTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogapi_store_transactions_total",
			Help: "Total number of store transactions by outcome",
		},
		[]string{"outcome"},
	)

	StoreTransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blogapi_store_transaction_duration_seconds",
			Help:    "Store transaction duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogapi_authz_decisions_total",
			Help: "Authorization decisions by resource, action and result",
		},
		[]string{"resource", "action", "allowed", "reason"},
	)

	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogapi_media_uploads_total",
			Help: "Accepted media uploads by type",
		},
		[]string{"type"},
	)

	RegisteredUsersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blogapi_registered_users_total",
			Help: "Number of successful registrations",
		},
	)
)

func RecordHttpRequest(method, endpoint, status string, duration time.Duration) {
	HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordStoreTransaction(outcome string, duration time.Duration) {
	StoreTransactionsTotal.WithLabelValues(outcome).Inc()
	StoreTransactionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func RecordAuthzDecision(resource, action string, allowed bool, reason string) {
	AuthzDecisionsTotal.WithLabelValues(resource, action, strconv.FormatBool(allowed), reason).Inc()
}

func RecordMediaUpload(mediaType string) {
	MediaUploadsTotal.WithLabelValues(mediaType).Inc()
}

func RecordRegistration() {
	RegisteredUsersTotal.Inc()
}
