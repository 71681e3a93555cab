package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code", "method"},
	)

	DBTxDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventhub_db_tx_seconds",
			Help:    "Duration of DB transactions",
			Buckets: prometheus.DefBuckets,
		},
	)

	BookingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventhub_bookings_total",
			Help: "Total confirmed bookings",
		},
	)

	BookingRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_booking_rejections_total",
			Help: "Bookings rejected before mutation",
		},
		[]string{"reason"},
	)

	LoginFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventhub_login_failures_total",
			Help: "Failed login attempts",
		},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventhub_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)
)
