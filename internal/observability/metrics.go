package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RidesCreated  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_marketplace", Name: "rides_created_total", Help: "Total number of rides created"})
	SeatsReserved = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_marketplace", Name: "seats_reserved_total", Help: "Total number of seats reserved"})
	SeatsRestored = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_marketplace", Name: "seats_restored_total", Help: "Total number of seats restored by cancellations"})

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_marketplace", Name: "bookings_total", Help: "Booking operations by outcome"},
		[]string{"outcome"},
	)
	PaymentVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_marketplace", Name: "payment_verifications_total", Help: "Payment verification attempts by result"},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_marketplace", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ride_marketplace",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
