package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tripshare", Name: "bookings_created_total",
		Help: "Bookings successfully created",
	})
	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tripshare", Name: "booking_conflicts_total",
		Help: "Booking attempts rejected for capacity, duplicate or overlap conflicts",
	})
	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tripshare", Name: "bookings_cancelled_total",
		Help: "Bookings cancelled, including bulk cascades",
	})
	ProposalsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tripshare", Name: "proposals_created_total",
		Help: "Proposals successfully recorded against journey requests",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripshare", Name: "http_requests_total",
			Help: "Total HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripshare", Name: "http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
