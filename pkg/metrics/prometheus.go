package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the booking core.
type Metrics struct {
	BookingsCreated   prometheus.Counter
	BookingsFailed    prometheus.Counter
	BookingsCancelled prometheus.Counter
	SeatConflicts     prometheus.Counter
	IssuanceAttempts  *prometheus.CounterVec
	IssuanceDuration  prometheus.Histogram
	HoldsExpired      prometheus.Counter
}

// New registers booking metrics under the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of confirmed bookings",
		}),
		BookingsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_failed_total",
			Help:      "The total number of bookings that failed issuance",
		}),
		BookingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "The total number of cancelled bookings",
		}),
		SeatConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seat_conflicts_total",
			Help:      "The total number of reservations rejected on seat conflicts",
		}),
		IssuanceAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issuance_attempts_total",
			Help:      "Ticket issuance attempts by outcome",
		}, []string{"backend", "outcome"}),
		IssuanceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "issuance_duration_seconds",
			Help:      "Time taken to issue a proof token",
			Buckets:   prometheus.DefBuckets,
		}),
		HoldsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holds_expired_total",
			Help:      "The total number of seat holds released by expiry",
		}),
	}
}
