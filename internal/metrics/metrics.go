package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "escaperoom",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by creator role.",
		},
		[]string{"role"},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "escaperoom",
			Name:      "booking_rejected_total",
			Help:      "Count of rejected booking requests by reason.",
		},
		[]string{"reason"},
	)

	bookingTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "escaperoom",
			Name:      "booking_transition_total",
			Help:      "Count of applied booking status transitions.",
		},
		[]string{"from", "to"},
	)

	ratingRecompute = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "escaperoom",
			Name:      "rating_recompute_total",
			Help:      "Count of room rating recomputations.",
		},
	)
)

// Register registers metrics with the default registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingRejected, bookingTransition, ratingRecompute)
	})
}

func IncBookingCreated(role string) {
	bookingCreated.WithLabelValues(role).Inc()
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncBookingTransition(from, to string) {
	bookingTransition.WithLabelValues(from, to).Inc()
}

func IncRatingRecompute() {
	ratingRecompute.Inc()
}
