package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chimeneasluque",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chimeneasluque",
			Name:      "reservations_created_total",
			Help:      "Successfully created reservations.",
		},
	)

	reservationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chimeneasluque",
			Name:      "reservation_conflicts_total",
			Help:      "Reservation attempts rejected because the slot was taken.",
		},
	)

	chatReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chimeneasluque",
			Name:      "chat_replies_total",
			Help:      "Chat replies by source (grok or faq).",
		},
		[]string{"source"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, reservationsCreated, reservationConflicts, chatReplies)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncReservationCreated counts a successful booking.
func IncReservationCreated() {
	reservationsCreated.Inc()
}

// IncReservationConflict counts a double-booking rejection.
func IncReservationConflict() {
	reservationConflicts.Inc()
}

// IncChatReply counts a chat reply by its source.
func IncChatReply(source string) {
	chatReplies.WithLabelValues(source).Inc()
}
