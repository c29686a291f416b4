package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	Register()

	before := testutil.ToFloat64(reservationsCreated)
	IncReservationCreated()
	assert.Equal(t, before+1, testutil.ToFloat64(reservationsCreated))

	beforeConflicts := testutil.ToFloat64(reservationConflicts)
	IncReservationConflict()
	assert.Equal(t, beforeConflicts+1, testutil.ToFloat64(reservationConflicts))

	beforeHTTP := testutil.ToFloat64(httpRequests.WithLabelValues("/api/chat"))
	IncHTTP("/api/chat")
	assert.Equal(t, beforeHTTP+1, testutil.ToFloat64(httpRequests.WithLabelValues("/api/chat")))

	beforeFAQ := testutil.ToFloat64(chatReplies.WithLabelValues("faq"))
	IncChatReply("faq")
	assert.Equal(t, beforeFAQ+1, testutil.ToFloat64(chatReplies.WithLabelValues("faq")))
}
