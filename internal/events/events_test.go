package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishJSON(t *testing.T) {
	bus := NewEventBus()

	var got ReservationEventPayload
	called := 0
	bus.Subscribe(EventReservationCreated, func(e *Event) error {
		called++
		require.NoError(t, json.Unmarshal(e.Payload, &got))
		assert.False(t, e.CreatedAt.IsZero())
		return nil
	})

	payload := ReservationEventPayload{
		ReservationID: "abc",
		Date:          "2025-06-02",
		Time:          "06:00",
		ContactName:   "Ana",
		ProductType:   "horno de leña",
		CreatedAt:     time.Now(),
	}
	require.NoError(t, bus.PublishJSON(EventReservationCreated, payload))

	assert.Equal(t, 1, called)
	assert.Equal(t, "abc", got.ReservationID)
	assert.Equal(t, "06:00", got.Time)
}

func TestPublishOnlyMatchingType(t *testing.T) {
	bus := NewEventBus()

	called := 0
	bus.Subscribe("other_event", func(e *Event) error {
		called++
		return nil
	})

	require.NoError(t, bus.PublishJSON(EventReservationCreated, struct{}{}))
	assert.Zero(t, called)
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventReservationCreated, struct{}{}))
}
