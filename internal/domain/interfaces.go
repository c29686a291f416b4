package domain

import (
	"context"
	"time"

	"github.com/dlr1251/chimeneasluque/internal/models"
)

// ReservationRepository is the durable reservation collection. The booking
// service is its only mutator; readers never write.
type ReservationRepository interface {
	ListReservations(ctx context.Context, date string) ([]models.Reservation, error)
	HasReservation(ctx context.Context, date, slot string) (bool, error)
	CreateReservationTx(ctx context.Context, r *models.Reservation) error
}

// EventPublisher emits domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimitRepository tracks request counts per client key.
type RateLimitRepository interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// ExportQueue accepts requests to refresh the reservations workbook.
type ExportQueue interface {
	EnqueueExport(ctx context.Context) error
}
