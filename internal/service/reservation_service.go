package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlr1251/chimeneasluque/internal/database"
	"github.com/dlr1251/chimeneasluque/internal/domain"
	"github.com/dlr1251/chimeneasluque/internal/events"
	"github.com/dlr1251/chimeneasluque/internal/metrics"
	"github.com/dlr1251/chimeneasluque/internal/models"
	"github.com/dlr1251/chimeneasluque/internal/schedule"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CreateReservationInput carries the client-supplied booking request.
// Every field except Notes is required.
type CreateReservationInput struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	ProductType string `json:"productType"`
	Notes       string `json:"notes"`
}

// ReservationService computes live availability and is the only mutator of
// the reservation collection. The double-booking invariant is enforced here
// and backed by the store's unique constraint.
type ReservationService struct {
	repo     domain.ReservationRepository
	policy   *schedule.Policy
	eventBus domain.EventPublisher
	exports  domain.ExportQueue
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewReservationService(
	repo domain.ReservationRepository,
	policy *schedule.Policy,
	eventBus domain.EventPublisher,
	exports domain.ExportQueue,
	logger *zerolog.Logger,
) *ReservationService {
	if policy == nil {
		policy = schedule.Default()
	}
	return &ReservationService{
		repo:     repo,
		policy:   policy,
		eventBus: eventBus,
		exports:  exports,
		logger:   logger,
		now:      time.Now,
	}
}

// ListReservations returns the stored reservations, optionally filtered to
// one date. Store read failures degrade to an empty collection: listing
// never fails the caller.
func (s *ReservationService) ListReservations(ctx context.Context, date string) ([]models.Reservation, error) {
	if date != "" {
		if _, err := parseDate(date); err != nil {
			return nil, err
		}
	}

	reservations, err := s.repo.ListReservations(ctx, date)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("failed to read reservations, serving empty collection")
		return []models.Reservation{}, nil
	}
	return reservations, nil
}

// GetAvailableSlots computes the slot list for a date, marking each slot
// unavailable when a reservation already occupies it. An empty list (not an
// error) means the showroom is closed that day. No side effects.
func (s *ReservationService) GetAvailableSlots(ctx context.Context, date string) ([]models.TimeSlot, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	hours := s.policy.SlotsFor(day)
	if len(hours) == 0 {
		return []models.TimeSlot{}, nil
	}

	existing, err := s.repo.ListReservations(ctx, date)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("failed to read reservations, treating all slots as free")
		existing = nil
	}

	taken := make(map[string]bool, len(existing))
	for _, r := range existing {
		taken[r.Time] = true
	}

	slots := make([]models.TimeSlot, 0, len(hours))
	for _, h := range hours {
		slots = append(slots, models.TimeSlot{Time: h, Available: !taken[h]})
	}
	return slots, nil
}

// CreateReservation validates the input, enforces the booking window and
// the no-double-booking invariant, and persists exactly one record on
// success. Failure paths never write.
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*models.Reservation, error) {
	if err := requireFields(input); err != nil {
		return nil, err
	}

	day, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse(models.TimeLayout, input.Time); err != nil {
		return nil, newValidationError("time", "must be HH:MM", err)
	}

	now := s.now()
	if !s.policy.Bookable(day, now) {
		if day.Before(now) {
			return nil, newValidationError("date", "cannot be in the past", database.ErrPastDate)
		}
		return nil, newValidationError("date",
			fmt.Sprintf("cannot be more than %d months ahead", s.policy.HorizonMonths()),
			database.ErrDateTooFar)
	}

	hours := s.policy.SlotsFor(day)
	if len(hours) == 0 {
		return nil, newValidationError("date", "no visits on this day", database.ErrClosedDay)
	}
	if !contains(hours, input.Time) {
		return nil, newValidationError("time", "is not a bookable slot for this date", nil)
	}

	reservation := &models.Reservation{
		ID:          uuid.NewString(),
		Date:        input.Date,
		Time:        input.Time,
		ContactName: strings.TrimSpace(input.ContactName),
		Phone:       strings.TrimSpace(input.Phone),
		Email:       strings.TrimSpace(input.Email),
		Address:     strings.TrimSpace(input.Address),
		ProductType: strings.TrimSpace(input.ProductType),
		Notes:       strings.TrimSpace(input.Notes),
		CreatedAt:   now,
	}

	taken, err := s.repo.HasReservation(ctx, input.Date, input.Time)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	if taken {
		metrics.IncReservationConflict()
		return nil, database.ErrSlotTaken
	}

	// The pre-check above gives the common case a cheap rejection; the
	// store transaction re-checks, so a stale read here cannot produce
	// two reservations for the same slot.
	if err := s.repo.CreateReservationTx(ctx, reservation); err != nil {
		if errors.Is(err, database.ErrSlotTaken) {
			metrics.IncReservationConflict()
			return nil, err
		}
		return nil, fmt.Errorf("failed to persist reservation: %w", err)
	}

	metrics.IncReservationCreated()
	s.publishCreated(reservation)
	s.enqueueExport(ctx)

	return reservation, nil
}

func (s *ReservationService) publishCreated(r *models.Reservation) {
	if s.eventBus == nil {
		return
	}

	payload := events.ReservationEventPayload{
		ReservationID: r.ID,
		Date:          r.Date,
		Time:          r.Time,
		ContactName:   r.ContactName,
		ProductType:   r.ProductType,
		CreatedAt:     r.CreatedAt,
	}
	if err := s.eventBus.PublishJSON(events.EventReservationCreated, payload); err != nil {
		s.logger.Error().Err(err).Str("reservation_id", r.ID).Msg("publish event error")
	}
}

func (s *ReservationService) enqueueExport(ctx context.Context) {
	if s.exports == nil {
		return
	}
	if err := s.exports.EnqueueExport(ctx); err != nil {
		s.logger.Error().Err(err).Msg("export enqueue error")
	}
}

var requiredFields = []struct {
	name  string
	value func(CreateReservationInput) string
}{
	{"date", func(i CreateReservationInput) string { return i.Date }},
	{"time", func(i CreateReservationInput) string { return i.Time }},
	{"contactName", func(i CreateReservationInput) string { return i.ContactName }},
	{"phone", func(i CreateReservationInput) string { return i.Phone }},
	{"email", func(i CreateReservationInput) string { return i.Email }},
	{"address", func(i CreateReservationInput) string { return i.Address }},
	{"productType", func(i CreateReservationInput) string { return i.ProductType }},
}

func requireFields(input CreateReservationInput) error {
	for _, f := range requiredFields {
		if strings.TrimSpace(f.value(input)) == "" {
			return newValidationError(f.name, "is required", nil)
		}
	}
	return nil
}

func parseDate(date string) (time.Time, error) {
	day, err := time.ParseInLocation(models.DateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, newValidationError("date", "must be YYYY-MM-DD", err)
	}
	return day, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
