package database

import "errors"

var (
	// ErrSlotTaken reports a (date, time) pair that already has a reservation.
	ErrSlotTaken = errors.New("time slot is already booked")
	// ErrPastDate reports a reservation date before the current day.
	ErrPastDate = errors.New("date is in the past")
	// ErrDateTooFar reports a date beyond the forward booking window.
	ErrDateTooFar = errors.New("date is beyond the booking window")
	// ErrClosedDay reports a date on which the showroom takes no visits.
	ErrClosedDay = errors.New("no visits on this day")
)
