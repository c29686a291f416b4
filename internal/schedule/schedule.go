package schedule

import (
	"fmt"
	"time"
)

// Policy maps a calendar date to its bookable hours and bounds how far
// ahead a visit may be reserved. Construct via Default or New; the rules
// are explicit so tests can override them without touching global state.
type Policy struct {
	hours         map[time.Weekday][]string
	horizonMonths int
}

// Default returns the showroom business rules: closed on Sunday,
// 06:00-17:00 hourly Monday through Friday, 08:00-12:00 on Saturday,
// bookable up to 3 calendar months ahead.
func Default() *Policy {
	return New(DefaultHours(), 3)
}

// DefaultHours is the weekday table behind Default.
func DefaultHours() map[time.Weekday][]string {
	weekday := hourRange(6, 17)
	return map[time.Weekday][]string{
		time.Monday:    weekday,
		time.Tuesday:   weekday,
		time.Wednesday: weekday,
		time.Thursday:  weekday,
		time.Friday:    weekday,
		time.Saturday:  hourRange(8, 12),
	}
}

// New builds a policy from an explicit weekday table. Days absent from the
// table have no bookable hours. A non-positive horizon falls back to 3 months.
func New(hours map[time.Weekday][]string, horizonMonths int) *Policy {
	if horizonMonths <= 0 {
		horizonMonths = 3
	}
	copied := make(map[time.Weekday][]string, len(hours))
	for day, hh := range hours {
		copied[day] = append([]string(nil), hh...)
	}
	return &Policy{hours: copied, horizonMonths: horizonMonths}
}

// SlotsFor returns the ordered bookable hours for the date's weekday,
// independent of existing reservations. Empty for closed days.
func (p *Policy) SlotsFor(date time.Time) []string {
	return append([]string(nil), p.hours[date.Weekday()]...)
}

// Open reports whether the showroom takes visits on the date's weekday at all.
func (p *Policy) Open(date time.Time) bool {
	return len(p.hours[date.Weekday()]) > 0
}

// Bookable reports whether the date falls inside the booking window
// [today, today + horizon months], both bounds inclusive, at day granularity.
func (p *Policy) Bookable(date, now time.Time) bool {
	day := truncateToDay(date)
	today := truncateToDay(now)
	if day.Before(today) {
		return false
	}
	return !day.After(today.AddDate(0, p.horizonMonths, 0))
}

// HorizonMonths returns the forward booking horizon.
func (p *Policy) HorizonMonths() int {
	return p.horizonMonths
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func hourRange(from, to int) []string {
	hours := make([]string, 0, to-from+1)
	for h := from; h <= to; h++ {
		hours = append(hours, fmt.Sprintf("%02d:00", h))
	}
	return hours
}
