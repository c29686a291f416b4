package models

import "time"

const (
	// DateLayout is the wire format for reservation dates (wall-clock local date).
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for reservation times (24-hour).
	TimeLayout = "15:04"
)

// Reservation is a confirmed showroom visit. Created once, never edited.
type Reservation struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	ContactName string    `json:"contactName"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	ProductType string    `json:"productType"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TimeSlot is the availability of one bookable hour for a given date.
// It is derived per request and never persisted.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
