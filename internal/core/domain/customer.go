package domain

import (
	"encoding/json"
	"time"
)

type Customer struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"              validate:"required"`
	Email     string   `json:"email,omitempty"   validate:"omitempty,email"`
	Phone     string   `json:"phone,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

const (
	BookingOpen      = "open"
	BookingClosed    = "closed"
	BookingCancelled = "cancelled"
)

// Booking is a table reservation. Timestamps are kept as the backend sends
// them; use ParseTimestamp to interpret them.
type Booking struct {
	ID          string            `json:"id,omitempty"`
	CustomerID  string            `json:"customerId"           validate:"required,objectid"`
	TableNumber string            `json:"tableNumber"          validate:"required"`
	Products    []json.RawMessage `json:"products"`
	BillTotal   float64           `json:"billTotal"`
	Status      string            `json:"status,omitempty"     validate:"omitempty,oneof=open closed cancelled"`
	CreatedAt   string            `json:"createdAt,omitempty"`
	BookingTime string            `json:"bookingTime"          validate:"required"`
	ClosedAt    string            `json:"closedAt,omitempty"`
	Notes       string            `json:"notes,omitempty"`
}

// BookingLine is one product on a booking's bill.
type BookingLine struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// Lines decodes the booking's products. Entries that are not product
// objects are skipped.
func (b Booking) Lines() []BookingLine {
	lines := make([]BookingLine, 0, len(b.Products))
	for _, raw := range b.Products {
		var l BookingLine
		if err := json.Unmarshal(raw, &l); err != nil || l.Name == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// BookingPatch updates status and optionally the booking time.
type BookingPatch struct {
	Status      string `json:"status"                validate:"required,oneof=open closed cancelled"`
	BookingTime string `json:"bookingTime,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts the timestamp shapes the backend and the booking
// forms produce. Zone-less values are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// BookingDay buckets a booking relative to the day of now.
type BookingDay int

const (
	BookingPrevious BookingDay = iota - 1
	BookingToday
	BookingFuture
)

// Day places the booking before, on or after the UTC day of now. Bookings
// with no parseable time count as previous.
func (b Booking) Day(now time.Time) BookingDay {
	t, ok := ParseTimestamp(b.BookingTime)
	if !ok {
		return BookingPrevious
	}
	day, today := t.UTC().Format(time.DateOnly), now.UTC().Format(time.DateOnly)
	switch {
	case day < today:
		return BookingPrevious
	case day == today:
		return BookingToday
	}
	return BookingFuture
}
