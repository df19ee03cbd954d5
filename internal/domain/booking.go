package domain

import "time"

// BookingStatus is the booking lifecycle state.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusFailed    BookingStatus = "Failed"
)

// Terminal reports whether the status admits no further transitions.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingStatusCancelled, BookingStatusCompleted, BookingStatusFailed:
		return true
	}
	return false
}

// Booking is a seat reservation on a route, anchored to an externally
// verifiable proof token once confirmed. TotalPrice is computed at
// creation (route price x seat count) and never recomputed.
type Booking struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	RouteID        string        `json:"route_id"`
	PassengerName  string        `json:"passenger_name"`
	PassengerEmail string        `json:"passenger_email"`
	PassengerPhone string        `json:"passenger_phone"`
	Seats          []int         `json:"seats"`
	TotalPrice     int64         `json:"total_price"`
	Status         BookingStatus `json:"status"`
	ProofToken     string        `json:"proof_token,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`

	// Route is a denormalized display copy attached at creation.
	// The route referenced by RouteID stays authoritative.
	Route *Route `json:"route,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate ledger state.
func (b Booking) Clone() Booking {
	out := b
	out.Seats = append([]int(nil), b.Seats...)
	if b.Route != nil {
		r := *b.Route
		out.Route = &r
	}
	return out
}
