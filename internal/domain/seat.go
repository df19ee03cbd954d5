package domain

// SeatState is the effective state of a single seat on a route.
type SeatState string

const (
	SeatFree   SeatState = "Free"
	SeatHeld   SeatState = "Held"
	SeatBooked SeatState = "Booked"
)
