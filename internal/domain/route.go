package domain

import "time"

// Route is an immutable-after-creation schedule entry. Price is in
// minor currency units to avoid floating-point drift. AvailableSeats
// is derived from the seat inventory at read time and never stored.
type Route struct {
	ID            string    `json:"id"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         int64     `json:"price"`
	BusNumber     string    `json:"bus_number"`
	TotalSeats    int       `json:"total_seats"`
}

// Duration is the scheduled travel time.
func (r Route) Duration() time.Duration {
	return r.ArrivalTime.Sub(r.DepartureTime)
}

// Departed reports whether the route's departure time has passed.
func (r Route) Departed(now time.Time) bool {
	return now.After(r.DepartureTime)
}
