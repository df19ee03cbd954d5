package inventory

import (
	"sort"
	"sync"
	"time"

	"translinka-backend/internal/domain"
)

// seatRecord is a non-free seat. Free seats carry no record.
type seatRecord struct {
	bookingID string
	booked    bool
	expiry    time.Time // zero for booked seats
}

func (r seatRecord) expired(now time.Time) bool {
	return !r.booked && now.After(r.expiry)
}

// Inventory owns seat availability for a single route. All mutations
// are serialized under one mutex; reserve is all-or-nothing.
type Inventory struct {
	mu         sync.Mutex
	routeID    string
	totalSeats int
	seats      map[int]seatRecord
}

func New(routeID string, totalSeats int) *Inventory {
	return &Inventory{
		routeID:    routeID,
		totalSeats: totalSeats,
		seats:      make(map[int]seatRecord),
	}
}

// Reserve transitions every requested seat from Free to Held, or fails
// with no partial effect. Seat numbers are validated against
// 1..totalSeats before any state check; duplicates are rejected rather
// than deduplicated so the seat count always matches what was paid for.
func (inv *Inventory) Reserve(seatNumbers []int, bookingID string, holdDuration time.Duration) error {
	if len(seatNumbers) == 0 {
		return domain.ValidationError{Field: "seats", Msg: "no seats requested"}
	}
	seen := make(map[int]bool, len(seatNumbers))
	for _, n := range seatNumbers {
		if n < 1 || n > inv.totalSeats {
			return domain.ValidationError{Field: "seats", Msg: "seat number out of range"}
		}
		if seen[n] {
			return domain.ValidationError{Field: "seats", Msg: "duplicate seat number"}
		}
		seen[n] = true
	}

	now := time.Now()

	inv.mu.Lock()
	defer inv.mu.Unlock()

	var conflicts []int
	evicted := make(map[string]bool)
	for _, n := range seatNumbers {
		rec, ok := inv.seats[n]
		if !ok {
			continue
		}
		if rec.expired(now) {
			evicted[rec.bookingID] = true
		} else {
			conflicts = append(conflicts, n)
		}
	}
	if len(conflicts) > 0 {
		sort.Ints(conflicts)
		return domain.SeatsUnavailableError{RouteID: inv.routeID, Seats: conflicts}
	}

	// Claiming an expired seat reclaims the prior booking's whole hold,
	// never a slice of it. The prior booking then owns nothing, so its
	// own confirm fails cleanly instead of succeeding on a subset.
	if len(evicted) > 0 {
		for n, rec := range inv.seats {
			if evicted[rec.bookingID] && !rec.booked {
				delete(inv.seats, n)
			}
		}
	}

	expiry := now.Add(holdDuration)
	for _, n := range seatNumbers {
		inv.seats[n] = seatRecord{bookingID: bookingID, expiry: expiry}
	}
	return nil
}

// Confirm transitions all seats owned by bookingID to Booked. Seats
// still owned but past their hold expiry are confirmed as well: a hold
// that outlives issuance is honored unless the sweep or a competing
// reservation already reclaimed it. Confirming an already-booked set
// is a no-op success.
func (inv *Inventory) Confirm(bookingID string) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	found := false
	for n, rec := range inv.seats {
		if rec.bookingID != bookingID {
			continue
		}
		found = true
		if !rec.booked {
			inv.seats[n] = seatRecord{bookingID: bookingID, booked: true}
		}
	}
	if !found {
		return domain.NoSuchHoldError{BookingID: bookingID}
	}
	return nil
}

// Release frees any Held or Booked seats owned by bookingID. Used both
// for compensating rollback and cancellation; releasing nothing is fine.
func (inv *Inventory) Release(bookingID string) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for n, rec := range inv.seats {
		if rec.bookingID == bookingID {
			delete(inv.seats, n)
		}
	}
}

// RestoreBooked marks seats as Booked for bookingID without
// reservation checks. Used when rebuilding inventory from storage.
func (inv *Inventory) RestoreBooked(seatNumbers []int, bookingID string) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for _, n := range seatNumbers {
		if n >= 1 && n <= inv.totalSeats {
			inv.seats[n] = seatRecord{bookingID: bookingID, booked: true}
		}
	}
}

// ExpireHolds releases every held seat whose expiry has passed and
// returns the distinct booking IDs whose holds were reclaimed.
func (inv *Inventory) ExpireHolds(now time.Time) []string {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	var affected []string
	seenBooking := make(map[string]bool)
	for n, rec := range inv.seats {
		if rec.expired(now) {
			delete(inv.seats, n)
			if !seenBooking[rec.bookingID] {
				seenBooking[rec.bookingID] = true
				affected = append(affected, rec.bookingID)
			}
		}
	}
	return affected
}

// Snapshot returns the effective state of every seat at now. Expired
// holds read as Free even before a sweep runs.
func (inv *Inventory) Snapshot(now time.Time) map[int]domain.SeatState {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	out := make(map[int]domain.SeatState, inv.totalSeats)
	for n := 1; n <= inv.totalSeats; n++ {
		out[n] = domain.SeatFree
	}
	for n, rec := range inv.seats {
		switch {
		case rec.booked:
			out[n] = domain.SeatBooked
		case !rec.expired(now):
			out[n] = domain.SeatHeld
		}
	}
	return out
}

// Available counts seats reading as Free at now.
func (inv *Inventory) Available(now time.Time) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	taken := 0
	for _, rec := range inv.seats {
		if rec.booked || !rec.expired(now) {
			taken++
		}
	}
	return inv.totalSeats - taken
}

// SeatsOf returns the sorted seat numbers currently owned by bookingID.
func (inv *Inventory) SeatsOf(bookingID string) []int {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	var out []int
	for n, rec := range inv.seats {
		if rec.bookingID == bookingID {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}
