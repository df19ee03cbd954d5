package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"translinka-backend/internal/domain"
)

// allowedTransitions is the complete booking state machine. Anything
// not listed here is rejected.
var allowedTransitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingStatusPending:   {domain.BookingStatusConfirmed, domain.BookingStatusFailed},
	domain.BookingStatusConfirmed: {domain.BookingStatusCancelled, domain.BookingStatusCompleted},
}

func transitionAllowed(from, to domain.BookingStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// entry serializes mutations per booking. Index updates take the
// ledger's outer lock.
type entry struct {
	mu sync.Mutex
	b  domain.Booking
}

// Ledger owns the authoritative set of bookings plus per-user and
// per-route indices, kept consistent on every mutation. Queries return
// copies, never live references.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string]*entry
	byUser  map[string][]string
	byRoute map[string][]string
}

func New() *Ledger {
	return &Ledger{
		entries: make(map[string]*entry),
		byUser:  make(map[string][]string),
		byRoute: make(map[string][]string),
	}
}

// Draft is the caller-supplied part of a new booking.
type Draft struct {
	ID             string // optional; assigned when empty
	UserID         string
	RouteID        string
	PassengerName  string
	PassengerEmail string
	PassengerPhone string
	Seats          []int
	TotalPrice     int64
	Route          *domain.Route
}

// Create records a new Pending booking and returns a copy.
func (l *Ledger) Create(draft Draft) (domain.Booking, error) {
	id := draft.ID
	if id == "" {
		id = uuid.NewString()
	}

	seats := append([]int(nil), draft.Seats...)
	sort.Ints(seats)

	b := domain.Booking{
		ID:             id,
		UserID:         draft.UserID,
		RouteID:        draft.RouteID,
		PassengerName:  draft.PassengerName,
		PassengerEmail: draft.PassengerEmail,
		PassengerPhone: draft.PassengerPhone,
		Seats:          seats,
		TotalPrice:     draft.TotalPrice,
		Status:         domain.BookingStatusPending,
		CreatedAt:      time.Now(),
		Route:          draft.Route,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.entries[id]; exists {
		return domain.Booking{}, domain.ConflictError{Resource: "booking", Msg: "duplicate booking id"}
	}
	l.entries[id] = &entry{b: b}
	l.byUser[b.UserID] = append(l.byUser[b.UserID], id)
	l.byRoute[b.RouteID] = append(l.byRoute[b.RouteID], id)

	return b.Clone(), nil
}

// Restore inserts a booking loaded from storage without touching its
// status. Used at startup only.
func (l *Ledger) Restore(b domain.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.entries[b.ID]; exists {
		return domain.ConflictError{Resource: "booking", Msg: "duplicate booking id"}
	}
	l.entries[b.ID] = &entry{b: b.Clone()}
	l.byUser[b.UserID] = append(l.byUser[b.UserID], b.ID)
	l.byRoute[b.RouteID] = append(l.byRoute[b.RouteID], b.ID)
	return nil
}

// Transition moves a booking from one status to another, enforcing the
// state machine. The from status must match the current one.
func (l *Ledger) Transition(bookingID string, from, to domain.BookingStatus) error {
	e, err := l.entry(bookingID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.b.Status != from || !transitionAllowed(from, to) {
		return domain.InvalidTransitionError{BookingID: bookingID, From: e.b.Status, To: to}
	}
	e.b.Status = to
	return nil
}

// AttachProof binds the issued token to a booking. Only legal while
// Pending and before any token was attached, i.e. as part of the
// Pending -> Confirmed transition.
func (l *Ledger) AttachProof(bookingID, token string) error {
	e, err := l.entry(bookingID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.b.Status != domain.BookingStatusPending || e.b.ProofToken != "" {
		return domain.InvalidTransitionError{BookingID: bookingID, From: e.b.Status, To: domain.BookingStatusConfirmed}
	}
	if token == "" {
		return domain.ValidationError{Field: "proof_token", Msg: "empty token"}
	}
	e.b.ProofToken = token
	return nil
}

// ByID returns a copy of the booking.
func (l *Ledger) ByID(bookingID string) (domain.Booking, error) {
	e, err := l.entry(bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b.Clone(), nil
}

// ByUser returns copies of the user's bookings, newest first.
func (l *Ledger) ByUser(userID string) []domain.Booking {
	return l.collect(func() []string {
		return l.byUser[userID]
	})
}

// ByRoute returns copies of the route's bookings, newest first.
func (l *Ledger) ByRoute(routeID string) []domain.Booking {
	return l.collect(func() []string {
		return l.byRoute[routeID]
	})
}

// ByStatus returns copies of all bookings currently in status.
func (l *Ledger) ByStatus(status domain.BookingStatus) []domain.Booking {
	l.mu.RLock()
	entries := make([]*entry, 0, len(l.entries))
	for _, e := range l.entries {
		entries = append(entries, e)
	}
	l.mu.RUnlock()

	var out []domain.Booking
	for _, e := range entries {
		e.mu.Lock()
		if e.b.Status == status {
			out = append(out, e.b.Clone())
		}
		e.mu.Unlock()
	}
	sortNewestFirst(out)
	return out
}

func (l *Ledger) entry(bookingID string) (*entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.entries[bookingID]
	if !ok {
		return nil, domain.NotFoundError{Resource: "booking"}
	}
	return e, nil
}

func (l *Ledger) collect(ids func() []string) []domain.Booking {
	l.mu.RLock()
	entries := make([]*entry, 0)
	for _, id := range ids() {
		if e, ok := l.entries[id]; ok {
			entries = append(entries, e)
		}
	}
	l.mu.RUnlock()

	out := make([]domain.Booking, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.b.Clone())
		e.mu.Unlock()
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(bookings []domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}
