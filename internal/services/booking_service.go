package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"translinka-backend/internal/domain"
	"translinka-backend/internal/inventory"
	"translinka-backend/internal/issuance"
	"translinka-backend/internal/ledger"
	"translinka-backend/internal/utils"
	"translinka-backend/pkg/logger"
	"translinka-backend/pkg/metrics"
)

// BookingStore persists ledger mutations. Nil disables persistence.
type BookingStore interface {
	Upsert(b domain.Booking) error
}

// PassengerInfo is the caller-supplied passenger contact detail.
type PassengerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingService orchestrates seat reservation, proof-token issuance
// and the booking ledger as one logical operation with compensating
// rollback on failure.
type BookingService struct {
	routes    *RouteService
	inventory *inventory.Registry
	ledger    *ledger.Ledger
	issuer    *issuance.Router
	store     BookingStore

	holdTTL  time.Duration
	maxSeats int

	log logger.Logger
	met *metrics.Metrics
}

func NewBookingService(
	routes *RouteService,
	inv *inventory.Registry,
	ldg *ledger.Ledger,
	issuer *issuance.Router,
	store BookingStore,
	holdTTL time.Duration,
	maxSeats int,
	log logger.Logger,
	met *metrics.Metrics,
) *BookingService {
	if log == nil {
		log = logger.NewNop()
	}
	return &BookingService{
		routes:    routes,
		inventory: inv,
		ledger:    ldg,
		issuer:    issuer,
		store:     store,
		holdTTL:   holdTTL,
		maxSeats:  maxSeats,
		log:       log,
		met:       met,
	}
}

// CreateBooking runs the full booking flow: validate, reserve seats,
// record a Pending booking, issue the proof token, then confirm. Seats
// are reserved before the slow issuance call so contention resolves
// cheaply; any issuance failure releases them again, so a failed
// booking never keeps inventory.
func (s *BookingService) CreateBooking(ctx context.Context, userID, routeID string, passenger PassengerInfo, seats []int) (domain.Booking, error) {
	route, err := s.routes.Get(routeID)
	if err != nil {
		return domain.Booking{}, err
	}

	if err := s.validate(passenger, seats); err != nil {
		return domain.Booking{}, err
	}

	bookingID := uuid.NewString()
	inv := s.inventory.ForRoute(route.ID, route.TotalSeats)

	if err := inv.Reserve(seats, bookingID, s.holdTTL); err != nil {
		if domain.IsSeatsUnavailable(err) && s.met != nil {
			s.met.SeatConflicts.Inc()
		}
		return domain.Booking{}, err
	}

	// From here every early return must give the seats back.
	held := true
	defer func() {
		if held {
			inv.Release(bookingID)
		}
	}()

	routeCopy := route
	booking, err := s.ledger.Create(ledger.Draft{
		ID:             bookingID,
		UserID:         userID,
		RouteID:        route.ID,
		PassengerName:  strings.TrimSpace(passenger.Name),
		PassengerEmail: strings.TrimSpace(passenger.Email),
		PassengerPhone: strings.TrimSpace(passenger.Phone),
		Seats:          seats,
		TotalPrice:     route.Price * int64(len(seats)),
		Route:          &routeCopy,
	})
	if err != nil {
		return domain.Booking{}, err
	}
	s.persist(booking)

	token, err := s.issuer.Issue(ctx, issuance.Request{
		BookingID:       bookingID,
		UserID:          userID,
		RouteID:         route.ID,
		PriceMinorUnits: booking.TotalPrice,
	})
	if err != nil {
		s.failBooking(bookingID, err)
		return domain.Booking{}, err
	}

	// The hold may sit past its expiry by now; Confirm still honors it
	// unless the sweep already reclaimed the seats.
	if err := inv.Confirm(bookingID); err != nil {
		s.failBooking(bookingID, err)
		return domain.Booking{}, err
	}

	if err := s.ledger.AttachProof(bookingID, token); err != nil {
		s.failBooking(bookingID, err)
		return domain.Booking{}, err
	}
	if err := s.ledger.Transition(bookingID, domain.BookingStatusPending, domain.BookingStatusConfirmed); err != nil {
		s.failBooking(bookingID, err)
		return domain.Booking{}, err
	}
	held = false

	confirmed, err := s.ledger.ByID(bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	s.persist(confirmed)

	if s.met != nil {
		s.met.BookingsCreated.Inc()
	}
	s.log.Info("booking confirmed",
		"booking_id", bookingID,
		"user_id", userID,
		"route_id", route.ID,
		"seats", booking.Seats,
		"total", utils.FormatRWF(booking.TotalPrice),
	)
	return confirmed, nil
}

// CancelBooking is legal only from Confirmed. It releases the seats
// and leaves the proof token untouched; cancellation is a booking-side
// fact checked alongside token validity.
func (s *BookingService) CancelBooking(bookingID, userID string, admin bool) error {
	booking, err := s.ledger.ByID(bookingID)
	if err != nil {
		return err
	}
	if !admin && booking.UserID != userID {
		return domain.NotFoundError{Resource: "booking"}
	}

	if err := s.ledger.Transition(bookingID, domain.BookingStatusConfirmed, domain.BookingStatusCancelled); err != nil {
		return err
	}
	if inv, ok := s.inventory.Get(booking.RouteID); ok {
		inv.Release(bookingID)
	}
	s.issuer.Forget(bookingID)

	cancelled, err := s.ledger.ByID(bookingID)
	if err != nil {
		return err
	}
	s.persist(cancelled)

	if s.met != nil {
		s.met.BookingsCancelled.Inc()
	}
	s.log.Info("booking cancelled", "booking_id", bookingID, "user_id", booking.UserID)
	return nil
}

// Booking returns one booking, scoped to its owner unless admin.
func (s *BookingService) Booking(bookingID, userID string, admin bool) (domain.Booking, error) {
	booking, err := s.ledger.ByID(bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !admin && booking.UserID != userID {
		return domain.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return booking, nil
}

// BookingsForUser returns the user's bookings, newest first.
func (s *BookingService) BookingsForUser(userID string) []domain.Booking {
	return s.ledger.ByUser(userID)
}

// SeatAvailability returns the effective seat map of a route.
func (s *BookingService) SeatAvailability(routeID string) (map[int]domain.SeatState, error) {
	route, err := s.routes.Get(routeID)
	if err != nil {
		return nil, err
	}
	inv := s.inventory.ForRoute(route.ID, route.TotalSeats)
	return inv.Snapshot(time.Now()), nil
}

// ExpireHolds sweeps all routes, fails the Pending bookings whose
// holds were reclaimed and returns them.
func (s *BookingService) ExpireHolds(now time.Time) []domain.Booking {
	var failed []domain.Booking
	for _, bookingIDs := range s.inventory.ExpireAll(now) {
		for _, bookingID := range bookingIDs {
			if s.met != nil {
				s.met.HoldsExpired.Inc()
			}
			err := s.ledger.Transition(bookingID, domain.BookingStatusPending, domain.BookingStatusFailed)
			if err != nil {
				// Confirmed before the sweep saw it, or already failed.
				continue
			}
			s.issuer.Forget(bookingID)
			if b, err := s.ledger.ByID(bookingID); err == nil {
				s.persist(b)
				failed = append(failed, b)
			}
		}
	}
	return failed
}

// CompleteDeparted transitions Confirmed bookings whose route has
// departed to Completed and returns them.
func (s *BookingService) CompleteDeparted(now time.Time) []domain.Booking {
	var completed []domain.Booking
	for _, b := range s.ledger.ByStatus(domain.BookingStatusConfirmed) {
		route := b.Route
		if route == nil {
			r, err := s.routes.Get(b.RouteID)
			if err != nil {
				continue
			}
			route = &r
		}
		if !route.Departed(now) {
			continue
		}
		if err := s.ledger.Transition(b.ID, domain.BookingStatusConfirmed, domain.BookingStatusCompleted); err != nil {
			continue
		}
		s.issuer.Forget(b.ID)
		if done, err := s.ledger.ByID(b.ID); err == nil {
			s.persist(done)
			completed = append(completed, done)
		}
	}
	return completed
}

func (s *BookingService) validate(passenger PassengerInfo, seats []int) error {
	if len(seats) == 0 {
		return domain.ValidationError{Field: "seats", Msg: "select at least one seat"}
	}
	if len(seats) > s.maxSeats {
		return domain.ValidationError{Field: "seats", Msg: "too many seats for one booking"}
	}
	if strings.TrimSpace(passenger.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "required"}
	}
	if !utils.ValidEmail(passenger.Email) {
		return domain.ValidationError{Field: "email", Msg: "invalid email address"}
	}
	if !utils.ValidPhone(passenger.Phone) {
		return domain.ValidationError{Field: "phone", Msg: "invalid phone number"}
	}
	return nil
}

// failBooking runs the Pending -> Failed compensation path after a
// failed issuance or confirm. The deferred release in CreateBooking
// frees the seats.
func (s *BookingService) failBooking(bookingID string, cause error) {
	if err := s.ledger.Transition(bookingID, domain.BookingStatusPending, domain.BookingStatusFailed); err != nil {
		s.log.Error("could not fail booking", "booking_id", bookingID, "error", err.Error())
	}
	s.issuer.Forget(bookingID)
	if b, err := s.ledger.ByID(bookingID); err == nil {
		s.persist(b)
	}
	if s.met != nil {
		s.met.BookingsFailed.Inc()
	}
	s.log.Warn("booking failed", "booking_id", bookingID, "cause", cause.Error())
}

func (s *BookingService) persist(b domain.Booking) {
	if s.store == nil {
		return
	}
	if err := s.store.Upsert(b); err != nil {
		s.log.Error("persist booking", "booking_id", b.ID, "error", err.Error())
	}
}
