package scheduler

import (
	"context"
	"time"

	"translinka-backend/internal/domain"
	"translinka-backend/pkg/logger"
)

type bookingSweeper interface {
	ExpireHolds(now time.Time) []domain.Booking
	CompleteDeparted(now time.Time) []domain.Booking
}

// Scheduler periodically reclaims expired seat holds and completes
// bookings whose route has departed.
type Scheduler struct {
	bookings bookingSweeper
	interval time.Duration
	log      logger.Logger
}

func New(bookings bookingSweeper, interval time.Duration, log logger.Logger) *Scheduler {
	return &Scheduler{
		bookings: bookings,
		interval: interval,
		log:      log,
	}
}

// Start blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("scheduler started", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(time.Now())
		}
	}
}

func (s *Scheduler) tick(now time.Time) {
	for _, b := range s.bookings.ExpireHolds(now) {
		s.log.Info("booking hold expired",
			"booking_id", b.ID,
			"user_id", b.UserID,
			"route_id", b.RouteID,
		)
	}
	for _, b := range s.bookings.CompleteDeparted(now) {
		s.log.Info("booking completed",
			"booking_id", b.ID,
			"route_id", b.RouteID,
		)
	}
}
