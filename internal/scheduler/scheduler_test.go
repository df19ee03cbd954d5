package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"translinka-backend/internal/domain"
	"translinka-backend/pkg/logger"
)

type fakeSweeper struct {
	mu        sync.Mutex
	expired   int
	completed int
}

func (f *fakeSweeper) ExpireHolds(now time.Time) []domain.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired++
	return []domain.Booking{{ID: "b-1", Status: domain.BookingStatusFailed}}
}

func (f *fakeSweeper) CompleteDeparted(now time.Time) []domain.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed++
	return nil
}

func (f *fakeSweeper) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expired, f.completed
}

func TestScheduler_SweepsOnEveryTick(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := New(sweeper, 5*time.Millisecond, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		expired, completed := sweeper.counts()
		if expired >= 2 && completed >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("sweeper not invoked enough: expired=%d completed=%d", expired, completed)
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}

func TestScheduler_StopsBeforeFirstTick(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := New(sweeper, time.Hour, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancelled context")
	}

	expired, completed := sweeper.counts()
	assert.Zero(t, expired)
	assert.Zero(t, completed)
}
