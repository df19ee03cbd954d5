package issuance

import (
	"context"
	"sync"
	"time"

	"translinka-backend/internal/domain"
	"translinka-backend/pkg/logger"
	"translinka-backend/pkg/metrics"
)

// Router owns the active issuance backend and wraps Issue/Verify with
// idempotency by booking ID and a bounded retry on transient failures.
type Router struct {
	mu      sync.Mutex
	backend Backend
	results map[string]*issueResult

	attempts int
	backoff  time.Duration

	log logger.Logger
	met *metrics.Metrics
}

// issueResult is the cached outcome for one booking ID. The backend is
// pinned when the entry is created, so a backend switch never affects
// an in-flight issuance.
type issueResult struct {
	backend Backend
	done    chan struct{}
	token   string
	err     error
}

// NewRouter builds a router with the given backend. attempts is the
// total number of tries per booking (minimum 1).
func NewRouter(backend Backend, attempts int, backoff time.Duration, log logger.Logger, met *metrics.Metrics) *Router {
	if attempts < 1 {
		attempts = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Router{
		backend:  backend,
		results:  make(map[string]*issueResult),
		attempts: attempts,
		backoff:  backoff,
		log:      log,
		met:      met,
	}
}

// SetBackend switches the active backend for bookings not yet in flight.
func (r *Router) SetBackend(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend = b
}

// BackendName returns the name of the active backend.
func (r *Router) BackendName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.Name()
}

// Issue produces the proof token for req.BookingID, at most once. A
// duplicate call (e.g. a retried request whose response was lost)
// joins the in-flight attempt or returns the cached outcome.
func (r *Router) Issue(ctx context.Context, req Request) (string, error) {
	r.mu.Lock()
	if res, ok := r.results[req.BookingID]; ok {
		r.mu.Unlock()
		select {
		case <-res.done:
			return res.token, res.err
		case <-ctx.Done():
			return "", domain.IssuanceError{Transient: true, Err: ctx.Err()}
		}
	}
	res := &issueResult{backend: r.backend, done: make(chan struct{})}
	r.results[req.BookingID] = res
	r.mu.Unlock()

	res.token, res.err = r.issueWithRetry(ctx, res.backend, req)
	close(res.done)
	return res.token, res.err
}

func (r *Router) issueWithRetry(ctx context.Context, backend Backend, req Request) (string, error) {
	start := time.Now()
	delay := r.backoff

	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		token, err := backend.Issue(ctx, req)
		if err == nil {
			r.observe(backend, "success", start)
			return token, nil
		}
		lastErr = normalizeIssueErr(err)
		if !domain.IsTransientIssuance(lastErr) {
			r.observe(backend, "rejected", start)
			return "", lastErr
		}
		r.log.Warn("issuance attempt failed",
			"backend", backend.Name(),
			"booking_id", req.BookingID,
			"attempt", attempt,
			"error", lastErr.Error(),
		)
		if attempt == r.attempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			r.observe(backend, "unavailable", start)
			return "", domain.IssuanceError{Transient: true, Err: ctx.Err()}
		}
		delay *= 2
	}
	r.observe(backend, "unavailable", start)
	return "", lastErr
}

// Verify checks a token against the active backend. It needs no
// booking record; a token is verifiable on its own.
func (r *Router) Verify(ctx context.Context, token string) Verdict {
	r.mu.Lock()
	backend := r.backend
	r.mu.Unlock()
	return backend.Verify(ctx, token)
}

// Forget evicts the cached outcome for a booking. Only call once the
// booking has reached a terminal state; evicting earlier would let a
// retried request issue a second token.
func (r *Router) Forget(bookingID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.results, bookingID)
}

func (r *Router) observe(backend Backend, outcome string, start time.Time) {
	if r.met == nil {
		return
	}
	r.met.IssuanceAttempts.WithLabelValues(backend.Name(), outcome).Inc()
	r.met.IssuanceDuration.Observe(time.Since(start).Seconds())
}

// normalizeIssueErr maps context timeouts to transient unavailability:
// the backend may have completed the operation despite the lost
// response, which is exactly what the idempotency cache absorbs.
func normalizeIssueErr(err error) error {
	if domain.IsIssuance(err) {
		return err
	}
	return domain.IssuanceError{Transient: true, Err: err}
}
