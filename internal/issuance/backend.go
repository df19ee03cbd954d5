package issuance

import (
	"context"
	"sync"
)

// Request carries everything a backend needs to issue a proof token.
type Request struct {
	BookingID       string
	UserID          string
	RouteID         string
	PriceMinorUnits int64
}

// Verdict is the outcome of verifying a proof token. Unknown means the
// backend could not reach its source of truth and must not be conflated
// with a definitively bad token.
type Verdict string

const (
	VerdictValid   Verdict = "Valid"
	VerdictInvalid Verdict = "Invalid"
	VerdictUnknown Verdict = "Unknown"
)

// Backend issues and verifies proof tokens. Implementations normalize
// all backend-specific failures into domain.IssuanceError; nothing else
// crosses this boundary.
type Backend interface {
	Name() string
	Issue(ctx context.Context, req Request) (string, error)
	Verify(ctx context.Context, token string) Verdict
}

// ChainClient is the transport a concrete issuer submits transactions
// through. The in-memory implementation stands in for a real node; the
// contract (not the simulation) is what matters to callers.
type ChainClient interface {
	Submit(ctx context.Context, token string, payload Request) error
	Has(ctx context.Context, token string) (bool, error)
}

// memoryChain records submitted tokens in memory. It never fails on
// its own; tests wrap it to exercise transient and permanent outcomes.
type memoryChain struct {
	mu     sync.Mutex
	tokens map[string]Request
}

func newMemoryChain() *memoryChain {
	return &memoryChain{tokens: make(map[string]Request)}
}

func (c *memoryChain) Submit(ctx context.Context, token string, payload Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[token] = payload
	return nil
}

func (c *memoryChain) Has(ctx context.Context, token string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.tokens[token]
	return ok, nil
}
