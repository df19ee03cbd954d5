package issuance

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"translinka-backend/internal/domain"
)

// flakyChain fails the first failures submissions, then delegates to an
// in-memory chain.
type flakyChain struct {
	inner    *memoryChain
	failures int
	submits  int
}

func newFlakyChain(failures int) *flakyChain {
	return &flakyChain{inner: newMemoryChain(), failures: failures}
}

func (c *flakyChain) Submit(ctx context.Context, token string, payload Request) error {
	c.submits++
	if c.submits <= c.failures {
		return errors.New("node unreachable")
	}
	return c.inner.Submit(ctx, token, payload)
}

func (c *flakyChain) Has(ctx context.Context, token string) (bool, error) {
	return c.inner.Has(ctx, token)
}

// rejectingChain refuses every submission permanently.
type rejectingChain struct{}

func (rejectingChain) Submit(ctx context.Context, token string, payload Request) error {
	return ErrRejected
}

func (rejectingChain) Has(ctx context.Context, token string) (bool, error) {
	return false, nil
}

// downChain cannot answer lookups at all.
type downChain struct{}

func (downChain) Submit(ctx context.Context, token string, payload Request) error {
	return nil
}

func (downChain) Has(ctx context.Context, token string) (bool, error) {
	return false, errors.New("node unreachable")
}

func validRequest() Request {
	return Request{
		BookingID:       "b-1",
		UserID:          "u-1",
		RouteID:         "r-1",
		PriceMinorUnits: 7000,
	}
}

func TestEthereumIssue_TokenFormat(t *testing.T) {
	iss := NewEthereumIssuer(nil)

	token, err := iss.Issue(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^0x[0-9a-f]{64}$`), token)

	// The nonce makes every issuance unique even for the same payload.
	second, err := iss.Issue(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEqual(t, token, second)
}

func TestEthereumIssue_RejectsBadPayload(t *testing.T) {
	iss := NewEthereumIssuer(nil)

	cases := []Request{
		{UserID: "u", RouteID: "r", PriceMinorUnits: 100},
		{BookingID: "b", RouteID: "r", PriceMinorUnits: 100},
		{BookingID: "b", UserID: "u", PriceMinorUnits: 100},
		{BookingID: "b", UserID: "u", RouteID: "r", PriceMinorUnits: 0},
		{BookingID: "b", UserID: "u", RouteID: "r", PriceMinorUnits: -5},
	}
	for _, req := range cases {
		_, err := iss.Issue(context.Background(), req)
		require.True(t, domain.IsIssuance(err))
		assert.False(t, domain.IsTransientIssuance(err), "payload rejection must be permanent: %+v", req)
	}
}

func TestEthereumIssue_ChainRejectionIsPermanent(t *testing.T) {
	iss := NewEthereumIssuer(rejectingChain{})

	_, err := iss.Issue(context.Background(), validRequest())
	require.True(t, domain.IsIssuance(err))
	assert.False(t, domain.IsTransientIssuance(err))
}

func TestEthereumIssue_ChainOutageIsTransient(t *testing.T) {
	iss := NewEthereumIssuer(newFlakyChain(10))

	_, err := iss.Issue(context.Background(), validRequest())
	assert.True(t, domain.IsTransientIssuance(err))
}

func TestEthereumVerify(t *testing.T) {
	chain := newMemoryChain()
	iss := NewEthereumIssuer(chain)

	token, err := iss.Issue(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, VerdictValid, iss.Verify(context.Background(), token))
	assert.Equal(t, VerdictInvalid, iss.Verify(context.Background(), "not-a-token"))
	assert.Equal(t, VerdictInvalid, iss.Verify(context.Background(),
		"0x0000000000000000000000000000000000000000000000000000000000000000"))

	down := NewEthereumIssuer(downChain{})
	assert.Equal(t, VerdictUnknown, down.Verify(context.Background(), token))
}

func TestSolanaIssue_MintFormat(t *testing.T) {
	iss := NewSolanaIssuer(nil)

	mint, err := iss.Issue(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), mint)
}

func TestSolanaVerify(t *testing.T) {
	chain := newMemoryChain()
	iss := NewSolanaIssuer(chain)

	mint, err := iss.Issue(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, VerdictValid, iss.Verify(context.Background(), mint))
	assert.Equal(t, VerdictInvalid, iss.Verify(context.Background(), "short"))
	assert.Equal(t, VerdictInvalid, iss.Verify(context.Background(),
		"ffffffffffffffffffffffffffffffff"))
}
