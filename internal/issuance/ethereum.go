package issuance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"

	"github.com/google/uuid"

	"translinka-backend/internal/domain"
)

// ErrRejected is returned by a ChainClient for submissions the chain
// will never accept. Issuers surface it as a permanent rejection.
var ErrRejected = errors.New("submission rejected by chain")

var ethTokenPattern = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

// weiPerUnit converts minor currency units to the chain's native
// integer precision (1 unit = 10^18 wei in the ticket contract).
var weiPerUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// EthereumIssuer anchors tickets as transactions on an Ethereum-style
// chain. Tokens are transaction hashes: 0x followed by 64 hex chars.
type EthereumIssuer struct {
	client ChainClient
}

func NewEthereumIssuer(client ChainClient) *EthereumIssuer {
	if client == nil {
		client = newMemoryChain()
	}
	return &EthereumIssuer{client: client}
}

func (e *EthereumIssuer) Name() string { return "ethereum" }

func (e *EthereumIssuer) Issue(ctx context.Context, req Request) (string, error) {
	if req.BookingID == "" || req.UserID == "" || req.RouteID == "" {
		return "", domain.IssuanceError{Err: errors.New("incomplete ticket payload")}
	}
	if req.PriceMinorUnits <= 0 {
		return "", domain.IssuanceError{Err: errors.New("non-positive price")}
	}

	wei := new(big.Int).Mul(big.NewInt(req.PriceMinorUnits), weiPerUnit)

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s|%s",
		req.BookingID, req.UserID, req.RouteID, wei.String(), uuid.NewString())))
	token := "0x" + hex.EncodeToString(sum[:])

	if err := e.client.Submit(ctx, token, req); err != nil {
		return "", normalizeChainErr(err)
	}
	return token, nil
}

func (e *EthereumIssuer) Verify(ctx context.Context, token string) Verdict {
	if !ethTokenPattern.MatchString(token) {
		return VerdictInvalid
	}
	ok, err := e.client.Has(ctx, token)
	if err != nil {
		return VerdictUnknown
	}
	if !ok {
		return VerdictInvalid
	}
	return VerdictValid
}

// normalizeChainErr collapses transport failures into the two error
// kinds the interface allows.
func normalizeChainErr(err error) error {
	if errors.Is(err, ErrRejected) {
		return domain.IssuanceError{Err: err}
	}
	return domain.IssuanceError{Transient: true, Err: err}
}
