package issuance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"translinka-backend/internal/domain"
)

var solTokenPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// lamportsPerUnit converts minor currency units to lamports in the
// ticket mint program.
const lamportsPerUnit = 1_000_000_000

// TicketMetadata is the NFT metadata attached to a Solana ticket mint.
type TicketMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BookingID   string `json:"booking_id"`
	Lamports    int64  `json:"lamports"`
}

// SolanaIssuer anchors tickets as NFT mints. Tokens are 32-character
// mint addresses.
type SolanaIssuer struct {
	client ChainClient
}

func NewSolanaIssuer(client ChainClient) *SolanaIssuer {
	if client == nil {
		client = newMemoryChain()
	}
	return &SolanaIssuer{client: client}
}

func (s *SolanaIssuer) Name() string { return "solana" }

func (s *SolanaIssuer) Issue(ctx context.Context, req Request) (string, error) {
	if req.BookingID == "" || req.UserID == "" || req.RouteID == "" {
		return "", domain.IssuanceError{Err: errors.New("incomplete ticket payload")}
	}
	if req.PriceMinorUnits <= 0 {
		return "", domain.IssuanceError{Err: errors.New("non-positive price")}
	}

	meta := TicketMetadata{
		Name:        "TransLinka Ticket",
		Description: fmt.Sprintf("Bus ticket for route %s", req.RouteID),
		BookingID:   req.BookingID,
		Lamports:    req.PriceMinorUnits * lamportsPerUnit,
	}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%s",
		meta.BookingID, meta.Description, meta.Lamports, uuid.NewString())))
	mint := hex.EncodeToString(sum[:16])

	if err := s.client.Submit(ctx, mint, req); err != nil {
		return "", normalizeChainErr(err)
	}
	return mint, nil
}

func (s *SolanaIssuer) Verify(ctx context.Context, token string) Verdict {
	if !solTokenPattern.MatchString(strings.ToLower(token)) {
		return VerdictInvalid
	}
	ok, err := s.client.Has(ctx, token)
	if err != nil {
		return VerdictUnknown
	}
	if !ok {
		return VerdictInvalid
	}
	return VerdictValid
}
