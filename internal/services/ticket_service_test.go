package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"translinka-backend/internal/domain"
	"translinka-backend/internal/issuance"
)

func TestVerifyProof_RoundTrip(t *testing.T) {
	f := newFixture(t, 50, nil)
	tickets := NewTicketService(f.ledger, f.router)

	b, err := f.svc.CreateBooking(context.Background(), "u1", f.routeID, passenger(), []int{5})
	require.NoError(t, err)

	assert.Equal(t, issuance.VerdictValid, tickets.VerifyProof(context.Background(), b.ProofToken))
	assert.Equal(t, issuance.VerdictInvalid, tickets.VerifyProof(context.Background(), "garbage"))
	assert.Equal(t, issuance.VerdictInvalid, tickets.VerifyProof(context.Background(),
		"0x0000000000000000000000000000000000000000000000000000000000000000"))
}

func TestETicketPDF(t *testing.T) {
	f := newFixture(t, 50, nil)
	tickets := NewTicketService(f.ledger, f.router)

	b, err := f.svc.CreateBooking(context.Background(), "u1", f.routeID, passenger(), []int{5, 6})
	require.NoError(t, err)

	pdf, filename, err := tickets.ETicketPDF(b.ID, "u1", false)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "output must be a PDF document")
	assert.Equal(t, "ETICKET_"+b.ID+".pdf", filename)

	// A stranger gets not found, an admin gets the ticket.
	_, _, err = tickets.ETicketPDF(b.ID, "u2", false)
	assert.True(t, domain.IsNotFound(err))
	_, _, err = tickets.ETicketPDF(b.ID, "u2", true)
	assert.NoError(t, err)
}

func TestETicketPDF_ConfirmedOnly(t *testing.T) {
	f := newFixture(t, 50, rejectingChain{})
	tickets := NewTicketService(f.ledger, f.router)

	_, err := f.svc.CreateBooking(context.Background(), "u1", f.routeID, passenger(), []int{5})
	require.Error(t, err)

	failed := f.ledger.ByStatus(domain.BookingStatusFailed)
	require.Len(t, failed, 1)

	_, _, err = tickets.ETicketPDF(failed[0].ID, "u1", false)
	assert.True(t, domain.IsValidation(err))
}

func TestETicketPDF_CompletedStillPrintable(t *testing.T) {
	f := newFixture(t, 50, nil)
	tickets := NewTicketService(f.ledger, f.router)

	b, err := f.svc.CreateBooking(context.Background(), "u1", f.routeID, passenger(), []int{5})
	require.NoError(t, err)

	completed := f.svc.CompleteDeparted(time.Now().Add(25 * time.Hour))
	require.Len(t, completed, 1)

	_, _, err = tickets.ETicketPDF(b.ID, "u1", false)
	assert.NoError(t, err)
}
