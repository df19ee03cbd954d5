package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"translinka-backend/internal/domain"
)

func draft(user, route string) Draft {
	return Draft{
		UserID:         user,
		RouteID:        route,
		PassengerName:  "Alice Uwimana",
		PassengerEmail: "alice@example.com",
		PassengerPhone: "0780000001",
		Seats:          []int{5, 6},
		TotalPrice:     14000,
	}
}

func TestCreate_AssignsIDAndPendingStatus(t *testing.T) {
	l := New()

	b, err := l.Create(draft("u1", "r1"))
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, domain.BookingStatusPending, b.Status)
	assert.Empty(t, b.ProofToken)
	assert.Equal(t, []int{5, 6}, b.Seats)
}

func TestTransition_StateMachineClosure(t *testing.T) {
	statuses := []domain.BookingStatus{
		domain.BookingStatusPending,
		domain.BookingStatusConfirmed,
		domain.BookingStatusCancelled,
		domain.BookingStatusCompleted,
		domain.BookingStatusFailed,
	}
	allowed := map[[2]domain.BookingStatus]bool{
		{domain.BookingStatusPending, domain.BookingStatusConfirmed}:   true,
		{domain.BookingStatusPending, domain.BookingStatusFailed}:      true,
		{domain.BookingStatusConfirmed, domain.BookingStatusCancelled}: true,
		{domain.BookingStatusConfirmed, domain.BookingStatusCompleted}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			l := New()
			b, err := l.Create(draft("u1", "r1"))
			require.NoError(t, err)

			// Drive the booking into the from state.
			switch from {
			case domain.BookingStatusConfirmed:
				require.NoError(t, l.Transition(b.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed))
			case domain.BookingStatusFailed:
				require.NoError(t, l.Transition(b.ID, domain.BookingStatusPending, domain.BookingStatusFailed))
			case domain.BookingStatusCancelled:
				require.NoError(t, l.Transition(b.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed))
				require.NoError(t, l.Transition(b.ID, domain.BookingStatusConfirmed, domain.BookingStatusCancelled))
			case domain.BookingStatusCompleted:
				require.NoError(t, l.Transition(b.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed))
				require.NoError(t, l.Transition(b.ID, domain.BookingStatusConfirmed, domain.BookingStatusCompleted))
			}

			err = l.Transition(b.ID, from, to)
			if allowed[[2]domain.BookingStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s should be allowed", from, to)
			} else {
				assert.True(t, domain.IsInvalidTransition(err), "%s -> %s should be rejected", from, to)
			}
		}
	}
}

func TestTransition_RejectsStaleFrom(t *testing.T) {
	l := New()
	b, err := l.Create(draft("u1", "r1"))
	require.NoError(t, err)
	require.NoError(t, l.Transition(b.ID, domain.BookingStatusPending, domain.BookingStatusFailed))

	err = l.Transition(b.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed)
	assert.True(t, domain.IsInvalidTransition(err))
}

func TestAttachProof_OnlyWhilePending(t *testing.T) {
	l := New()
	b, err := l.Create(draft("u1", "r1"))
	require.NoError(t, err)

	require.NoError(t, l.AttachProof(b.ID, "0xabc"))
	require.NoError(t, l.Transition(b.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed))

	// Already attached; a second token is rejected.
	err = l.AttachProof(b.ID, "0xdef")
	assert.True(t, domain.IsInvalidTransition(err))

	got, err := l.ByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", got.ProofToken)
}

func TestAttachProof_RejectedAfterFailure(t *testing.T) {
	l := New()
	b, err := l.Create(draft("u1", "r1"))
	require.NoError(t, err)
	require.NoError(t, l.Transition(b.ID, domain.BookingStatusPending, domain.BookingStatusFailed))

	err = l.AttachProof(b.ID, "0xabc")
	assert.True(t, domain.IsInvalidTransition(err))
}

func TestQueries_ReturnSnapshots(t *testing.T) {
	l := New()
	b, err := l.Create(draft("u1", "r1"))
	require.NoError(t, err)

	got, err := l.ByID(b.ID)
	require.NoError(t, err)

	// Mutating the returned copy must not touch ledger state.
	got.Seats[0] = 99
	got.Status = domain.BookingStatusCancelled

	fresh, err := l.ByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, fresh.Seats)
	assert.Equal(t, domain.BookingStatusPending, fresh.Status)
}

func TestIndices_ByUserAndRoute(t *testing.T) {
	l := New()
	b1, err := l.Create(draft("u1", "r1"))
	require.NoError(t, err)
	_, err = l.Create(draft("u2", "r1"))
	require.NoError(t, err)
	_, err = l.Create(draft("u1", "r2"))
	require.NoError(t, err)

	assert.Len(t, l.ByUser("u1"), 2)
	assert.Len(t, l.ByUser("u2"), 1)
	assert.Len(t, l.ByRoute("r1"), 2)
	assert.Len(t, l.ByRoute("r2"), 1)
	assert.Empty(t, l.ByUser("nobody"))

	require.NoError(t, l.Transition(b1.ID, domain.BookingStatusPending, domain.BookingStatusFailed))
	failed := l.ByStatus(domain.BookingStatusFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, b1.ID, failed[0].ID)
}

func TestByID_NotFound(t *testing.T) {
	l := New()

	_, err := l.ByID("missing")
	assert.True(t, domain.IsNotFound(err))
}
