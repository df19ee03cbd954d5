package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"

	"translinka-backend/internal/domain"
	"translinka-backend/internal/issuance"
	"translinka-backend/internal/ledger"
	"translinka-backend/internal/utils"
)

// TicketService verifies proof tokens and renders e-tickets.
type TicketService struct {
	ledger *ledger.Ledger
	issuer *issuance.Router
}

func NewTicketService(ldg *ledger.Ledger, issuer *issuance.Router) *TicketService {
	return &TicketService{ledger: ldg, issuer: issuer}
}

// VerifyProof checks a token independently of any booking record.
func (s *TicketService) VerifyProof(ctx context.Context, token string) issuance.Verdict {
	return s.issuer.Verify(ctx, token)
}

// ETicketPDF renders the e-ticket for a confirmed (or completed)
// booking, scoped to its owner unless admin.
func (s *TicketService) ETicketPDF(bookingID, userID string, admin bool) ([]byte, string, error) {
	b, err := s.ledger.ByID(bookingID)
	if err != nil {
		return nil, "", err
	}
	if !admin && b.UserID != userID {
		return nil, "", domain.NotFoundError{Resource: "booking"}
	}
	if b.Status != domain.BookingStatusConfirmed && b.Status != domain.BookingStatusCompleted {
		return nil, "", domain.ValidationError{Field: "status", Msg: "e-ticket available for confirmed bookings only"}
	}
	return buildETicketPDF(b)
}

func buildETicketPDF(b domain.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TRANSLINKA E-TICKET")
	pdf.Ln(12)

	origin, destination, busNumber, departure := "-", "-", "-", "-"
	if b.Route != nil {
		origin = b.Route.Origin
		destination = b.Route.Destination
		busNumber = b.Route.BusNumber
		departure = utils.FormatDateTime(b.Route.DepartureTime)
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger : %s", safe(b.PassengerName, "-")),
		fmt.Sprintf("Phone     : %s", safe(b.PassengerPhone, "-")),
		fmt.Sprintf("Route     : %s -> %s", safe(origin, "-"), safe(destination, "-")),
		fmt.Sprintf("Departure : %s", departure),
		fmt.Sprintf("Bus       : %s", safe(busNumber, "-")),
		fmt.Sprintf("Seats     : %s", seatList(b.Seats)),
		fmt.Sprintf("Total     : %s", utils.FormatRWF(b.TotalPrice)),
		fmt.Sprintf("Booking   : %s", b.ID),
		fmt.Sprintf("Status    : %s", b.Status),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Proof token")
	pdf.Ln(7)
	pdf.SetFont("Courier", "", 9)
	pdf.MultiCell(0, 5, b.ProofToken, "", "", false)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Present this ticket when boarding. The proof token can be verified independently at any time.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "render e-ticket", Err: err}
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", b.ID)
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func seatList(seats []int) string {
	parts := make([]string, len(seats))
	for i, n := range seats {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
