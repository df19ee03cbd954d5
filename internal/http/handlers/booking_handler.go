package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"translinka-backend/internal/http/middleware"
	"translinka-backend/internal/services"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Bookings *services.BookingService
	Tickets  *services.TicketService
}

type createBookingRequest struct {
	RouteID   string                 `json:"route_id"`
	Passenger services.PassengerInfo `json:"passenger"`
	Seats     []int                  `json:"seats"`
}

// POST /api/bookings
func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := h.Bookings.CreateBooking(c.Request.Context(), middleware.CurrentUserID(c), req.RouteID, req.Passenger, req.Seats)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GET /api/bookings
func (h BookingHandler) ListMine(c *gin.Context) {
	bookings := h.Bookings.BookingsForUser(middleware.CurrentUserID(c))
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GET /api/bookings/:id
func (h BookingHandler) Get(c *gin.Context) {
	booking, err := h.Bookings.Booking(c.Param("id"), middleware.CurrentUserID(c), middleware.IsAdmin(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// POST /api/bookings/:id/cancel
func (h BookingHandler) Cancel(c *gin.Context) {
	if err := h.Bookings.CancelBooking(c.Param("id"), middleware.CurrentUserID(c), middleware.IsAdmin(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// GET /api/bookings/:id/e-ticket
func (h BookingHandler) ETicket(c *gin.Context) {
	pdf, filename, err := h.Tickets.ETicketPDF(c.Param("id"), middleware.CurrentUserID(c), middleware.IsAdmin(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
