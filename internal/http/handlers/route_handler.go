package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"translinka-backend/internal/domain"
	"translinka-backend/internal/services"
	"translinka-backend/internal/utils"
)

// RouteHandler exposes the route catalog and seat availability.
type RouteHandler struct {
	Routes   *services.RouteService
	Bookings *services.BookingService
}

// GET /api/routes?origin=&destination=&date=YYYY-MM-DD
func (h RouteHandler) List(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")

	var date time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	var routes []services.RouteWithAvailability
	if origin == "" && destination == "" && date.IsZero() {
		routes = h.Routes.List()
	} else {
		routes = h.Routes.Search(origin, destination, date)
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// GET /api/routes/:id
func (h RouteHandler) Get(c *gin.Context) {
	route, err := h.Routes.Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": route})
}

// GET /api/routes/:id/seats
func (h RouteHandler) Seats(c *gin.Context) {
	seats, err := h.Bookings.SeatAvailability(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seats": seats})
}

type createRouteRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Price         int64  `json:"price"`
	BusNumber     string `json:"bus_number"`
	TotalSeats    int    `json:"total_seats"`
}

// POST /api/routes (admin)
func (h RouteHandler) Create(c *gin.Context) {
	var req createRouteRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "departure_time", Msg: "expected RFC3339"})
		return
	}
	arrival, err := time.Parse(time.RFC3339, req.ArrivalTime)
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "arrival_time", Msg: "expected RFC3339"})
		return
	}

	route, err := h.Routes.Create(domain.Route{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Price:         req.Price,
		BusNumber:     req.BusNumber,
		TotalSeats:    req.TotalSeats,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route": route})
}
