package api

import (
	"database/sql"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	h "translinka-backend/internal/http/handlers"
	"translinka-backend/internal/http/middleware"
	"translinka-backend/internal/services"
	"translinka-backend/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Routes   *services.RouteService
	Bookings *services.BookingService
	Tickets  *services.TicketService
	Auth     *services.AuthService
	DB       *sql.DB
	Log      logger.Logger
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(deps.Log), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		deps.Log.Warn("failed to set trusted proxies", "error", err.Error())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	system := h.SystemHandler{DB: deps.DB}
	routes := h.RouteHandler{Routes: deps.Routes, Bookings: deps.Bookings}
	bookings := h.BookingHandler{Bookings: deps.Bookings, Tickets: deps.Tickets}
	tickets := h.TicketHandler{Tickets: deps.Tickets}
	auth := h.AuthHandler{Auth: deps.Auth}

	api := r.Group("/api")
	{
		api.GET("/health", system.Health)
		api.GET("/db-check", system.DBCheck)

		api.POST("/auth/register", auth.Register)
		api.POST("/auth/login", auth.Login)

		api.GET("/routes", routes.List)
		api.GET("/routes/:id", routes.Get)
		api.GET("/routes/:id/seats", routes.Seats)

		api.POST("/tickets/verify", tickets.Verify)

		authed := api.Group("")
		authed.Use(middleware.Auth(deps.Auth))
		{
			authed.POST("/routes", requireAdmin(), routes.Create)

			authed.POST("/bookings", bookings.Create)
			authed.GET("/bookings", bookings.ListMine)
			authed.GET("/bookings/:id", bookings.Get)
			authed.POST("/bookings/:id/cancel", bookings.Cancel)
			authed.GET("/bookings/:id/e-ticket", bookings.ETicket)
		}
	}

	return r
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !middleware.IsAdmin(c) {
			c.AbortWithStatusJSON(stdhttp.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}
