package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"translinka-backend/internal/domain"
	"translinka-backend/internal/services"
)

// TicketHandler exposes proof-token verification.
type TicketHandler struct {
	Tickets *services.TicketService
}

type verifyRequest struct {
	Token string `json:"token"`
}

// POST /api/tickets/verify
func (h TicketHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		RespondDomainError(c, domain.ValidationError{Field: "token", Msg: "required"})
		return
	}
	verdict := h.Tickets.VerifyProof(c.Request.Context(), strings.TrimSpace(req.Token))
	c.JSON(http.StatusOK, gin.H{"verdict": verdict})
}
