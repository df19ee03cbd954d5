package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"translinka-backend/internal/domain"
	"translinka-backend/internal/http/middleware"
)

func respondError(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"details":    details,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsSeatsUnavailable(err):
		var conflict domain.SeatsUnavailableError
		errors.As(err, &conflict)
		respondError(c, http.StatusConflict, "seats_unavailable", err.Error(), gin.H{"seats": conflict.Seats})
	case domain.IsNoSuchHold(err):
		respondError(c, http.StatusConflict, "hold_expired", "seat hold expired before confirmation", nil)
	case domain.IsIssuance(err):
		respondError(c, http.StatusBadGateway, "issuance_failed",
			"booking could not be secured, no commitment was made", gin.H{"transient": domain.IsTransientIssuance(err)})
	case domain.IsInvalidTransition(err):
		respondError(c, http.StatusConflict, "invalid_transition", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid payload", nil)
		return false
	}
	return true
}
