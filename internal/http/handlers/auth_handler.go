package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"translinka-backend/internal/services"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	user, token, err := h.Auth.Register(req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	user, token, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		// Credential failures read as 401, not 400.
		if req.Email != "" && req.Password != "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "email or password incorrect", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
