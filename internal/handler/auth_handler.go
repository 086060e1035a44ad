package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escolacentral/escola-backend/internal/middleware"
	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/response"
	"github.com/escolacentral/escola-backend/internal/service"
	"github.com/escolacentral/escola-backend/internal/validator"
)

// AuthHandler handles admin login, logout and profile.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// POST /api/v1/auth/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, clientOrigin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		case errors.Is(err, service.ErrAccountInactive):
			response.Fail(c, http.StatusForbidden, response.ErrAccountInactive)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Logout godoc
// POST /api/v1/auth/admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Sessão terminada."})
}

// Me godoc
// GET /api/v1/auth/admin/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, err := h.auth.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"admin": admin})
}
