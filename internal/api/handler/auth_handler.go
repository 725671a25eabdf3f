package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/service"
	"vvf-roster/backend/pkg/jwt"
	"vvf-roster/backend/pkg/response"
)

// AuthHandler authentication endpoints.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "wrong email or password")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenInvalid):
			response.Unauthorized(c, 11004, "refresh token invalid or expired")
		case errors.Is(err, service.ErrUserNotFound):
			response.Unauthorized(c, 11002, "account no longer exists")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Logout
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID, expiresAt := GetTokenInfo(c)
	if tokenID != "" {
		if err := h.authSvc.Logout(c.Request.Context(), tokenID, expiresAt); err != nil {
			response.InternalError(c)
			return
		}
	}
	response.OK(c, nil)
}

// Me
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11002, "account no longer exists")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ChangePassword
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			response.BadRequest(c, 11003, "current password does not match")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 11002, "account no longer exists")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
