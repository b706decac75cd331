package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiaoxiao0301/artist-atlas/internal/middleware"
	"github.com/xiaoxiao0301/artist-atlas/internal/service"
	"github.com/xiaoxiao0301/artist-atlas/pkg/httputil"
)

// AuthHandler serves registration and the two-step login flow.
type AuthHandler struct {
	auth service.AuthService
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register handles POST /users/register. Role is optional and defaults
// to "user".
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.CreatedResponse(c, user)
}

// Login handles POST /users/login. A correct password does not return a
// token: it mails a one-time code that VerifyLogin exchanges for tokens.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}

	if err := h.auth.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gin.H{"message": "OTP sent to your email"})
}

type verifyLoginRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyLogin handles POST /users/verify-login.
func (h *AuthHandler) VerifyLogin(c *gin.Context) {
	var req verifyLoginRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}

	pair, user, err := h.auth.VerifyLogin(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
		"user":          user,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /users/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, pair)
}

// Me handles GET /users/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, user)
}
