package api

import (
	"net/http"
	"time"

	"gymdesk/gym-app/internal/metrics"
	"gymdesk/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	metrics     *metrics.Recorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, rec *metrics.Recorder) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: rec}
}

// --- Request/Response Structs ---

// Length and format rules are enforced by the service so that every entry
// point answers with the same messages.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"` // Defaults to member
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Message   string        `json:"message,omitempty"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      *UserResponse `json:"user"`
}

// ResetPasswordRequest takes the new password as newPassword or password.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"newPassword"`
	Password    string `json:"password"`
}

func (r ResetPasswordRequest) password() string {
	if r.NewPassword != "" {
		return r.NewPassword
	}
	return r.Password
}

// --- Handler Methods ---

// Register creates a user with the matching member or trainer record.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	h.metrics.RecordEvent("register", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}

	// New accounts are signed in straight away.
	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, LoginResponse{
		Message:   "Registered",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      MapUserToResponse(user),
	})
}

// Login authenticates a user and returns a JWT token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	h.metrics.RecordEvent("login", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      MapUserToResponse(result.User),
	})
}

// Logout revokes the bearer token used for this request.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	raw, _ := c.Get(contextClaimsKey)
	claims, _ := raw.(*service.TokenClaims)
	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// ResetPassword sets a new password for the account with the given email.
// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) || !requireField(c, req.password(), "password") {
		return
	}
	err := h.authService.ResetPassword(c.Request.Context(), req.Email, req.password())
	h.metrics.RecordEvent("reset_password", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}
