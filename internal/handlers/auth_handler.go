package handlers

import (
	"net/http"
	"time"

	"taskboard-api/internal/middleware"
	"taskboard-api/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the registration payload. Role defaults to
// EMPLOYEE.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// RegisterResponse represents the registration result
type RegisterResponse struct {
	Registered bool        `json:"registered"`
	Username   string      `json:"username"`
	Role       models.Role `json:"role"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	Message   string      `json:"message"`
}

// Register handles POST /api/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	role := models.RoleEmployee
	if req.Role != "" {
		r, ok := models.ParseRole(req.Role)
		if !ok {
			badRequest(c, "role must be MANAGER or EMPLOYEE")
			return
		}
		role = r
	}

	if err := h.auth.Register(c.Request.Context(), req.Username, req.Password, role); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Registered: true,
		Username:   req.Username,
		Role:       role,
	})
}

// Login handles POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	sess, err := h.auth.OpenSession(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		Username:  sess.User.Username,
		Role:      sess.User.Role,
		Message:   "Login successful",
	})
}

// Logout handles POST /api/logout
func (h *Handler) Logout(c *gin.Context) {
	h.auth.CloseSession(c.GetString(middleware.KeySessionID))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
