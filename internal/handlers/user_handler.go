package handlers

import (
	"net/http"

	"taskboard-api/internal/middleware"
	"taskboard-api/internal/models"

	"github.com/gin-gonic/gin"
)

// UserResponse is the public projection of a user; it never carries the
// password.
type UserResponse struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}

// Me handles GET /api/me
func (h *Handler) Me(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), c.GetString(middleware.KeyUsername))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// GetAllUsers handles GET /api/users
func (h *Handler) GetAllUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"users": resp,
		"count": len(resp),
	})
}
