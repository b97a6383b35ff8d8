package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taskboard-api/internal/auth"
	"taskboard-api/internal/workspace"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Handler serves the HTTP API on top of the auth and workspace services.
type Handler struct {
	auth      *auth.Service
	workspace *workspace.Service
	log       *log.Entry
}

// New creates a Handler.
func New(authService *auth.Service, ws *workspace.Service, logger *log.Logger) *Handler {
	return &Handler{
		auth:      authService,
		workspace: ws,
		log:       logger.WithField("component", "handlers"),
	}
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Code: "INVALID_ARGUMENT"})
}

// fail translates a service error into a structured response.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrDuplicateUsername):
		c.JSON(http.StatusConflict, errorResponse{Error: "Username already exists", Code: "DUPLICATE_USERNAME"})
	case errors.Is(err, auth.ErrAuthenticationFailure):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid username or password", Code: "AUTHENTICATION_FAILURE"})
	case errors.Is(err, workspace.ErrInvalidReference):
		c.JSON(http.StatusNotFound, errorResponse{Error: "Referenced item not found", Code: "INVALID_REFERENCE"})
	case errors.Is(err, workspace.ErrInvalidSelection):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Nothing selected", Code: "INVALID_SELECTION"})
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error", Code: "INTERNAL"})
	}
}

// idParam parses a numeric path parameter. A missing or malformed value
// is an empty selection and yields 0.
func idParam(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
