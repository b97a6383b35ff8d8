package routes

import (
	"net/http"

	"taskboard-api/internal/handlers"
	"taskboard-api/internal/middleware"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SetupRoutes builds the router with public and protected routes.
func SetupRoutes(h *handlers.Handler, authenticator middleware.Authenticator, logger *log.Logger) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), middleware.RequestLogger(logger))

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task board API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
	}

	// Protected routes (open session required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.SessionAuth(authenticator))
	{
		protectedRoutes.POST("/logout", h.Logout)
		protectedRoutes.GET("/me", h.Me)
		protectedRoutes.GET("/users", h.GetAllUsers)

		protectedRoutes.GET("/boards", h.GetBoards)
		protectedRoutes.POST("/boards", h.CreateBoard)
		protectedRoutes.GET("/boards/:id", h.GetBoardByID)
		protectedRoutes.GET("/boards/:id/stats", h.GetBoardStats)
		protectedRoutes.GET("/boards/:id/columns", h.GetColumns)
		protectedRoutes.POST("/boards/:id/columns", h.CreateColumn)

		protectedRoutes.GET("/columns/:id/tasks", h.GetTasks)
		protectedRoutes.POST("/columns/:id/tasks", h.CreateTask)

		protectedRoutes.GET("/tasks/:id", h.GetTaskByID)
		protectedRoutes.PATCH("/tasks/:id/status", h.UpdateTaskStatus)
		protectedRoutes.POST("/tasks/:id/milestones", h.CreateMilestone)

		protectedRoutes.PATCH("/milestones/:id", h.UpdateMilestone)
	}

	return ginRouter
}
