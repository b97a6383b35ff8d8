package handlers

import (
	"net/http"

	"taskboard-api/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task.
// The title is taken literally, empty included.
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// UpdateTaskStatusRequest represents a minimal request to change status
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateMilestoneRequest represents the request payload for a milestone
type CreateMilestoneRequest struct {
	Name string `json:"name"`
}

// UpdateMilestoneRequest toggles a milestone
type UpdateMilestoneRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// TaskSummary is a task as shown in a column's task list.
type TaskSummary struct {
	ID       uint              `json:"id"`
	Title    string            `json:"title"`
	Status   models.TaskStatus `json:"status"`
	Progress int               `json:"progress"`
}

// TaskView is a task with its milestones.
type TaskView struct {
	TaskSummary
	ColumnID   uint               `json:"columnId"`
	Milestones []models.Milestone `json:"milestones"`
}

func toTaskSummary(t *models.Task) TaskSummary {
	return TaskSummary{ID: t.ID, Title: t.Title, Status: t.Status, Progress: t.Progress()}
}

func toTaskSummaries(tasks []models.Task) []TaskSummary {
	resp := make([]TaskSummary, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, toTaskSummary(&tasks[i]))
	}
	return resp
}

func toTaskView(t *models.Task) TaskView {
	milestones := t.Milestones
	if milestones == nil {
		milestones = []models.Milestone{}
	}
	return TaskView{TaskSummary: toTaskSummary(t), ColumnID: t.ColumnID, Milestones: milestones}
}

// CreateTask handles POST /api/columns/:id/tasks
func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	task, err := h.workspace.AddTask(c.Request.Context(), idParam(c, "id"), req.Title)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskView(task))
}

// GetTasks handles GET /api/columns/:id/tasks
func (h *Handler) GetTasks(c *gin.Context) {
	tasks, err := h.workspace.ListTasks(c.Request.Context(), idParam(c, "id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := toTaskSummaries(tasks)
	c.JSON(http.StatusOK, gin.H{
		"tasks": resp,
		"count": len(resp),
	})
}

// GetTaskByID handles GET /api/tasks/:id
func (h *Handler) GetTaskByID(c *gin.Context) {
	task, err := h.workspace.GetTask(c.Request.Context(), idParam(c, "id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskView(task))
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status
func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	status, ok := models.ParseTaskStatus(req.Status)
	if !ok {
		badRequest(c, "status must be TO_DO, IN_PROGRESS or DONE")
		return
	}

	task, err := h.workspace.SetTaskStatus(c.Request.Context(), idParam(c, "id"), status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskView(task))
}

// CreateMilestone handles POST /api/tasks/:id/milestones
func (h *Handler) CreateMilestone(c *gin.Context) {
	var req CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	milestone, err := h.workspace.AddMilestone(c.Request.Context(), idParam(c, "id"), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, milestone)
}

// UpdateMilestone handles PATCH /api/milestones/:id
func (h *Handler) UpdateMilestone(c *gin.Context) {
	var req UpdateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "completed is required")
		return
	}

	milestone, err := h.workspace.SetMilestoneCompleted(c.Request.Context(), idParam(c, "id"), *req.Completed)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, milestone)
}
