package handlers

import (
	"net/http"
	"time"

	"taskboard-api/internal/middleware"
	"taskboard-api/internal/models"

	"github.com/gin-gonic/gin"
)

// NameRequest is the payload for creating a board or a column. Any string,
// including the empty one, is accepted as a name.
type NameRequest struct {
	Name string `json:"name"`
}

// BoardSummary is a board as shown in the board list.
type BoardSummary struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// ColumnSummary is a column as shown in a board's column list.
type ColumnSummary struct {
	ID      uint   `json:"id"`
	BoardID uint   `json:"boardId"`
	Name    string `json:"name"`
}

// ColumnView is a column with its tasks.
type ColumnView struct {
	ColumnSummary
	Tasks []TaskSummary `json:"tasks"`
}

// BoardView is a full board projection.
type BoardView struct {
	BoardSummary
	Columns []ColumnView `json:"columns"`
}

func toBoardSummary(b *models.Board) BoardSummary {
	return BoardSummary{ID: b.ID, Name: b.Name, CreatedBy: b.CreatedBy, CreatedAt: b.CreatedAt}
}

func toColumnSummary(col *models.Column) ColumnSummary {
	return ColumnSummary{ID: col.ID, BoardID: col.BoardID, Name: col.Name}
}

// CreateBoard handles POST /api/boards
func (h *Handler) CreateBoard(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	board, err := h.workspace.AddBoard(c.Request.Context(), c.GetString(middleware.KeyUsername), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBoardSummary(board))
}

// GetBoards handles GET /api/boards
func (h *Handler) GetBoards(c *gin.Context) {
	boards, err := h.workspace.ListBoards(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]BoardSummary, 0, len(boards))
	for i := range boards {
		resp = append(resp, toBoardSummary(&boards[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"boards": resp,
		"count":  len(resp),
	})
}

// GetBoardByID handles GET /api/boards/:id
// Returns the board with every column and task.
func (h *Handler) GetBoardByID(c *gin.Context) {
	board, err := h.workspace.GetBoard(c.Request.Context(), idParam(c, "id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	view := BoardView{BoardSummary: toBoardSummary(board), Columns: make([]ColumnView, 0, len(board.Columns))}
	for i := range board.Columns {
		col := &board.Columns[i]
		view.Columns = append(view.Columns, ColumnView{
			ColumnSummary: toColumnSummary(col),
			Tasks:         toTaskSummaries(col.Tasks),
		})
	}
	c.JSON(http.StatusOK, view)
}

// GetBoardStats handles GET /api/boards/:id/stats
func (h *Handler) GetBoardStats(c *gin.Context) {
	stats, err := h.workspace.BoardStats(c.Request.Context(), idParam(c, "id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CreateColumn handles POST /api/boards/:id/columns
func (h *Handler) CreateColumn(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	col, err := h.workspace.AddColumn(c.Request.Context(), idParam(c, "id"), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toColumnSummary(col))
}

// GetColumns handles GET /api/boards/:id/columns
func (h *Handler) GetColumns(c *gin.Context) {
	columns, err := h.workspace.ListColumns(c.Request.Context(), idParam(c, "id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]ColumnSummary, 0, len(columns))
	for i := range columns {
		resp = append(resp, toColumnSummary(&columns[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"columns": resp,
		"count":   len(resp),
	})
}
