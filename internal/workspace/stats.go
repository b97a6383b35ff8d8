package workspace

import (
	"context"

	"taskboard-api/internal/models"

	"gorm.io/gorm"
)

// Stats counts the tasks of a board per status.
type Stats struct {
	BoardID    uint                        `json:"boardId"`
	ByStatus   map[models.TaskStatus]int64 `json:"byStatus"`
	Total      int64                       `json:"total"`
	Milestones int64                       `json:"milestones"`
	Completed  int64                       `json:"completedMilestones"`
}

// BoardStats returns the number of tasks per status across every column of
// a board, plus milestone totals. Every status is present, zero or not.
func (s *Service) BoardStats(ctx context.Context, boardID uint) (*Stats, error) {
	if boardID == 0 {
		return nil, ErrInvalidSelection
	}

	type row struct {
		Status string
		Count  int64
	}

	stats := &Stats{BoardID: boardID, ByStatus: make(map[models.TaskStatus]int64, len(models.Statuses))}
	for _, st := range models.Statuses {
		stats.ByStatus[st] = 0
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Board{}, boardID); err != nil {
			return err
		}

		var rows []row
		if err := tx.Model(&models.Task{}).
			Select("tasks.status, COUNT(*) as count").
			Joins("JOIN columns ON columns.id = tasks.column_id").
			Where("columns.board_id = ?", boardID).
			Group("tasks.status").
			Scan(&rows).Error; err != nil {
			return err
		}
		for _, r := range rows {
			stats.ByStatus[models.TaskStatus(r.Status)] = r.Count
			stats.Total += r.Count
		}

		var ms struct {
			Total     int64
			Completed int64
		}
		if err := tx.Model(&models.Milestone{}).
			Select("COUNT(*) as total, COALESCE(SUM(CASE WHEN milestones.completed THEN 1 ELSE 0 END), 0) as completed").
			Joins("JOIN tasks ON tasks.id = milestones.task_id").
			Joins("JOIN columns ON columns.id = tasks.column_id").
			Where("columns.board_id = ?", boardID).
			Scan(&ms).Error; err != nil {
			return err
		}
		stats.Milestones = ms.Total
		stats.Completed = ms.Completed
		return nil
	})
	if err != nil {
		return nil, notFound(err, "board stats")
	}
	return stats, nil
}
