// Package workspace mediates between an authenticated caller and the board,
// column, task and milestone collections.
package workspace

import (
	"context"
	"errors"
	"fmt"

	"taskboard-api/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrInvalidReference is returned for a handle that was never created.
	ErrInvalidReference = errors.New("referenced item does not exist")
	// ErrInvalidSelection is returned when no handle was supplied at all.
	ErrInvalidSelection = errors.New("nothing selected")
)

// Service owns the board collection. It trusts nothing about the handles
// it receives: a zero ID is an empty selection and an unknown ID is an
// invalid reference.
type Service struct {
	db  *gorm.DB
	log *log.Entry
}

// NewService creates a new workspace Service.
func NewService(db *gorm.DB, logger *log.Logger) *Service {
	return &Service{
		db:  db,
		log: logger.WithField("component", "workspace"),
	}
}

// AddBoard appends a new board to the collection. Names need not be unique.
func (s *Service) AddBoard(ctx context.Context, owner, name string) (*models.Board, error) {
	board := models.Board{Name: name, CreatedBy: owner}
	if err := s.db.WithContext(ctx).Create(&board).Error; err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	s.log.WithFields(log.Fields{"board_id": board.ID, "owner": owner}).Info("board created")
	return &board, nil
}

// ListBoards returns every board in insertion order, without children.
func (s *Service) ListBoards(ctx context.Context) ([]models.Board, error) {
	var boards []models.Board
	if err := s.db.WithContext(ctx).Order("id asc").Find(&boards).Error; err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

// GetBoard returns a board with all of its columns, tasks and milestones.
func (s *Service) GetBoard(ctx context.Context, boardID uint) (*models.Board, error) {
	if boardID == 0 {
		return nil, ErrInvalidSelection
	}
	var board models.Board
	err := s.db.WithContext(ctx).
		Preload("Columns", orderByID).
		Preload("Columns.Tasks", orderByID).
		Preload("Columns.Tasks.Milestones", orderByID).
		First(&board, boardID).Error
	if err != nil {
		return nil, notFound(err, "get board")
	}
	return &board, nil
}

// AddColumn appends a new column to the board.
func (s *Service) AddColumn(ctx context.Context, boardID uint, name string) (*models.Column, error) {
	if boardID == 0 {
		return nil, ErrInvalidSelection
	}
	column := models.Column{BoardID: boardID, Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Board{}, boardID); err != nil {
			return err
		}
		return tx.Create(&column).Error
	})
	if err != nil {
		return nil, notFound(err, "create column")
	}
	s.log.WithFields(log.Fields{"board_id": boardID, "column_id": column.ID}).Info("column created")
	return &column, nil
}

// ListColumns returns the columns of a board in insertion order.
func (s *Service) ListColumns(ctx context.Context, boardID uint) ([]models.Column, error) {
	if boardID == 0 {
		return nil, ErrInvalidSelection
	}
	var columns []models.Column
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Board{}, boardID); err != nil {
			return err
		}
		return tx.Where("board_id = ?", boardID).Order("id asc").Find(&columns).Error
	})
	if err != nil {
		return nil, notFound(err, "list columns")
	}
	return columns, nil
}

// AddTask appends a new task with status TO_DO and no milestones.
func (s *Service) AddTask(ctx context.Context, columnID uint, title string) (*models.Task, error) {
	if columnID == 0 {
		return nil, ErrInvalidSelection
	}
	task := models.NewTask(title)
	task.ColumnID = columnID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Column{}, columnID); err != nil {
			return err
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, notFound(err, "create task")
	}
	s.log.WithFields(log.Fields{"column_id": columnID, "task_id": task.ID}).Info("task created")
	return &task, nil
}

// ListTasks returns the tasks of a column in insertion order, with their
// milestones loaded so progress can be derived.
func (s *Service) ListTasks(ctx context.Context, columnID uint) ([]models.Task, error) {
	if columnID == 0 {
		return nil, ErrInvalidSelection
	}
	var tasks []models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Column{}, columnID); err != nil {
			return err
		}
		return tx.Preload("Milestones", orderByID).
			Where("column_id = ?", columnID).
			Order("id asc").
			Find(&tasks).Error
	})
	if err != nil {
		return nil, notFound(err, "list tasks")
	}
	return tasks, nil
}

// GetTask returns a task with its milestones.
func (s *Service) GetTask(ctx context.Context, taskID uint) (*models.Task, error) {
	if taskID == 0 {
		return nil, ErrInvalidSelection
	}
	return s.loadTask(s.db.WithContext(ctx), taskID)
}

// SetTaskStatus overwrites the status of a task. Every transition is
// allowed, including DONE back to TO_DO.
func (s *Service) SetTaskStatus(ctx context.Context, taskID uint, status models.TaskStatus) (*models.Task, error) {
	if taskID == 0 {
		return nil, ErrInvalidSelection
	}
	var task *models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if task, err = s.loadTask(tx, taskID); err != nil {
			return err
		}
		// Explicitly update only the status column
		task.Status = status
		if err := tx.Model(task).Update("status", status).Error; err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(log.Fields{"task_id": taskID, "status": status}).Info("task status changed")
	return task, nil
}

// AddMilestone appends an open milestone to a task.
func (s *Service) AddMilestone(ctx context.Context, taskID uint, name string) (*models.Milestone, error) {
	if taskID == 0 {
		return nil, ErrInvalidSelection
	}
	milestone := models.Milestone{TaskID: taskID, Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Task{}, taskID); err != nil {
			return err
		}
		return tx.Create(&milestone).Error
	})
	if err != nil {
		return nil, notFound(err, "create milestone")
	}
	s.log.WithFields(log.Fields{"task_id": taskID, "milestone_id": milestone.ID}).Info("milestone created")
	return &milestone, nil
}

// SetMilestoneCompleted marks a milestone as completed or open again.
func (s *Service) SetMilestoneCompleted(ctx context.Context, milestoneID uint, completed bool) (*models.Milestone, error) {
	if milestoneID == 0 {
		return nil, ErrInvalidSelection
	}
	var milestone models.Milestone
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&milestone, milestoneID).Error; err != nil {
			return err
		}
		milestone.Completed = completed
		return tx.Model(&milestone).Update("completed", completed).Error
	})
	if err != nil {
		return nil, notFound(err, "update milestone")
	}
	return &milestone, nil
}

func (s *Service) loadTask(db *gorm.DB, taskID uint) (*models.Task, error) {
	var task models.Task
	if err := db.Preload("Milestones", orderByID).First(&task, taskID).Error; err != nil {
		return nil, notFound(err, "get task")
	}
	return &task, nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

// exists reports ErrInvalidReference when no row of model has the given ID.
func exists(tx *gorm.DB, model any, id uint) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrInvalidReference
	}
	return nil
}

// notFound translates a missing record into ErrInvalidReference and wraps
// every other store failure.
func notFound(err error, op string) error {
	switch {
	case errors.Is(err, ErrInvalidReference), errors.Is(err, gorm.ErrRecordNotFound):
		return ErrInvalidReference
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
