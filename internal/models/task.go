package models

import "time"

// TaskStatus represents the status of a task
type TaskStatus string

const (
	StatusToDo       TaskStatus = "TO_DO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Statuses lists every status in display order.
var Statuses = []TaskStatus{StatusToDo, StatusInProgress, StatusDone}

// ParseTaskStatus converts a wire value into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Task represents a unit of work inside a column.
// Any status may move to any other status.
type Task struct {
	ID         uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	ColumnID   uint        `json:"columnId" gorm:"column:column_id;not null;index"`
	Title      string      `json:"title"`
	Status     TaskStatus  `json:"status" gorm:"not null;default:'TO_DO'"`
	Milestones []Milestone `json:"milestones" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// NewTask returns a task with the default status and no milestones.
func NewTask(title string) Task {
	return Task{Title: title, Status: StatusToDo, Milestones: []Milestone{}}
}

// Progress returns the completion percentage, truncated to an integer.
// Without milestones a task is either 0 or 100 depending on DONE.
func (t *Task) Progress() int {
	if len(t.Milestones) == 0 {
		if t.Status == StatusDone {
			return 100
		}
		return 0
	}
	completed := 0
	for _, m := range t.Milestones {
		if m.Completed {
			completed++
		}
	}
	return completed * 100 / len(t.Milestones)
}

// Milestone is a named checkpoint of a task.
type Milestone struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	TaskID    uint      `json:"taskId" gorm:"column:task_id;not null;index"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for Milestone Model
func (Milestone) TableName() string {
	return "milestones"
}

// All returns every model in migration order.
func All() []any {
	return []any{&User{}, &Board{}, &Column{}, &Task{}, &Milestone{}}
}
