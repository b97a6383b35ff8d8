package models

import "time"

// Board is the top-level container of columns. Columns are ordered by ID,
// which follows insertion order.
type Board struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy" gorm:"column:created_by;index"`
	Columns   []Column  `json:"columns,omitempty" gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for Board Model
func (Board) TableName() string {
	return "boards"
}

// Column is a named workflow stage inside a board.
type Column struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	BoardID   uint      `json:"boardId" gorm:"column:board_id;not null;index"`
	Name      string    `json:"name"`
	Tasks     []Task    `json:"tasks,omitempty" gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for Column Model
func (Column) TableName() string {
	return "columns"
}
