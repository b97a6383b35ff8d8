package models

import "time"

// Role is the access classification of a user. It is informational only.
type Role string

const (
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleManager, RoleEmployee:
		return r, true
	}
	return "", false
}

// User represents a registered account.
// Password is kept in plaintext; it is never serialized.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      Role      `json:"role" gorm:"not null;default:'EMPLOYEE'"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
