package models

import (
	"time"
)

// User represents an authenticated player account. Guests never reach
// this table; their state lives entirely in the client-local mirror.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Nickname    string    `gorm:"uniqueIndex;not null" json:"nickname"`
	Balance     int64     `gorm:"not null;default:0" json:"balance"`
	TotalWins   int64     `gorm:"default:0" json:"total_wins"`
	TotalLosses int64     `gorm:"default:0" json:"total_losses"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
