package models

import (
	"time"
)

// DailyStat is the ground-truth counter record for one calendar day.
// Only today's row mutates; once IsFinal is set the reading never changes.
type DailyStat struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Date       string    `gorm:"size:10;uniqueIndex;not null" json:"date"`
	DeathCount int64     `gorm:"not null" json:"death_count"`
	IsFinal    bool      `gorm:"not null;default:false" json:"is_final"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for DailyStat model
func (DailyStat) TableName() string {
	return "daily_stats"
}

// DailyStatResponse is the read-only projection of today's counter
type DailyStatResponse struct {
	Success    bool   `json:"success"`
	Date       string `json:"date"`
	DeathCount int64  `json:"deathCount"`
}
