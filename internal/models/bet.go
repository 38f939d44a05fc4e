package models

import (
	"time"

	"github.com/google/uuid"
)

// Bet is a single wager. Its only state transition is pending -> settled,
// taken exactly once: the settle update carries "is_settled = false" in
// its WHERE clause, so concurrent resolvers race harmlessly.
type Bet struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	Variant       string     `gorm:"size:50;not null;index" json:"variant"`
	Prediction    string     `gorm:"size:50;not null" json:"prediction"`
	Amount        int64      `gorm:"not null" json:"amount"`
	SnapshotCount *int64     `json:"snapshot_count,omitempty"` // counter reading at placement (counter variants only)
	ExpiresAt     time.Time  `gorm:"not null;index" json:"expires_at"`
	IsSettled     bool       `gorm:"not null;default:false;index" json:"is_settled"`
	Won           *bool      `json:"won,omitempty"`    // nil while pending, and nil on push
	Payout        *int64     `json:"payout,omitempty"` // nil while pending
	ResolvedCount *int64     `json:"resolved_count,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	SettledAt     *time.Time `json:"settled_at,omitempty"`
}

// TableName specifies the table name for Bet model
func (Bet) TableName() string {
	return "bets"
}

// PlaceBetRequest represents a request to place a wager
type PlaceBetRequest struct {
	Variant    string `json:"variant" binding:"required"`
	Prediction string `json:"prediction" binding:"required"`
	Amount     int64  `json:"amount" binding:"required"`
}

// PlaceBetResponse returns the id of the freshly placed bet
type PlaceBetResponse struct {
	BetID   string `json:"betId"`
	Balance int64  `json:"balance"`
}

// ResolveTickResponse reports the outcome of one resolver pass
type ResolveTickResponse struct {
	Success        bool  `json:"success"`
	Resolved       int   `json:"resolved"`
	CurrentReading int64 `json:"currentDeathCount"`
}
