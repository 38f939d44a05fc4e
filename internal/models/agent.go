package models

import (
	"time"

	"github.com/google/uuid"
)

// Agent is a programmatic bettor registered through the public API.
// The raw API key is returned once at registration; only its sha256 hash
// and a display prefix are stored.
type Agent struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	APIKeyHash   string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	APIKeyPrefix string     `gorm:"size:32;not null" json:"api_key_prefix"`
	ClaimCode    string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	OwnerID      *uint      `gorm:"index" json:"owner_id,omitempty"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	ClaimedAt    *time.Time `json:"claimed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName specifies the table name for Agent model
func (Agent) TableName() string {
	return "agents"
}

// RegisterAgentRequest represents an agent registration request
type RegisterAgentRequest struct {
	Name string `json:"name" binding:"required"`
}

// ClaimAgentRequest links a registered agent to the calling user
type ClaimAgentRequest struct {
	ClaimCode string `json:"claimCode" binding:"required"`
}
