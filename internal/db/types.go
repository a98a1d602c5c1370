package db

import (
	"time"

	"github.com/google/uuid"
)

// Campaign represents a multi-page audit campaign record
type Campaign struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Domain        string     `json:"domain"`
	DurationYears int        `json:"duration_years"`
	TargetRate    float64    `json:"target_rate"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Campaign status constants
const (
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
	CampaignStatusAbandoned = "abandoned"
)
