package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ScanRequest describes one page audit to run.
type ScanRequest struct {
	URL        string    `json:"url" validate:"required,url"`
	CampaignID uuid.UUID `json:"campaign_id,omitempty"`
	UseBrowser bool      `json:"use_browser,omitempty"`
}

// Validate validates the ScanRequest using the validator.
func (r *ScanRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// PlanRequest describes a campaign-level remediation plan computation.
type PlanRequest struct {
	CampaignID    uuid.UUID `json:"campaign_id" validate:"required"`
	DurationYears int       `json:"duration_years" validate:"required,min=1,max=5"`
	TargetRate    float64   `json:"target_rate,omitempty" validate:"omitempty,min=0,max=100"`
}

// Validate validates the PlanRequest using the validator.
func (r *PlanRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
