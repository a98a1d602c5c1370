package types

import (
	"time"

	"github.com/google/uuid"
)

// ScanStatus tracks the lifecycle of a single audited page.
type ScanStatus string

const (
	ScanStatusPending   ScanStatus = "pending"
	ScanStatusRunning   ScanStatus = "running"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// Scan is one audited page. A scan that fails keeps any issues persisted
// before the failure point but is excluded from conformity and scheduling
// input until rerun.
type Scan struct {
	ID                    uuid.UUID  `json:"id"`
	CampaignID            uuid.UUID  `json:"campaign_id"`
	URL                   string     `json:"url"`
	Status                ScanStatus `json:"status"`
	Issues                []Issue    `json:"issues,omitempty"`
	ConformityRate        *float64   `json:"conformity_rate,omitempty"`
	CriticalCount         int        `json:"critical_count"`
	MajorCount            int        `json:"major_count"`
	MinorCount            int        `json:"minor_count"`
	NonApplicableCriteria []string   `json:"non_applicable_criteria,omitempty"`
	ErrorMessage          string     `json:"error_message,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
}

// CountBySeverity tallies the severity counters from the scan's issues.
func (s *Scan) CountBySeverity() {
	s.CriticalCount, s.MajorCount, s.MinorCount = 0, 0, 0
	for _, issue := range s.Issues {
		switch issue.Severity {
		case SeverityCritical:
			s.CriticalCount++
		case SeverityMajor:
			s.MajorCount++
		case SeverityMinor:
			s.MinorCount++
		}
	}
}

// FeatureSignals is the boolean feature vector derived from a cheap
// structural scan of the page markup. Each false signal marks a set of
// criteria as structurally not applicable.
type FeatureSignals struct {
	HasImages         bool `json:"has_images"`
	HasTables         bool `json:"has_tables"`
	HasForms          bool `json:"has_forms"`
	HasVideos         bool `json:"has_videos"`
	HasAudio          bool `json:"has_audio"`
	HasIframes        bool `json:"has_iframes"`
	HasAnimations     bool `json:"has_animations"`
	HasAutoplayAudio  bool `json:"has_autoplay_audio"`
	HasTimeLimit      bool `json:"has_time_limit"`
	HasNewWindowLinks bool `json:"has_new_window_links"`
}
