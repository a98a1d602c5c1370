package types

import (
	"time"

	"github.com/google/uuid"
)

// RemediationItem is one scheduled unit of work derived from one issue
// group. Items are immutable once scheduled; recomputing a plan replaces
// them wholesale.
type RemediationItem struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Severity           Severity  `json:"severity"`
	Category           Category  `json:"category"`
	Year               int       `json:"year"`
	Quarter            int       `json:"quarter"`
	PriorityRank       int       `json:"priority_rank"`
	PriorityScore      int       `json:"priority_score"`
	IsQuickWin         bool      `json:"is_quick_win"`
	EstimatedEffort    int       `json:"estimated_effort_hours"`
	ImpactScore        int       `json:"impact_score"`
	AffectedScopeCount int       `json:"affected_scope_count"`
	OccurrenceCount    int       `json:"occurrence_count"`
	PrimaryCriterion   string    `json:"primary_criterion,omitempty"`
	SecondaryCriterion string    `json:"secondary_criterion,omitempty"`
}

// QuarterPlan holds the items assigned to one quarter of a year.
type QuarterPlan struct {
	Quarter int               `json:"quarter"`
	Items   []RemediationItem `json:"items"`
}

// AnnualPlan holds a calendar year's quarter-bucketed items.
type AnnualPlan struct {
	Year     int           `json:"year"`
	Quarters []QuarterPlan `json:"quarters"`
}

// RemediationPlan is the campaign-level scheduling artifact: every item
// lies within [StartYear, StartYear+DurationYears]. Issue groups that
// could not be placed inside the window are reported in Unscheduled
// rather than silently discarded.
type RemediationPlan struct {
	CampaignID    uuid.UUID         `json:"campaign_id"`
	DurationYears int               `json:"duration_years"`
	StartYear     int               `json:"start_year"`
	StartQuarter  int               `json:"start_quarter"`
	CurrentRate   *float64          `json:"current_rate,omitempty"`
	TargetRate    float64           `json:"target_rate"`
	Items         []RemediationItem `json:"items"`
	Annual        []AnnualPlan      `json:"annual"`
	Unscheduled   []RemediationItem `json:"unscheduled,omitempty"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// TotalItems returns the number of scheduled items in the plan.
func (p *RemediationPlan) TotalItems() int {
	return len(p.Items)
}
