// Package scheduling distributes a campaign's issue backlog across a
// bounded multi-year remediation timeline.
package scheduling

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/a11y-audit/internal/scoring"
	"github.com/jonathan/a11y-audit/internal/types"
)

// Scheduling bounds.
const (
	MinDurationYears = 1
	MaxDurationYears = 5

	minItemsPerQuarter = 2
	maxItemsPerQuarter = 8

	// quick wins are critical, cheap to fix and rare
	quickWinMaxOccurrences = 5
)

// Options configures one plan computation. Now anchors the schedule to the
// current year and quarter so recomputation with the same reference is
// fully deterministic.
type Options struct {
	CampaignID    uuid.UUID
	DurationYears int
	Now           time.Time
	CurrentRate   *float64
	TargetRate    float64
}

// QuarterOf returns the calendar quarter (1-4) of a time.
func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// isQuickWin reports whether a group qualifies for the quick-win fast
// lane: critical severity, low fix complexity and at most 5 occurrences.
func isQuickWin(group *types.IssueGroup) bool {
	return group.Severity == types.SeverityCritical &&
		group.Complexity == types.ComplexityLow &&
		group.OccurrenceCount() <= quickWinMaxOccurrences
}

// BuildPlan consumes all issue groups of a campaign and emits a
// quarter-bucketed multi-year remediation plan. Quick wins are scheduled
// strictly before regular items; within each partition items keep
// descending priority order. Groups that would land beyond the plan window
// are reported in Unscheduled rather than dropped.
func BuildPlan(groups []*types.IssueGroup, opts Options) (*types.RemediationPlan, error) {
	if opts.DurationYears < MinDurationYears || opts.DurationYears > MaxDurationYears {
		return nil, fmt.Errorf("duration must be between %d and %d years, got %d",
			MinDurationYears, MaxDurationYears, opts.DurationYears)
	}

	startYear := opts.Now.Year()
	startQuarter := QuarterOf(opts.Now)
	plan := &types.RemediationPlan{
		CampaignID:    opts.CampaignID,
		DurationYears: opts.DurationYears,
		StartYear:     startYear,
		StartQuarter:  startQuarter,
		CurrentRate:   opts.CurrentRate,
		TargetRate:    opts.TargetRate,
		GeneratedAt:   opts.Now.UTC(),
	}

	// An empty campaign yields an empty plan, not an error.
	if len(groups) == 0 {
		plan.Annual = annualPlans(nil, startYear, startYear+opts.DurationYears)
		return plan, nil
	}

	ordered := orderGroups(groups)

	totalQuarters := (opts.DurationYears + 1) * 4
	itemsPerQuarter := int(math.Ceil(float64(len(ordered)) / float64(totalQuarters)))
	if itemsPerQuarter < minItemsPerQuarter {
		itemsPerQuarter = minItemsPerQuarter
	}
	if itemsPerQuarter > maxItemsPerQuarter {
		itemsPerQuarter = maxItemsPerQuarter
	}

	endYear := startYear + opts.DurationYears
	year, quarter := startYear, startQuarter
	placed := 0

	for rank, group := range ordered {
		item := buildItem(group, rank+1)

		if year > endYear {
			plan.Unscheduled = append(plan.Unscheduled, item)
			continue
		}

		item.Year = year
		item.Quarter = quarter
		plan.Items = append(plan.Items, item)

		placed++
		if placed == itemsPerQuarter {
			placed = 0
			quarter++
			if quarter > 4 {
				quarter = 1
				year++
			}
		}
	}

	plan.Annual = annualPlans(plan.Items, startYear, endYear)
	return plan, nil
}

// orderGroups scores every group, then returns quick wins first and
// regular items second, each partition stable-sorted by descending
// priority score.
func orderGroups(groups []*types.IssueGroup) []*types.IssueGroup {
	var quickWins, regular []*types.IssueGroup
	for _, group := range groups {
		group.PriorityScore = scoring.Priority(group)
		if group.Complexity == "" {
			group.Complexity = scoring.ComplexityOf(group.ErrorType, group.Recommendation)
		}
		if isQuickWin(group) {
			quickWins = append(quickWins, group)
		} else {
			regular = append(regular, group)
		}
	}

	byPriority := func(list []*types.IssueGroup) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].PriorityScore > list[j].PriorityScore
		})
	}
	byPriority(quickWins)
	byPriority(regular)

	return append(quickWins, regular...)
}

func buildItem(group *types.IssueGroup, rank int) types.RemediationItem {
	occurrences := group.OccurrenceCount()
	scopes := group.AffectedScopeCount()
	return types.RemediationItem{
		ID:                 uuid.New(),
		Title:              group.ErrorType,
		Severity:           group.Severity,
		Category:           scoring.CategoryOf(group),
		PriorityRank:       rank,
		PriorityScore:      group.PriorityScore,
		IsQuickWin:         isQuickWin(group),
		EstimatedEffort:    EstimateEffort(group.Severity, group.Complexity, occurrences, scopes),
		ImpactScore:        ImpactScore(group.Severity, scopes),
		AffectedScopeCount: scopes,
		OccurrenceCount:    occurrences,
		PrimaryCriterion:   group.PrimaryCriterion,
		SecondaryCriterion: group.SecondaryCriterion,
	}
}

// annualPlans buckets scheduled items into one AnnualPlan per calendar
// year of the plan range, each with its four quarters.
func annualPlans(items []types.RemediationItem, startYear, endYear int) []types.AnnualPlan {
	annual := make([]types.AnnualPlan, 0, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		ap := types.AnnualPlan{Year: year}
		for quarter := 1; quarter <= 4; quarter++ {
			qp := types.QuarterPlan{Quarter: quarter}
			for _, item := range items {
				if item.Year == year && item.Quarter == quarter {
					qp.Items = append(qp.Items, item)
				}
			}
			ap.Quarters = append(ap.Quarters, qp)
		}
		annual = append(annual, ap)
	}
	return annual
}
