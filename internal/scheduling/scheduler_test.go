package scheduling

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/a11y-audit/internal/types"
)

func mkGroup(errorType string, severity types.Severity, complexity types.Complexity, occurrences, scopes int) *types.IssueGroup {
	g := &types.IssueGroup{
		ErrorType:  errorType,
		Source:     types.SourceScanner,
		Severity:   severity,
		Complexity: complexity,
	}
	for i := 0; i < occurrences; i++ {
		g.Occurrences = append(g.Occurrences, types.Issue{Severity: severity})
	}
	for i := 0; i < scopes; i++ {
		g.AffectedScopes = append(g.AffectedScopes, fmt.Sprintf("https://example.com/p%d", i))
	}
	return g
}

func q1_2025() time.Time {
	return time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
}

func TestQuarterOf(t *testing.T) {
	assert.Equal(t, 1, QuarterOf(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, QuarterOf(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, QuarterOf(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 4, QuarterOf(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestBuildPlan_FortyRegularItemsOverTwoYears(t *testing.T) {
	// 40 equally-ranked regular issues, 2-year duration from Q1 2025:
	// totalQuarters=12, itemsPerQuarter=4, filled in order, no year
	// beyond 2027 and nothing unscheduled.
	var groups []*types.IssueGroup
	for i := 0; i < 40; i++ {
		groups = append(groups, mkGroup(fmt.Sprintf("Issue %d", i), types.SeverityMajor, types.ComplexityMedium, 1, 1))
	}

	plan, err := BuildPlan(groups, Options{
		CampaignID:    uuid.New(),
		DurationYears: 2,
		Now:           q1_2025(),
	})
	require.NoError(t, err)

	assert.Len(t, plan.Items, 40)
	assert.Empty(t, plan.Unscheduled)
	assert.Equal(t, 2025, plan.StartYear)
	assert.Equal(t, 1, plan.StartQuarter)

	perQuarter := make(map[string]int)
	for _, item := range plan.Items {
		assert.LessOrEqual(t, item.Year, 2027)
		assert.GreaterOrEqual(t, item.Year, 2025)
		assert.GreaterOrEqual(t, item.Quarter, 1)
		assert.LessOrEqual(t, item.Quarter, 4)
		perQuarter[fmt.Sprintf("%d-Q%d", item.Year, item.Quarter)]++
	}
	assert.Equal(t, 4, perQuarter["2025-Q1"])
	assert.Equal(t, 4, perQuarter["2025-Q4"])
	assert.Equal(t, 4, perQuarter["2027-Q2"])
	for key, count := range perQuarter {
		assert.LessOrEqual(t, count, 4, "quarter %s", key)
	}
}

func TestBuildPlan_QuickWinsScheduledFirst(t *testing.T) {
	quickWin := mkGroup("Missing alt", types.SeverityCritical, types.ComplexityLow, 3, 1)
	// Higher-priority regular item; must still come after the quick win.
	heavy := mkGroup("Broken keyboard navigation", types.SeverityCritical, types.ComplexityHigh, 50, 10)
	heavy.ImpactDescription = "navigation is impossible for keyboard users"

	plan, err := BuildPlan([]*types.IssueGroup{heavy, quickWin}, Options{
		DurationYears: 1,
		Now:           q1_2025(),
	})
	require.NoError(t, err)
	require.Len(t, plan.Items, 2)

	assert.Equal(t, "Missing alt", plan.Items[0].Title)
	assert.True(t, plan.Items[0].IsQuickWin)
	assert.Equal(t, 1, plan.Items[0].PriorityRank)
	assert.False(t, plan.Items[1].IsQuickWin)
	assert.Greater(t, plan.Items[1].PriorityScore, plan.Items[0].PriorityScore)
}

func TestBuildPlan_ManyOccurrencesIsNotAQuickWin(t *testing.T) {
	// Critical + low complexity but 12 occurrences: disqualified.
	group := mkGroup("Missing alt", types.SeverityCritical, types.ComplexityLow, 12, 3)
	group.SecondaryCriterion = "1.1.1"

	plan, err := BuildPlan([]*types.IssueGroup{group}, Options{
		DurationYears: 1,
		Now:           q1_2025(),
	})
	require.NoError(t, err)
	require.Len(t, plan.Items, 1)
	assert.False(t, plan.Items[0].IsQuickWin)
	assert.Equal(t, 90, plan.Items[0].PriorityScore)
}

func TestBuildPlan_RegularItemsOrderedByPriority(t *testing.T) {
	low := mkGroup("Low contrast", types.SeverityMinor, types.ComplexityMedium, 1, 1)
	high := mkGroup("Empty link", types.SeverityCritical, types.ComplexityMedium, 8, 4)

	plan, err := BuildPlan([]*types.IssueGroup{low, high}, Options{
		DurationYears: 1,
		Now:           q1_2025(),
	})
	require.NoError(t, err)
	require.Len(t, plan.Items, 2)
	assert.Equal(t, "Empty link", plan.Items[0].Title)
	assert.Equal(t, "Low contrast", plan.Items[1].Title)
}

func TestBuildPlan_OverflowGoesToUnscheduled(t *testing.T) {
	// 100 items, 1-year duration from Q1 2025: 8 quarters at the capped 8
	// items per quarter holds 64; the remaining 36 must be flagged, not
	// silently dropped.
	var groups []*types.IssueGroup
	for i := 0; i < 100; i++ {
		groups = append(groups, mkGroup(fmt.Sprintf("Issue %d", i), types.SeverityMajor, types.ComplexityMedium, 1, 1))
	}

	plan, err := BuildPlan(groups, Options{DurationYears: 1, Now: q1_2025()})
	require.NoError(t, err)
	assert.Len(t, plan.Items, 64)
	assert.Len(t, plan.Unscheduled, 36)

	for _, item := range plan.Items {
		assert.LessOrEqual(t, item.Year, 2026)
	}
}

func TestBuildPlan_MidYearStartRollsYear(t *testing.T) {
	var groups []*types.IssueGroup
	for i := 0; i < 6; i++ {
		groups = append(groups, mkGroup(fmt.Sprintf("Issue %d", i), types.SeverityMinor, types.ComplexityMedium, 1, 1))
	}

	// Q4 2025 start with 2 per quarter: Q4 2025, Q1 2026, Q2 2026.
	plan, err := BuildPlan(groups, Options{
		DurationYears: 1,
		Now:           time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, plan.Items, 6)
	assert.Equal(t, 2025, plan.Items[0].Year)
	assert.Equal(t, 4, plan.Items[0].Quarter)
	assert.Equal(t, 2026, plan.Items[2].Year)
	assert.Equal(t, 1, plan.Items[2].Quarter)
	assert.Equal(t, 2026, plan.Items[4].Year)
	assert.Equal(t, 2, plan.Items[4].Quarter)
}

func TestBuildPlan_EmptyCampaign(t *testing.T) {
	plan, err := BuildPlan(nil, Options{DurationYears: 3, Now: q1_2025()})
	require.NoError(t, err)
	assert.Empty(t, plan.Items)
	assert.Empty(t, plan.Unscheduled)
	assert.Len(t, plan.Annual, 4) // 2025 through 2028
}

func TestBuildPlan_InvalidDuration(t *testing.T) {
	_, err := BuildPlan(nil, Options{DurationYears: 0, Now: q1_2025()})
	assert.Error(t, err)

	_, err = BuildPlan(nil, Options{DurationYears: 6, Now: q1_2025()})
	assert.Error(t, err)
}

func TestBuildPlan_AnnualBucketsMatchItems(t *testing.T) {
	var groups []*types.IssueGroup
	for i := 0; i < 10; i++ {
		groups = append(groups, mkGroup(fmt.Sprintf("Issue %d", i), types.SeverityMajor, types.ComplexityMedium, 2, 1))
	}

	plan, err := BuildPlan(groups, Options{DurationYears: 2, Now: q1_2025()})
	require.NoError(t, err)

	bucketed := 0
	for _, annual := range plan.Annual {
		require.Len(t, annual.Quarters, 4)
		for _, quarter := range annual.Quarters {
			for _, item := range quarter.Items {
				assert.Equal(t, annual.Year, item.Year)
				assert.Equal(t, quarter.Quarter, item.Quarter)
				bucketed++
			}
		}
	}
	assert.Equal(t, len(plan.Items), bucketed)
}

func TestBuildPlan_DeterministicSchedule(t *testing.T) {
	build := func() *types.RemediationPlan {
		groups := []*types.IssueGroup{
			mkGroup("Missing alt", types.SeverityCritical, types.ComplexityLow, 3, 2),
			mkGroup("Low contrast", types.SeverityMajor, types.ComplexityMedium, 7, 4),
			mkGroup("Empty table header", types.SeverityMinor, types.ComplexityHigh, 1, 1),
		}
		plan, err := BuildPlan(groups, Options{DurationYears: 2, Now: q1_2025()})
		require.NoError(t, err)
		return plan
	}

	a, b := build(), build()
	require.Equal(t, len(a.Items), len(b.Items))
	for i := range a.Items {
		assert.Equal(t, a.Items[i].Title, b.Items[i].Title)
		assert.Equal(t, a.Items[i].Year, b.Items[i].Year)
		assert.Equal(t, a.Items[i].Quarter, b.Items[i].Quarter)
		assert.Equal(t, a.Items[i].PriorityRank, b.Items[i].PriorityRank)
		assert.Equal(t, a.Items[i].EstimatedEffort, b.Items[i].EstimatedEffort)
	}
}

func TestEstimateEffort_Bounds(t *testing.T) {
	severities := []types.Severity{types.SeverityCritical, types.SeverityMajor, types.SeverityMinor, ""}
	complexities := []types.Complexity{types.ComplexityLow, types.ComplexityMedium, types.ComplexityHigh, ""}
	for _, sev := range severities {
		for _, cpx := range complexities {
			for _, occ := range []int{0, 1, 5, 6, 10, 11, 500} {
				for _, scopes := range []int{0, 1, 5, 6, 50, 1000} {
					hours := EstimateEffort(sev, cpx, occ, scopes)
					assert.GreaterOrEqual(t, hours, 1)
					assert.LessOrEqual(t, hours, 40)
				}
			}
		}
	}
}

func TestEstimateEffort_Surcharges(t *testing.T) {
	// critical base 8, low complexity, 1 scope (+15%), 1 occurrence
	// (+10%): 8 * 1.25 = 10.
	assert.Equal(t, 10, EstimateEffort(types.SeverityCritical, types.ComplexityLow, 1, 1))

	// major base 4, high complexity (+100%), 6 scopes (5*15%+5%=80%),
	// 8 occurrences (+30%): 4 * 3.1 = 12.4 -> 12.
	assert.Equal(t, 12, EstimateEffort(types.SeverityMajor, types.ComplexityHigh, 8, 6))

	// minor base 2, medium (+50%), no scopes, 12 occurrences (+20%):
	// 2 * 1.7 = 3.4 -> 3.
	assert.Equal(t, 3, EstimateEffort(types.SeverityMinor, types.ComplexityMedium, 12, 0))
}

func TestImpactScore(t *testing.T) {
	assert.Equal(t, 86, ImpactScore(types.SeverityCritical, 3))
	assert.Equal(t, 100, ImpactScore(types.SeverityCritical, 10))
	assert.Equal(t, 100, ImpactScore(types.SeverityCritical, 500))
	assert.Equal(t, 50, ImpactScore(types.SeverityMajor, 0))
	assert.Equal(t, 30, ImpactScore(types.SeverityMinor, 0))
	assert.Equal(t, 50, ImpactScore(types.SeverityMinor, 10))
}
