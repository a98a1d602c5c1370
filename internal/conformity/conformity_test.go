package conformity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/a11y-audit/internal/taxonomy"
	"github.com/jonathan/a11y-audit/internal/types"
)

func loadRef(t *testing.T) *taxonomy.Reference {
	t.Helper()
	ref, err := taxonomy.LoadDefault()
	require.NoError(t, err)
	return ref
}

func TestCompute_CleanScan(t *testing.T) {
	ref := loadRef(t)
	result := Compute(nil, nil, ref)

	require.NotNil(t, result.Rate)
	assert.Equal(t, 100.0, *result.Rate)
	assert.Equal(t, len(ref.AutoTestableCriteria()), result.ApplicableCount)
	assert.Equal(t, result.ApplicableCount, result.ConformingCount)
	assert.Empty(t, result.NonConforming)
}

func TestCompute_FailingCriterion(t *testing.T) {
	ref := loadRef(t)
	groups := []*types.IssueGroup{
		{PrimaryCriterion: "1.1", Severity: types.SeverityCritical},
		{PrimaryCriterion: "1.1", Severity: types.SeverityMajor}, // same criterion counted once
		{PrimaryCriterion: "11.1", Severity: types.SeverityMajor},
	}

	result := Compute(groups, nil, ref)
	require.NotNil(t, result.Rate)
	assert.Equal(t, []string{"1.1", "11.1"}, result.NonConforming)
	assert.Equal(t, result.ApplicableCount-2, result.ConformingCount)

	expected := float64(result.ConformingCount) / float64(result.ApplicableCount) * 100
	assert.InDelta(t, expected, *result.Rate, 0.01)
}

func TestCompute_NotApplicableExcluded(t *testing.T) {
	ref := loadRef(t)

	// A form issue on a page with no forms: criterion 11.1 is N/A, so it
	// neither fails nor counts as applicable.
	groups := []*types.IssueGroup{{PrimaryCriterion: "11.1"}}
	notApplicable := []string{"11.1", "11.5", "11.6", "11.8", "11.9", "11.13"}

	withNA := Compute(groups, notApplicable, ref)
	without := Compute(nil, nil, ref)
	assert.Equal(t, without.ApplicableCount-6, withNA.ApplicableCount)
	assert.Empty(t, withNA.NonConforming)
	require.NotNil(t, withNA.Rate)
	assert.Equal(t, 100.0, *withNA.Rate)
}

func TestCompute_UncategorizedGroupsDoNotFailCriteria(t *testing.T) {
	ref := loadRef(t)
	groups := []*types.IssueGroup{{PrimaryCriterion: ""}, {PrimaryCriterion: ""}}

	result := Compute(groups, nil, ref)
	assert.Equal(t, 2, result.UncategorizedIss)
	assert.Empty(t, result.NonConforming)
	require.NotNil(t, result.Rate)
	assert.Equal(t, 100.0, *result.Rate)
}

func TestCompute_ZeroApplicableIsUndefined(t *testing.T) {
	ref := loadRef(t)

	// Mark every auto-testable criterion not applicable.
	var all []string
	for _, c := range ref.AutoTestableCriteria() {
		all = append(all, c.Number)
	}

	result := Compute(nil, all, ref)
	assert.Nil(t, result.Rate)
	assert.Equal(t, 0, result.ApplicableCount)
}

func TestCompute_RateRounding(t *testing.T) {
	ref := loadRef(t)
	groups := []*types.IssueGroup{{PrimaryCriterion: "1.1"}}

	result := Compute(groups, nil, ref)
	require.NotNil(t, result.Rate)
	// Two decimal places at most.
	assert.Equal(t, *result.Rate, float64(int(*result.Rate*100+0.5))/100)
}
