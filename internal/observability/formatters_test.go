package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/a11y-audit/internal/conformity"
	"github.com/jonathan/a11y-audit/internal/types"
)

func TestPrintFeatureSignals(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFeatureSignals(&types.FeatureSignals{HasImages: true, HasForms: true})
	output := buf.String()

	assert.Contains(t, output, "PAGE FEATURES")
	assert.Contains(t, output, "Images:      yes")
	assert.Contains(t, output, "Tables:     no")
}

func TestPrintFeatureSignals_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFeatureSignals(nil)

	assert.Empty(t, buf.String())
}

func TestPrintGroups(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	groups := []*types.IssueGroup{
		{
			ErrorType:          "Missing alt attribute",
			Severity:           types.SeverityCritical,
			PriorityScore:      90,
			PrimaryCriterion:   "1.1",
			SecondaryCriterion: "1.1.1",
			Occurrences:        make([]types.Issue, 12),
		},
		{
			ErrorType:     "Low contrast text",
			Severity:      types.SeverityMajor,
			PriorityScore: 55,
			Occurrences:   make([]types.Issue, 1),
		},
	}

	p.PrintGroups(groups)
	output := buf.String()

	assert.Contains(t, output, "ISSUE GROUPS")
	assert.Contains(t, output, "Missing alt attribute")
	assert.Contains(t, output, "Score: 90")
	assert.Contains(t, output, "Criterion: 1.1 (WCAG 1.1.1)")
	assert.Contains(t, output, "Low contrast text")
}

func TestPrintGroups_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintGroups(nil)

	assert.Empty(t, buf.String())
}

func TestPrintConformity(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rate := 72.5
	p.PrintConformity(&conformity.Result{
		Rate:            &rate,
		ApplicableCount: 40,
		ConformingCount: 29,
		NonConforming:   []string{"1.1", "3.2"},
		NotApplicable:   []string{"5.1"},
	})
	output := buf.String()

	assert.Contains(t, output, "CONFORMITY")
	assert.Contains(t, output, "72.50%")
	assert.Contains(t, output, "Applicable:      40")
	assert.Contains(t, output, "Non-conforming:  2")
}

func TestPrintConformity_NilRate(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintConformity(&conformity.Result{})
	output := buf.String()

	assert.Contains(t, output, "n/a (no applicable criteria)")
}

func TestPrintPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rate := 61.0
	plan := &types.RemediationPlan{
		DurationYears: 2,
		StartYear:     2025,
		StartQuarter:  1,
		CurrentRate:   &rate,
		TargetRate:    85,
		Items:         make([]types.RemediationItem, 3),
		Annual: []types.AnnualPlan{
			{
				Year: 2025,
				Quarters: []types.QuarterPlan{
					{Quarter: 1, Items: []types.RemediationItem{{IsQuickWin: true}, {}}},
					{Quarter: 2, Items: []types.RemediationItem{{}}},
				},
			},
		},
	}

	p.PrintPlan(plan)
	output := buf.String()

	assert.Contains(t, output, "REMEDIATION PLAN")
	assert.Contains(t, output, "Q1 2025, 2 year(s)")
	assert.Contains(t, output, "61.00% -> target 85.00%")
	assert.Contains(t, output, "Q1: 2 item(s) (1 quick win(s))")
}

func TestPrintCacheStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCacheStats(7, 3)
	output := buf.String()

	assert.Contains(t, output, "ENRICHMENT CACHE")
	assert.Contains(t, output, "Hits:   7")
	assert.Contains(t, output, "Misses: 3")
}
