package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/a11y-audit/internal/enrichment"
	"github.com/jonathan/a11y-audit/internal/normalize"
	"github.com/jonathan/a11y-audit/internal/types"
)

type fakeGateway struct {
	calls int
}

func (g *fakeGateway) Advise(_ context.Context, req enrichment.Request) (*enrichment.Guidance, error) {
	g.calls++
	return &enrichment.Guidance{
		Fingerprint:    req.Fingerprint,
		Recommendation: "Add a text alternative to the element.",
		StandardRefs:   []string{"1.1.1", "wcag:1.1.1"},
	}, nil
}

func (g *fakeGateway) Close() error { return nil }

func pageWithImages(n int) string {
	var b strings.Builder
	b.WriteString("<html><body><main>")
	for i := 0; i < n; i++ {
		b.WriteString(`<img src="logo.png"><p>text</p>`)
	}
	b.WriteString("</main></body></html>")
	return b.String()
}

func sampleResults() []normalize.CheckResult {
	findings := make([]normalize.RawFinding, 0, 12)
	for i := 0; i < 12; i++ {
		findings = append(findings, normalize.RawFinding{
			Severity: "critical",
			Message:  "Image element missing alt attribute",
			Selector: "img:nth-child(1)",
		})
	}
	return []normalize.CheckResult{
		{Name: "Axe-core image checks", Findings: findings},
		{Name: "Wave contrast", Findings: []normalize.RawFinding{
			{Severity: "moderate", Message: "Low contrast text"},
		}},
	}
}

func TestRunScan_EndToEnd(t *testing.T) {
	gw := &fakeGateway{}
	var events []ProgressEvent

	outcome, err := RunScan(context.Background(), ScanOptions{
		CampaignID: uuid.New(),
		URL:        "https://example.org/",
		HTML:       pageWithImages(20),
		Results:    sampleResults(),
		Gateway:    gw,
		OnProgress: func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)
	require.NotNil(t, outcome)

	scan := outcome.Scan
	assert.Equal(t, types.ScanStatusCompleted, scan.Status)
	assert.Len(t, scan.Issues, 13)
	assert.Equal(t, 12, scan.CriticalCount)
	assert.Equal(t, 1, scan.MajorCount)

	// 12 identical criticals and 1 moderate collapse to two groups
	require.Len(t, outcome.Groups, 2)
	assert.Equal(t, 12, outcome.Groups[0].OccurrenceCount())
	assert.True(t, outcome.Groups[0].Enriched)
	assert.Equal(t, 90, outcome.Groups[0].PriorityScore)

	// page has images but no forms, tables or media
	require.NotNil(t, outcome.Signals)
	assert.True(t, outcome.Signals.HasImages)
	assert.False(t, outcome.Signals.HasForms)
	assert.Contains(t, scan.NonApplicableCriteria, "11.1")

	require.NotNil(t, outcome.Conformity)
	assert.NotNil(t, scan.ConformityRate)
	assert.Greater(t, outcome.Conformity.ApplicableCount, 0)

	stages := make([]string, 0, len(events))
	for _, e := range events {
		stages = append(stages, e.Stage)
	}
	assert.Contains(t, stages, StageNormalize)
	assert.Contains(t, stages, StageGroup)
	assert.Contains(t, stages, StageEnrich)
	assert.Contains(t, stages, StageConformity)
}

func TestRunScan_NoGatewayFallsBack(t *testing.T) {
	outcome, err := RunScan(context.Background(), ScanOptions{
		URL:     "https://example.org/",
		HTML:    pageWithImages(20),
		Results: sampleResults(),
	})
	require.NoError(t, err)

	for _, group := range outcome.Groups {
		assert.NotEmpty(t, group.Recommendation)
		assert.False(t, group.Enriched)
	}
}

func TestRunScan_NoIssues(t *testing.T) {
	outcome, err := RunScan(context.Background(), ScanOptions{
		URL:  "https://example.org/",
		HTML: pageWithImages(20),
	})
	require.NoError(t, err)

	assert.Equal(t, types.ScanStatusCompleted, outcome.Scan.Status)
	assert.Empty(t, outcome.Groups)
	require.NotNil(t, outcome.Scan.ConformityRate)
	assert.Equal(t, 100.0, *outcome.Scan.ConformityRate)
}

func TestRunScan_InvalidFetchFails(t *testing.T) {
	outcome, err := RunScan(context.Background(), ScanOptions{
		URL: "not-a-valid-url",
	})
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageFetch, perr.Stage)
	assert.Equal(t, types.ScanStatusFailed, outcome.Scan.Status)
	assert.NotEmpty(t, outcome.Scan.ErrorMessage)
}

func completedScan(url string, rate float64, issues []types.Issue) types.Scan {
	id := uuid.New()
	for i := range issues {
		issues[i].ScanID = id
		issues[i].PageURL = url
	}
	return types.Scan{
		ID:             id,
		URL:            url,
		Status:         types.ScanStatusCompleted,
		Issues:         issues,
		ConformityRate: &rate,
	}
}

func TestComputePlan(t *testing.T) {
	scans := []types.Scan{
		completedScan("https://example.org/a", 60, []types.Issue{
			{ID: uuid.New(), ErrorType: "Missing alt attribute", Source: types.SourceStaticAnalyzer, Severity: types.SeverityCritical},
			{ID: uuid.New(), ErrorType: "Low contrast text", Source: types.SourceRuleLinter, Severity: types.SeverityMajor},
		}),
		completedScan("https://example.org/b", 80, []types.Issue{
			{ID: uuid.New(), ErrorType: "Missing alt attribute", Source: types.SourceStaticAnalyzer, Severity: types.SeverityCritical},
		}),
	}

	req := types.PlanRequest{
		CampaignID:    uuid.New(),
		DurationYears: 2,
		TargetRate:    90,
	}
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	plan, err := ComputePlan(context.Background(), scans, req, now, nil)
	require.NoError(t, err)

	assert.Equal(t, req.CampaignID, plan.CampaignID)
	assert.Equal(t, 2025, plan.StartYear)
	assert.Equal(t, 1, plan.StartQuarter)
	assert.Len(t, plan.Items, 2)
	require.NotNil(t, plan.CurrentRate)
	assert.Equal(t, 70.0, *plan.CurrentRate)

	// the cross-scan group spans both pages
	var altItem *types.RemediationItem
	for i := range plan.Items {
		if plan.Items[i].OccurrenceCount == 2 {
			altItem = &plan.Items[i]
		}
	}
	require.NotNil(t, altItem)
	assert.Equal(t, 2, altItem.AffectedScopeCount)
}

func TestComputePlan_SkipsFailedScans(t *testing.T) {
	failed := completedScan("https://example.org/broken", 10, []types.Issue{
		{ID: uuid.New(), ErrorType: "Broken thing", Source: types.SourceScanner, Severity: types.SeverityCritical},
	})
	failed.Status = types.ScanStatusFailed

	plan, err := ComputePlan(context.Background(), []types.Scan{failed}, types.PlanRequest{
		CampaignID:    uuid.New(),
		DurationYears: 1,
	}, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)

	assert.Empty(t, plan.Items)
	assert.Nil(t, plan.CurrentRate)
}

func TestComputePlan_EmptyCampaign(t *testing.T) {
	plan, err := ComputePlan(context.Background(), nil, types.PlanRequest{
		CampaignID:    uuid.New(),
		DurationYears: 3,
	}, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)

	assert.Empty(t, plan.Items)
	assert.Empty(t, plan.Unscheduled)
	assert.Equal(t, 3, plan.DurationYears)
}

func TestComputePlan_MergesCachedGuidance(t *testing.T) {
	scans := []types.Scan{
		completedScan("https://example.org/a", 60, []types.Issue{
			{ID: uuid.New(), ErrorType: "Missing alt attribute", Source: types.SourceStaticAnalyzer, Severity: types.SeverityCritical},
		}),
	}
	req := types.PlanRequest{
		CampaignID:    uuid.New(),
		DurationYears: 1,
	}
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	// Without cached guidance the group scores as an attribute-level fix.
	plan, err := ComputePlan(context.Background(), scans, req, now, nil)
	require.NoError(t, err)
	require.Len(t, plan.Items, 1)
	assert.True(t, plan.Items[0].IsQuickWin)

	// Cached guidance for the same fingerprint describes structural work,
	// which must flow into complexity scoring at plan time.
	cache := enrichment.NewMemoryCache()
	fp := enrichment.Fingerprint(types.SourceStaticAnalyzer, normalize.ErrorType("Missing alt attribute"))
	require.NoError(t, cache.Put(context.Background(), fp, enrichment.Guidance{
		Fingerprint:    fp,
		Recommendation: "Rework the surrounding page structure so every image sits inside a labelled figure.",
	}))

	plan, err = ComputePlan(context.Background(), scans, req, now, cache)
	require.NoError(t, err)
	require.Len(t, plan.Items, 1)
	assert.False(t, plan.Items[0].IsQuickWin)
}
