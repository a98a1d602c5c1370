package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityCritical, ParseSeverity("critical"))
	assert.Equal(t, SeverityCritical, ParseSeverity("serious"))
	assert.Equal(t, SeverityCritical, ParseSeverity("error"))
	assert.Equal(t, SeverityMajor, ParseSeverity("moderate"))
	assert.Equal(t, SeverityMajor, ParseSeverity("warning"))
	assert.Equal(t, SeverityMinor, ParseSeverity("info"))
	assert.Equal(t, SeverityMinor, ParseSeverity(""))
}

func TestMaxSeverity(t *testing.T) {
	assert.Equal(t, SeverityCritical, MaxSeverity(SeverityMinor, SeverityCritical))
	assert.Equal(t, SeverityCritical, MaxSeverity(SeverityCritical, SeverityMajor))
	assert.Equal(t, SeverityMajor, MaxSeverity(SeverityMajor, SeverityMinor))
}

func TestScan_CountBySeverity(t *testing.T) {
	scan := &Scan{
		Issues: []Issue{
			{Severity: SeverityCritical},
			{Severity: SeverityCritical},
			{Severity: SeverityMajor},
			{Severity: SeverityMinor},
		},
	}
	scan.CountBySeverity()
	assert.Equal(t, 2, scan.CriticalCount)
	assert.Equal(t, 1, scan.MajorCount)
	assert.Equal(t, 1, scan.MinorCount)
}

func TestIssueGroup_Representative(t *testing.T) {
	group := &IssueGroup{
		Occurrences: []Issue{
			{Selector: "img.hero"},
			{Selector: "img.footer"},
		},
	}
	rep := group.Representative()
	require.NotNil(t, rep)
	assert.Equal(t, "img.hero", rep.Selector)

	empty := &IssueGroup{}
	assert.Nil(t, empty.Representative())
}

func TestScanRequest_Validate(t *testing.T) {
	valid := &ScanRequest{URL: "https://example.com/page"}
	require.NoError(t, valid.Validate())

	invalid := &ScanRequest{URL: "not a url"}
	assert.Error(t, invalid.Validate())

	missing := &ScanRequest{}
	assert.Error(t, missing.Validate())
}

func TestPlanRequest_Validate(t *testing.T) {
	valid := &PlanRequest{CampaignID: uuid.New(), DurationYears: 3}
	require.NoError(t, valid.Validate())

	tooLong := &PlanRequest{CampaignID: uuid.New(), DurationYears: 6}
	assert.Error(t, tooLong.Validate())

	tooShort := &PlanRequest{CampaignID: uuid.New(), DurationYears: 0}
	assert.Error(t, tooShort.Validate())

	badRate := &PlanRequest{CampaignID: uuid.New(), DurationYears: 2, TargetRate: 120}
	assert.Error(t, badRate.Validate())
}
