// Package types provides type definitions for structured data used throughout the audit engine.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies which checker produced a finding.
type Source string

const (
	SourceScanner        Source = "scanner"
	SourceRuleLinter     Source = "rule-linter"
	SourceStaticAnalyzer Source = "static-analyzer"
	SourceAIVisual       Source = "ai-visual"
	SourceAIContextual   Source = "ai-contextual"
)

// Severity classifies how serious an issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// ParseSeverity maps free-text severity labels from checkers onto the
// canonical levels. Unknown labels default to minor.
func ParseSeverity(s string) Severity {
	switch s {
	case "critical", "error", "serious":
		return SeverityCritical
	case "major", "moderate", "warning":
		return SeverityMajor
	default:
		return SeverityMinor
	}
}

// Rank orders severities for comparison: higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityMajor:
		return 2
	case SeverityMinor:
		return 1
	default:
		return 0
	}
}

// MaxSeverity returns the more severe of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Issue is one concrete detection instance, normalized from a raw checker
// finding. Issues are immutable once created and owned by a Scan.
type Issue struct {
	ID                 uuid.UUID `json:"id"`
	ScanID             uuid.UUID `json:"scan_id"`
	ErrorType          string    `json:"error_type"`
	Source             Source    `json:"source"`
	Severity           Severity  `json:"severity"`
	Selector           string    `json:"selector,omitempty"`
	Context            string    `json:"context,omitempty"`
	Description        string    `json:"description,omitempty"`
	PrimaryCriterion   string    `json:"primary_criterion,omitempty"`
	SecondaryCriterion string    `json:"secondary_criterion,omitempty"`
	PageURL            string    `json:"page_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
