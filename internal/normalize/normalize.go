// Package normalize converts raw checker findings into canonical issues.
package normalize

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/jonathan/a11y-audit/internal/types"
)

// RawFinding is one detection emitted by a single checker, as received on
// the scanner collaborator boundary.
type RawFinding struct {
	Severity     string   `json:"severity"`
	Message      string   `json:"message"`
	Selector     string   `json:"selector,omitempty"`
	Context      string   `json:"context,omitempty"`
	StandardRefs []string `json:"standard_refs,omitempty"`
}

// CheckResult is the output of one named check: zero or more findings.
// The check name discriminates the originating checker.
type CheckResult struct {
	Name     string       `json:"name"`
	Findings []RawFinding `json:"findings"`
}

// sourceTable routes check-name markers to sources, longest marker wins.
// Names matching no marker default to the browser-automation scanner.
var sourceTable = map[string]types.Source{
	"Axe-core":      types.SourceStaticAnalyzer,
	"a11y-lint":     types.SourceRuleLinter,
	"Wave":          types.SourceRuleLinter,
	"AI-visual":     types.SourceAIVisual,
	"AI-contextual": types.SourceAIContextual,
}

// sorted longest-first so the most specific marker wins
var sourceMarkers = func() []string {
	markers := make([]string, 0, len(sourceTable))
	for m := range sourceTable {
		markers = append(markers, m)
	}
	sort.Slice(markers, func(i, j int) bool {
		if len(markers[i]) != len(markers[j]) {
			return len(markers[i]) > len(markers[j])
		}
		return markers[i] < markers[j]
	})
	return markers
}()

// SourceForCheck resolves the source enum from a check name.
func SourceForCheck(name string) types.Source {
	lower := strings.ToLower(name)
	for _, marker := range sourceMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return sourceTable[marker]
		}
	}
	return types.SourceScanner
}

// ErrorType strips digits and non-letters from a checker label and
// lower-cases it, so "Missing alt #12" and "Missing alt #45" collapse to
// the same normalized type.
func ErrorType(label string) string {
	var sb strings.Builder
	for _, r := range label {
		if unicode.IsLetter(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}

// SplitRefs separates standard references into a primary-standard
// criterion and a secondary-standard (WCAG) reference. References carrying
// a "wcag:" prefix are secondary; bare numeric references are primary.
func SplitRefs(refs []string) (primary, secondary string) {
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		switch {
		case strings.HasPrefix(ref, "wcag:"):
			if secondary == "" {
				secondary = strings.TrimPrefix(ref, "wcag:")
			}
		case ref != "":
			if primary == "" {
				primary = ref
			}
		}
	}
	return primary, secondary
}

// Finding converts one raw finding into a canonical issue.
func Finding(scanID uuid.UUID, pageURL, checkName string, f RawFinding) types.Issue {
	primary, secondary := SplitRefs(f.StandardRefs)
	return types.Issue{
		ID:                 uuid.New(),
		ScanID:             scanID,
		ErrorType:          checkName,
		Source:             SourceForCheck(checkName),
		Severity:           types.ParseSeverity(f.Severity),
		Selector:           f.Selector,
		Context:            f.Context,
		Description:        f.Message,
		PrimaryCriterion:   primary,
		SecondaryCriterion: secondary,
		PageURL:            pageURL,
		CreatedAt:          time.Now().UTC(),
	}
}

// Results converts a full set of check results into canonical issues,
// preserving checker order so the first occurrence of each defect class is
// well-defined downstream.
func Results(scanID uuid.UUID, pageURL string, results []CheckResult) []types.Issue {
	var issues []types.Issue
	for _, result := range results {
		for _, f := range result.Findings {
			issues = append(issues, Finding(scanID, pageURL, result.Name, f))
		}
	}
	return issues
}
