// Package conformity computes the conformity rate of a scan against the
// applicable, automatically testable criteria of the taxonomy.
package conformity

import (
	"math"

	"github.com/jonathan/a11y-audit/internal/applicability"
	"github.com/jonathan/a11y-audit/internal/taxonomy"
	"github.com/jonathan/a11y-audit/internal/types"
)

// Result holds the conformity computation for one scan. Rate is nil when
// no criterion is applicable, so callers never face a divide-by-zero.
type Result struct {
	Rate             *float64 `json:"rate,omitempty"`
	ApplicableCount  int      `json:"applicable_count"`
	ConformingCount  int      `json:"conforming_count"`
	NonConforming    []string `json:"non_conforming,omitempty"`
	NotApplicable    []string `json:"not_applicable,omitempty"`
	UncategorizedIss int      `json:"uncategorized_issue_groups"`
}

// Compute derives the conformity rate from classified issue groups, the
// not-applicable criteria set and the criteria reference. Only criteria
// with autoTestable=true and outside the not-applicable set count as
// applicable; a criterion is non-conforming when at least one group maps
// to it.
func Compute(groups []*types.IssueGroup, notApplicable []string, ref *taxonomy.Reference) *Result {
	failing := make(map[string]bool)
	uncategorized := 0
	for _, group := range groups {
		if group.PrimaryCriterion == "" {
			uncategorized++
			continue
		}
		failing[group.PrimaryCriterion] = true
	}

	result := &Result{
		NotApplicable:    notApplicable,
		UncategorizedIss: uncategorized,
	}

	for _, criterion := range ref.AutoTestableCriteria() {
		if applicability.IsNotApplicable(notApplicable, criterion.Number) {
			continue
		}
		result.ApplicableCount++
		if failing[criterion.Number] {
			result.NonConforming = append(result.NonConforming, criterion.Number)
		} else {
			result.ConformingCount++
		}
	}

	if result.ApplicableCount == 0 {
		return result
	}

	rate := float64(result.ConformingCount) / float64(result.ApplicableCount) * 100
	rate = math.Round(rate*100) / 100
	result.Rate = &rate
	return result
}
