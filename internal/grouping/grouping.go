// Package grouping collapses issues into deduplicated issue groups.
package grouping

import (
	"github.com/google/uuid"

	"github.com/jonathan/a11y-audit/internal/normalize"
	"github.com/jonathan/a11y-audit/internal/taxonomy"
	"github.com/jonathan/a11y-audit/internal/types"
)

type groupKey struct {
	source         types.Source
	normalizedType string
}

// builder accumulates groups in first-seen order so the result is stable
// for a fixed input order while remaining identical (by key and count)
// under permutation.
type builder struct {
	index  map[groupKey]*types.IssueGroup
	order  []groupKey
	scopes map[groupKey]map[string]bool
}

func newBuilder() *builder {
	return &builder{
		index:  make(map[groupKey]*types.IssueGroup),
		scopes: make(map[groupKey]map[string]bool),
	}
}

func (b *builder) add(issue types.Issue, scope string) {
	k := groupKey{
		source:         issue.Source,
		normalizedType: normalize.ErrorType(issue.ErrorType),
	}

	group, ok := b.index[k]
	if !ok {
		group = &types.IssueGroup{
			ErrorType:           issue.ErrorType,
			NormalizedErrorType: k.normalizedType,
			Source:              issue.Source,
			Severity:            issue.Severity,
		}
		b.index[k] = group
		b.order = append(b.order, k)
		b.scopes[k] = make(map[string]bool)
	}

	group.Occurrences = append(group.Occurrences, issue)
	group.Severity = types.MaxSeverity(group.Severity, issue.Severity)

	if scope != "" && !b.scopes[k][scope] {
		b.scopes[k][scope] = true
		group.AffectedScopes = append(group.AffectedScopes, scope)
	}

	// Classification degrades to uncategorized per issue; the group keeps
	// the first resolved value so criterion precision cannot flap between
	// occurrences. Classify truncates criteria to two numeric levels, which
	// also makes campaign-scope keys precision-insensitive.
	c := taxonomy.Classify(&issue)
	if group.TopicNumber == taxonomy.TopicUncategorized && c.TopicNumber != taxonomy.TopicUncategorized {
		group.TopicNumber = c.TopicNumber
	}
	if group.PrimaryCriterion == "" && c.Criterion != "" {
		group.PrimaryCriterion = c.Criterion
	}
	if group.SecondaryCriterion == "" && issue.SecondaryCriterion != "" {
		group.SecondaryCriterion = issue.SecondaryCriterion
	}
}

func (b *builder) groups() []*types.IssueGroup {
	out := make([]*types.IssueGroup, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, b.index[k])
	}
	return out
}

// scopeOf picks the deduplication identifier for an issue: the page URL
// when known, else the owning scan.
func scopeOf(issue types.Issue, fallback string) string {
	if issue.PageURL != "" {
		return issue.PageURL
	}
	if fallback != "" {
		return fallback
	}
	if issue.ScanID != uuid.Nil {
		return issue.ScanID.String()
	}
	return ""
}

// Issues groups the issues of a single scan by (source, normalized error
// type). Occurrence insertion order is preserved.
func Issues(issues []types.Issue) []*types.IssueGroup {
	b := newBuilder()
	for _, issue := range issues {
		b.add(issue, scopeOf(issue, ""))
	}
	return b.groups()
}

// Campaign groups issues across every completed scan of a campaign, so the
// same defect class detected on several pages is counted once with its
// occurrences and affected pages merged. Scans that did not complete are
// skipped.
func Campaign(scans []types.Scan) []*types.IssueGroup {
	b := newBuilder()
	for _, scan := range scans {
		if scan.Status != types.ScanStatusCompleted {
			continue
		}
		for _, issue := range scan.Issues {
			b.add(issue, scopeOf(issue, scan.URL))
		}
	}
	return b.groups()
}
