package types

// Complexity estimates how involved a fix is, derived from lexical
// heuristics over the error type and recommendation text.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Category buckets an issue group for remediation planning.
type Category string

const (
	CategoryStructural Category = "structural"
	CategoryContent    Category = "content"
	CategoryTechnical  Category = "technical"
	CategoryTraining   Category = "training"
)

// IssueGroup is a deduplicated cluster of issues sharing the same source
// and normalized error type within a scope (one scan, or a whole campaign
// when scheduling). Occurrences is never empty and preserves insertion
// order, so Occurrences[0] provides the representative selector/context.
type IssueGroup struct {
	ErrorType           string     `json:"error_type"`
	NormalizedErrorType string     `json:"normalized_error_type"`
	Source              Source     `json:"source"`
	Severity            Severity   `json:"severity"`
	Occurrences         []Issue    `json:"occurrences"`
	AffectedScopes      []string   `json:"affected_scopes"`
	PrimaryCriterion    string     `json:"primary_criterion,omitempty"`
	SecondaryCriterion  string     `json:"secondary_criterion,omitempty"`
	TopicNumber         int        `json:"topic_number"`
	Recommendation      string     `json:"recommendation,omitempty"`
	CodeFix             string     `json:"code_fix,omitempty"`
	ImpactDescription   string     `json:"impact_description,omitempty"`
	Enriched            bool       `json:"enriched"`
	PriorityScore       int        `json:"priority_score"`
	Complexity          Complexity `json:"complexity"`
}

// OccurrenceCount returns the number of issues collapsed into the group.
func (g *IssueGroup) OccurrenceCount() int {
	return len(g.Occurrences)
}

// AffectedScopeCount returns the number of distinct pages/scans touched.
func (g *IssueGroup) AffectedScopeCount() int {
	return len(g.AffectedScopes)
}

// Representative returns the first occurrence, which carries the sample
// selector and context for display and enrichment prompts.
func (g *IssueGroup) Representative() *Issue {
	if len(g.Occurrences) == 0 {
		return nil
	}
	return &g.Occurrences[0]
}
