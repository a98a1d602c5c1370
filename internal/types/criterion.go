package types

// Criterion is a single numbered rule in the accessibility-standard
// taxonomy. Criteria are immutable reference data loaded from the static
// taxonomy document.
type Criterion struct {
	Number       string   `json:"number"`
	Title        string   `json:"title"`
	TopicNumber  int      `json:"topic_number"`
	AutoTestable bool     `json:"auto_testable"`
	Tests        []string `json:"tests,omitempty"`
	WCAGRefs     []string `json:"wcag_refs,omitempty"`
}

// Topic groups criteria under a numbered theme of the standard.
type Topic struct {
	Number   int         `json:"number"`
	Name     string      `json:"name"`
	Criteria []Criterion `json:"criteria"`
}
