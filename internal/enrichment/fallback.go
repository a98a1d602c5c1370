package enrichment

import (
	"strings"
	"unicode"
)

// fallbackTable maps error-type keywords to deterministic recommendations
// used when the AI collaborator is unreachable or returns a malformed
// response. Checked in order, first match wins.
var fallbackTable = []struct {
	keyword        string
	recommendation string
}{
	{"alt", "Add a text alternative that conveys the purpose of the image via the alt attribute; use an empty alt for purely decorative images."},
	{"contrast", "Increase the contrast ratio between text and its background to at least 4.5:1 (3:1 for large text)."},
	{"label", "Associate every form field with a visible label element, or provide an accessible name via aria-label or aria-labelledby."},
	{"heading", "Restore a logical heading hierarchy: one h1 per page and no skipped heading levels."},
	{"link", "Give every link an explicit accessible name that conveys its destination out of context."},
	{"keyboard", "Make the component reachable and operable with the keyboard alone; ensure focus is visible and never trapped."},
	{"focus", "Make the component reachable and operable with the keyboard alone; ensure focus is visible and never trapped."},
	{"lang", "Declare the default document language with a valid lang attribute on the html element."},
	{"title", "Provide a concise, descriptive title for the element so assistive technologies can announce its purpose."},
	{"table", "Declare header cells with th elements and associate data cells with their headers using scope or headers attributes."},
	{"frame", "Give each iframe a title attribute describing its content."},
}

const genericFallback = "Review the reported element against the relevant accessibility criterion and correct its markup or behavior accordingly."

// Fallback derives a deterministic recommendation from keyword matching
// on the error type. Keywords match whole words only, so "unstable" never
// routes to the table guidance. It never fails and never consults the AI
// collaborator.
func Fallback(errorType string) Guidance {
	words := strings.FieldsFunc(strings.ToLower(errorType), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	seen := make(map[string]bool, len(words))
	for _, word := range words {
		seen[word] = true
	}
	for _, entry := range fallbackTable {
		if seen[entry.keyword] {
			return Guidance{Recommendation: entry.recommendation}
		}
	}
	return Guidance{Recommendation: genericFallback}
}
