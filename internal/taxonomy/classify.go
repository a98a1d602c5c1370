package taxonomy

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/a11y-audit/internal/types"
)

// TopicUncategorized is assigned when no primary or secondary reference
// resolves.
const TopicUncategorized = 0

var criterionPattern = regexp.MustCompile(`^(\d+)\.(\d+)`)

// wcagTopicTable maps WCAG success-criterion prefixes to primary-standard
// topic numbers. Lookup is longest-prefix-wins, so "1.4.3" (text contrast)
// routes to Colors while the broader "1.4" falls back to Presentation.
var wcagTopicTable = map[string]int{
	"1.1":   1,  // non-text content -> Images
	"1.2":   4,  // time-based media -> Multimedia
	"1.3":   9,  // adaptable -> Structure
	"1.3.5": 11, // identify input purpose -> Forms
	"1.4":   10, // distinguishable -> Presentation
	"1.4.1": 3,  // use of color -> Colors
	"1.4.2": 4,  // audio control -> Multimedia
	"1.4.3": 3,  // contrast (minimum) -> Colors
	"1.4.6": 3,  // contrast (enhanced) -> Colors
	"2.1":   7,  // keyboard accessible -> Scripts
	"2.1.2": 12, // no keyboard trap -> Navigation
	"2.2":   13, // enough time -> Consultation
	"2.3":   13, // seizures -> Consultation
	"2.4":   12, // navigable -> Navigation
	"2.4.2": 8,  // page titled -> Mandatory elements
	"2.4.4": 6,  // link purpose -> Links
	"2.4.6": 9,  // headings and labels -> Structure
	"3.1":   8,  // readable -> Mandatory elements
	"3.2":   12, // predictable -> Navigation
	"3.2.1": 13, // on focus -> Consultation
	"3.3":   11, // input assistance -> Forms
	"4.1":   8,  // compatible -> Mandatory elements
	"4.1.2": 7,  // name, role, value -> Scripts
	"4.1.3": 7,  // status messages -> Scripts
}

// sorted longest-first so the first match wins
var wcagPrefixes = func() []string {
	prefixes := make([]string, 0, len(wcagTopicTable))
	for p := range wcagTopicTable {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})
	return prefixes
}()

// Classification is the resolved position of an issue in the taxonomy.
type Classification struct {
	TopicNumber int
	Criterion   string
}

// TruncateCriterion reduces a criterion reference to its two-level form,
// e.g. "1.1.1" becomes "1.1". Returns "" when the input does not start
// with two numeric segments.
func TruncateCriterion(ref string) string {
	m := criterionPattern.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return ""
	}
	return m[1] + "." + m[2]
}

// TopicOf extracts the leading topic number from a two-level criterion.
func TopicOf(criterion string) int {
	dot := strings.IndexByte(criterion, '.')
	if dot <= 0 {
		return TopicUncategorized
	}
	n := 0
	for _, r := range criterion[:dot] {
		n = n*10 + int(r-'0')
	}
	return n
}

// SecondaryTopic resolves a secondary-standard (WCAG) reference to a topic
// number via the prefix table, longest prefix first. Returns
// TopicUncategorized when nothing matches.
func SecondaryTopic(ref string) int {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return TopicUncategorized
	}
	for _, prefix := range wcagPrefixes {
		if ref == prefix || strings.HasPrefix(ref, prefix+".") {
			return wcagTopicTable[prefix]
		}
	}
	return TopicUncategorized
}

// Classify resolves an issue to a (topic, criterion) pair. The primary
// criterion wins when present; otherwise the secondary-standard table is
// consulted; otherwise the issue lands in topic 0 ("uncategorized").
// Classification never fails.
func Classify(issue *types.Issue) Classification {
	if criterion := TruncateCriterion(issue.PrimaryCriterion); criterion != "" {
		return Classification{
			TopicNumber: TopicOf(criterion),
			Criterion:   criterion,
		}
	}
	if topic := SecondaryTopic(issue.SecondaryCriterion); topic != TopicUncategorized {
		return Classification{TopicNumber: topic}
	}
	return Classification{TopicNumber: TopicUncategorized}
}
