// Package scoring provides the deterministic priority, complexity and
// category classifiers for issue groups.
package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/a11y-audit/internal/types"
)

// Component caps for the priority formula.
const (
	maxOccurrenceScore = 30
	maxPriorityScore   = 100
	defaultImpactScore = 10
)

// Priority tiers for display.
type Tier string

const (
	TierP1 Tier = "P1" // very urgent
	TierP2 Tier = "P2"
	TierP3 Tier = "P3"
	TierP4 Tier = "P4"
)

func severityScore(severity types.Severity) int {
	switch severity {
	case types.SeverityCritical:
		return 40
	case types.SeverityMajor:
		return 25
	case types.SeverityMinor:
		return 10
	default:
		return 0
	}
}

// occurrenceScore grows in logarithmic steps so a single pervasive bug
// cannot dominate the ranking: 1-10 occurrences score 10-20, anything
// above 10 saturates at 30.
func occurrenceScore(occurrences int) int {
	if occurrences <= 0 {
		return 0
	}
	score := 10 + 10*int(math.Ceil(math.Log10(float64(occurrences))))
	if score > maxOccurrenceScore {
		return maxOccurrenceScore
	}
	return score
}

// impact keyword tiers, checked in order: blocking language outranks
// hardship language outranks low-impact language.
var impactTiers = []struct {
	score    int
	keywords []string
}{
	{20, []string{"impossible", "blocked", "blocking", "cannot", "prevents", "unusable", "inaccessible", "excluded"}},
	{15, []string{"difficult", "hard to", "confusing", "frustrating", "hinders", "struggle"}},
	{5, []string{"cosmetic", "slight", "negligible", "minor inconvenience"}},
}

func impactScore(description string) int {
	lower := strings.ToLower(description)
	for _, tier := range impactTiers {
		for _, keyword := range tier.keywords {
			if strings.Contains(lower, keyword) {
				return tier.score
			}
		}
	}
	return defaultImpactScore
}

// wcagLevels maps WCAG success criteria to their conformance level.
var wcagLevels = map[string]string{
	"1.1.1": "A", "1.2.1": "A", "1.2.2": "A", "1.3.1": "A", "1.3.2": "A",
	"1.4.1": "A", "1.4.2": "A", "2.1.1": "A", "2.1.2": "A", "2.2.1": "A",
	"2.2.2": "A", "2.3.1": "A", "2.4.1": "A", "2.4.2": "A", "2.4.3": "A",
	"2.4.4": "A", "3.1.1": "A", "3.2.1": "A", "3.3.1": "A", "3.3.2": "A",
	"4.1.1": "A", "4.1.2": "A",
	"1.2.5": "AA", "1.3.5": "AA", "1.4.3": "AA", "1.4.4": "AA", "1.4.11": "AA",
	"2.4.5": "AA", "2.4.6": "AA", "3.2.4": "AA", "3.3.3": "AA", "3.3.4": "AA",
	"4.1.3": "AA",
	"1.2.9": "AAA", "1.4.6": "AAA",
}

func standardLevelScore(secondaryCriterion string) int {
	switch wcagLevels[strings.TrimSpace(secondaryCriterion)] {
	case "A":
		return 10
	case "AA":
		return 7
	case "AAA":
		return 4
	default:
		return 5
	}
}

// Priority computes the deterministic priority score for an issue group,
// clamped to [0, 100]. The same inputs always produce the same score; the
// function has no side effects.
func Priority(group *types.IssueGroup) int {
	score := severityScore(group.Severity) +
		occurrenceScore(group.OccurrenceCount()) +
		impactScore(group.ImpactDescription) +
		standardLevelScore(group.SecondaryCriterion)
	if score > maxPriorityScore {
		return maxPriorityScore
	}
	if score < 0 {
		return 0
	}
	return score
}

// TierOf maps a priority score to its display tier.
func TierOf(score int) Tier {
	switch {
	case score >= 80:
		return TierP1
	case score >= 60:
		return TierP2
	case score >= 40:
		return TierP3
	default:
		return TierP4
	}
}
