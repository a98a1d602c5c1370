package scheduling

import (
	"math"

	"github.com/jonathan/a11y-audit/internal/types"
)

// Effort bounds in hours per remediation item.
const (
	minEffortHours = 1
	maxEffortHours = 40
)

func baseEffort(severity types.Severity) float64 {
	switch severity {
	case types.SeverityCritical:
		return 8
	case types.SeverityMajor:
		return 4
	default:
		return 2
	}
}

func complexityFactor(complexity types.Complexity) float64 {
	switch complexity {
	case types.ComplexityHigh:
		return 1.0
	case types.ComplexityMedium:
		return 0.5
	default:
		return 0
	}
}

// scopeFactor applies a multi-scope surcharge with diminishing returns:
// the first 5 affected scopes add 15% of base each, every scope beyond
// the fifth adds only 5%.
func scopeFactor(scopes int) float64 {
	if scopes <= 0 {
		return 0
	}
	if scopes <= 5 {
		return 0.15 * float64(scopes)
	}
	return 0.15*5 + 0.05*float64(scopes-5)
}

// occurrenceFactor applies an economy-of-scale surcharge: many
// occurrences of the same defect are cheaper to fix per instance than a
// handful of scattered ones.
func occurrenceFactor(occurrences int) float64 {
	switch {
	case occurrences > 10:
		return 0.20
	case occurrences >= 6:
		return 0.30
	default:
		return 0.10 * float64(occurrences)
	}
}

// EstimateEffort computes the estimated effort in hours for remediating
// one issue group: a severity base plus complexity, multi-scope and
// occurrence surcharges, rounded and clamped to [1, 40].
func EstimateEffort(severity types.Severity, complexity types.Complexity, occurrences, scopes int) int {
	base := baseEffort(severity)
	total := base * (1 + complexityFactor(complexity) + scopeFactor(scopes) + occurrenceFactor(occurrences))

	hours := int(math.Round(total))
	if hours < minEffortHours {
		return minEffortHours
	}
	if hours > maxEffortHours {
		return maxEffortHours
	}
	return hours
}

func severityImpactBase(severity types.Severity) int {
	switch severity {
	case types.SeverityCritical:
		return 80
	case types.SeverityMajor:
		return 50
	default:
		return 30
	}
}

// ImpactScore estimates user impact on a 0-100 scale from severity and the
// number of affected scopes.
func ImpactScore(severity types.Severity, scopes int) int {
	scopeBonus := 2 * scopes
	if scopeBonus > 20 {
		scopeBonus = 20
	}
	score := severityImpactBase(severity) + scopeBonus
	if score > 100 {
		return 100
	}
	return score
}
