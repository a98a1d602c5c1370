package scoring

import (
	"strings"

	"github.com/jonathan/a11y-audit/internal/types"
)

// Lexical term lists for fix-complexity estimation. High-complexity terms
// describe work that touches page structure or behavior; low-complexity
// terms describe attribute-level fixes.
var (
	highComplexityTerms = []string{"structure", "navigation", "form", "table", "script", "keyboard", "focus"}
	lowComplexityTerms  = []string{"alt", "label", "title", "aria-label", "lang"}
)

// ComplexityOf estimates fix complexity from the error type and the
// enriched recommendation. High-complexity terms win over low-complexity
// terms; anything matching neither list is medium.
func ComplexityOf(errorType, recommendation string) types.Complexity {
	text := strings.ToLower(errorType + " " + recommendation)
	for _, term := range highComplexityTerms {
		if strings.Contains(text, term) {
			return types.ComplexityHigh
		}
	}
	for _, term := range lowComplexityTerms {
		if strings.Contains(text, term) {
			return types.ComplexityLow
		}
	}
	return types.ComplexityMedium
}

// categoryBuckets scores remediation categories by keyword hits. Ties and
// zero scores resolve to technical.
var categoryBuckets = map[types.Category][]string{
	types.CategoryStructural: {"structure", "heading", "landmark", "navigation", "table", "frame", "semantic", "layout"},
	types.CategoryContent:    {"alt", "image", "text", "contrast", "caption", "transcript", "label", "title", "language", "wording"},
	types.CategoryTechnical:  {"script", "aria", "keyboard", "focus", "attribute", "markup", "code", "javascript", "widget"},
	types.CategoryTraining:   {"process", "editorial", "workflow", "guideline", "training", "awareness", "policy"},
}

func bucketScore(text string, keywords []string) int {
	score := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			score++
		}
	}
	return score
}

// CategoryOf buckets an issue group for remediation planning by scoring
// the four category keyword lists against the group's error type,
// description and recommendation. The highest-scoring non-zero bucket
// wins; ties break toward technical.
func CategoryOf(group *types.IssueGroup) types.Category {
	var description string
	if rep := group.Representative(); rep != nil {
		description = rep.Description
	}
	text := strings.ToLower(group.ErrorType + " " + description + " " + group.Recommendation)

	best := types.CategoryTechnical
	bestScore := bucketScore(text, categoryBuckets[types.CategoryTechnical])
	for _, category := range []types.Category{types.CategoryStructural, types.CategoryContent, types.CategoryTraining} {
		if score := bucketScore(text, categoryBuckets[category]); score > bestScore {
			best, bestScore = category, score
		}
	}
	if bestScore == 0 {
		return types.CategoryTechnical
	}
	return best
}
