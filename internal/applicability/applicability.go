// Package applicability determines which criteria are structurally not
// applicable to a page given its feature signals.
package applicability

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/a11y-audit/internal/types"
)

// featureCriteria maps each absent page feature to the criteria that
// presuppose it. Video and audio lists are kept disjoint so a video-only
// page drops audio-only criteria while keeping its own.
var featureCriteria = []struct {
	name     string
	present  func(*types.FeatureSignals) bool
	criteria []string
}{
	{"images", func(s *types.FeatureSignals) bool { return s.HasImages },
		[]string{"1.1", "1.2", "1.3", "1.6", "1.9"}},
	{"tables", func(s *types.FeatureSignals) bool { return s.HasTables },
		[]string{"5.1", "5.2", "5.3", "5.4", "5.6", "5.7"}},
	{"forms", func(s *types.FeatureSignals) bool { return s.HasForms },
		[]string{"11.1", "11.2", "11.3", "11.4", "11.5", "11.6", "11.7", "11.8", "11.9", "11.10", "11.11", "11.12", "11.13"}},
	{"videos", func(s *types.FeatureSignals) bool { return s.HasVideos },
		[]string{"4.3", "4.5", "4.7", "4.11"}},
	{"audio", func(s *types.FeatureSignals) bool { return s.HasAudio },
		[]string{"4.1", "4.9"}},
	{"iframes", func(s *types.FeatureSignals) bool { return s.HasIframes },
		[]string{"2.1", "2.2"}},
	{"animations", func(s *types.FeatureSignals) bool { return s.HasAnimations },
		[]string{"13.7", "13.8"}},
	{"autoplay-audio", func(s *types.FeatureSignals) bool { return s.HasAutoplayAudio },
		[]string{"4.10"}},
	{"time-limit", func(s *types.FeatureSignals) bool { return s.HasTimeLimit },
		[]string{"13.1"}},
	{"new-window-links", func(s *types.FeatureSignals) bool { return s.HasNewWindowLinks },
		[]string{"13.2"}},
}

// Detect returns the deduplicated, sorted union of criteria that cannot
// apply to a page with the given feature signals. A present feature never
// contributes, so flipping a signal to true removes its list entirely.
func Detect(signals *types.FeatureSignals) []string {
	if signals == nil {
		return nil
	}

	set := make(map[string]bool)
	for _, entry := range featureCriteria {
		if entry.present(signals) {
			continue
		}
		for _, criterion := range entry.criteria {
			set[criterion] = true
		}
	}

	out := make([]string, 0, len(set))
	for criterion := range set {
		out = append(out, criterion)
	}
	sort.Slice(out, func(i, j int) bool { return lessCriterion(out[i], out[j]) })
	return out
}

// IsNotApplicable reports whether a criterion number is in the detected
// not-applicable set.
func IsNotApplicable(notApplicable []string, criterion string) bool {
	for _, na := range notApplicable {
		if na == criterion {
			return true
		}
	}
	return false
}

// lessCriterion orders "2.2" before "11.1" numerically instead of
// lexically.
func lessCriterion(a, b string) bool {
	at, ac := splitCriterion(a)
	bt, bc := splitCriterion(b)
	if at != bt {
		return at < bt
	}
	return ac < bc
}

func splitCriterion(number string) (topic, criterion int) {
	parts := strings.SplitN(number, ".", 2)
	topic, _ = strconv.Atoi(parts[0])
	if len(parts) == 2 {
		criterion, _ = strconv.Atoi(parts[1])
	}
	return topic, criterion
}
