// Package features derives the applicability feature-signal vector from a
// cheap structural scan of page markup.
package features

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/a11y-audit/internal/types"
)

// Extract parses the page HTML and reports which feature families the
// page actually uses. The scan is structural only: no rendering, no
// scripting, no network access.
func Extract(html string) (*types.FeatureSignals, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	has := func(selector string) bool {
		return doc.Find(selector).Length() > 0
	}

	signals := &types.FeatureSignals{
		HasImages:        has("img, svg, [role='img'], input[type='image']"),
		HasTables:        has("table"),
		HasForms:         has("form, select, textarea") || hasVisibleInput(doc),
		HasVideos:        has("video") || hasVideoEmbed(doc),
		HasAudio:         has("audio"),
		HasIframes:       has("iframe, frame"),
		HasAutoplayAudio: has("audio[autoplay], video[autoplay]"),
		HasTimeLimit:     has("meta[http-equiv='refresh']"),
	}

	signals.HasAnimations = has("marquee, blink, img[src$='.gif']") || hasAnimationClass(doc)
	signals.HasNewWindowLinks = has("a[target='_blank']")

	return signals, nil
}

// hasVisibleInput reports whether the page has at least one non-hidden
// input element.
func hasVisibleInput(doc *goquery.Document) bool {
	found := false
	doc.Find("input").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t, _ := s.Attr("type"); t != "hidden" {
			found = true
			return false
		}
		return true
	})
	return found
}

// videoHosts are embed origins that make an iframe count as video content.
var videoHosts = []string{"youtube", "vimeo", "dailymotion"}

func hasVideoEmbed(doc *goquery.Document) bool {
	found := false
	doc.Find("iframe[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		src = strings.ToLower(src)
		for _, host := range videoHosts {
			if strings.Contains(src, host) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// animationClassMarkers are class-name fragments that usually indicate
// moving content.
var animationClassMarkers = []string{"carousel", "slider", "marquee", "ticker"}

func hasAnimationClass(doc *goquery.Document) bool {
	found := false
	doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		class = strings.ToLower(class)
		for _, marker := range animationClassMarkers {
			if strings.Contains(class, marker) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}
