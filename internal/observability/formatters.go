// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/a11y-audit/internal/conformity"
	"github.com/jonathan/a11y-audit/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintFeatureSignals outputs which page features were detected.
func (p *Printer) PrintFeatureSignals(signals *types.FeatureSignals) {
	if signals == nil {
		return
	}

	flag := func(present bool) string {
		if present {
			return "yes"
		}
		return "no"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Images:      %-4s Tables:     %-4s Forms:    %s\n",
		flag(signals.HasImages), flag(signals.HasTables), flag(signals.HasForms)))
	sb.WriteString(fmt.Sprintf("Videos:      %-4s Audio:      %-4s Iframes:  %s\n",
		flag(signals.HasVideos), flag(signals.HasAudio), flag(signals.HasIframes)))
	sb.WriteString(fmt.Sprintf("Animations:  %-4s Autoplay:   %-4s Timers:   %s\n",
		flag(signals.HasAnimations), flag(signals.HasAutoplayAudio), flag(signals.HasTimeLimit)))
	sb.WriteString(fmt.Sprintf("New-window links: %s", flag(signals.HasNewWindowLinks)))

	p.printBox("PAGE FEATURES", sb.String())
}

// PrintGroups outputs the top issue groups with scores and criteria.
func (p *Printer) PrintGroups(groups []*types.IssueGroup) {
	if len(groups) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total groups: %d\n\n", len(groups)))

	count := min(len(groups), maxItemsToShow)
	for i := 0; i < count; i++ {
		group := groups[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, group.ErrorType))
		sb.WriteString(fmt.Sprintf("    Score: %d  Severity: %s  Occurrences: %d\n",
			group.PriorityScore, group.Severity, group.OccurrenceCount()))
		if group.PrimaryCriterion != "" {
			sb.WriteString(fmt.Sprintf("    Criterion: %s", group.PrimaryCriterion))
			if group.SecondaryCriterion != "" {
				sb.WriteString(fmt.Sprintf(" (WCAG %s)", group.SecondaryCriterion))
			}
			sb.WriteString("\n")
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(groups) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(groups)-maxItemsToShow))
	}

	p.printBox("ISSUE GROUPS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintConformity outputs the conformity computation summary.
func (p *Printer) PrintConformity(result *conformity.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if result.Rate != nil {
		sb.WriteString(fmt.Sprintf("Rate:            %.2f%%\n", *result.Rate))
	} else {
		sb.WriteString("Rate:            n/a (no applicable criteria)\n")
	}
	sb.WriteString(fmt.Sprintf("Applicable:      %d\n", result.ApplicableCount))
	sb.WriteString(fmt.Sprintf("Conforming:      %d\n", result.ConformingCount))
	sb.WriteString(fmt.Sprintf("Non-conforming:  %d\n", len(result.NonConforming)))
	sb.WriteString(fmt.Sprintf("Not applicable:  %d", len(result.NotApplicable)))
	if result.UncategorizedIss > 0 {
		sb.WriteString(fmt.Sprintf("\nUncategorized groups: %d", result.UncategorizedIss))
	}

	p.printBox("CONFORMITY", sb.String())
}

// PrintPlan outputs the remediation plan quarter by quarter.
func (p *Printer) PrintPlan(plan *types.RemediationPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Window:    Q%d %d, %d year(s)\n",
		plan.StartQuarter, plan.StartYear, plan.DurationYears))
	if plan.CurrentRate != nil {
		sb.WriteString(fmt.Sprintf("Rate:      %.2f%% -> target %.2f%%\n", *plan.CurrentRate, plan.TargetRate))
	}
	sb.WriteString(fmt.Sprintf("Items:     %d scheduled", len(plan.Items)))
	if len(plan.Unscheduled) > 0 {
		sb.WriteString(fmt.Sprintf(", %d unscheduled", len(plan.Unscheduled)))
	}
	sb.WriteString("\n")

	for _, annual := range plan.Annual {
		sb.WriteString(fmt.Sprintf("\n%d:\n", annual.Year))
		for _, quarter := range annual.Quarters {
			quickWins := 0
			for _, item := range quarter.Items {
				if item.IsQuickWin {
					quickWins++
				}
			}
			sb.WriteString(fmt.Sprintf("  Q%d: %d item(s)", quarter.Quarter, len(quarter.Items)))
			if quickWins > 0 {
				sb.WriteString(fmt.Sprintf(" (%d quick win(s))", quickWins))
			}
			sb.WriteString("\n")
		}
	}

	p.printBox("REMEDIATION PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCacheStats outputs enrichment cache counters.
func (p *Printer) PrintCacheStats(hits, misses int64) {
	content := fmt.Sprintf("Hits:   %d\nMisses: %d", hits, misses)
	p.printBox("ENRICHMENT CACHE", content)
}
