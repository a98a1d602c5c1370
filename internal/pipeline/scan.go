// Package pipeline provides the high-level orchestration for the audit
// aggregation process.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/a11y-audit/internal/applicability"
	"github.com/jonathan/a11y-audit/internal/conformity"
	"github.com/jonathan/a11y-audit/internal/db"
	"github.com/jonathan/a11y-audit/internal/enrichment"
	"github.com/jonathan/a11y-audit/internal/features"
	"github.com/jonathan/a11y-audit/internal/fetch"
	"github.com/jonathan/a11y-audit/internal/grouping"
	"github.com/jonathan/a11y-audit/internal/normalize"
	"github.com/jonathan/a11y-audit/internal/observability"
	"github.com/jonathan/a11y-audit/internal/scoring"
	"github.com/jonathan/a11y-audit/internal/taxonomy"
	"github.com/jonathan/a11y-audit/internal/types"
)

// Pipeline stage names used in progress events and errors.
const (
	StageFetch         = "fetch"
	StageFeatures      = "features"
	StageNormalize     = "normalize"
	StageGroup         = "group"
	StageEnrich        = "enrich"
	StageScore         = "score"
	StageApplicability = "applicability"
	StageConformity    = "conformity"
	StagePersist       = "persist"
	StageSchedule      = "schedule"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	ScanID  string `json:"scan_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Error marks which pipeline stage failed. The scan record is moved to
// failed status with this message; issues persisted before the failure
// point are kept.
type Error struct {
	Stage string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline stage %s failed: %v", e.Stage, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ScanOptions holds configuration for running one page audit
type ScanOptions struct {
	CampaignID uuid.UUID
	URL        string
	// HTML short-circuits fetching when the page markup is already
	// available (tests, offline runs).
	HTML string
	// Results is the raw output of the external checkers for this page.
	Results     []normalize.CheckResult
	APIKey      string
	UseBrowser  bool
	Verbose     bool
	DatabaseURL string
	// Cache overrides the default run-scoped enrichment cache.
	Cache enrichment.Cache
	// Gateway overrides the default Gemini-backed advisor. A nil gateway
	// with no API key means keyword fallback guidance only.
	Gateway    enrichment.Gateway
	Taxonomy   *taxonomy.Reference
	OnProgress ProgressCallback
}

// ScanOutcome bundles everything one audit produced.
type ScanOutcome struct {
	Scan       *types.Scan
	Groups     []*types.IssueGroup
	Signals    *types.FeatureSignals
	Conformity *conformity.Result
}

// emitProgress calls the progress callback if configured
func emitProgress(cb ProgressCallback, stage, message, scanID string, content any) {
	if cb != nil {
		cb(ProgressEvent{
			Stage:   stage,
			Message: message,
			ScanID:  scanID,
			Content: content,
		})
	}
}

// RunScan orchestrates the full single-page audit pipeline: fetch,
// feature detection, normalization, grouping, enrichment, scoring,
// applicability and conformity. The scan record moves pending -> running
// -> completed, or to failed with the stage error preserved.
func RunScan(ctx context.Context, opts ScanOptions) (*ScanOutcome, error) {
	printer := observability.NewPrinter(os.Stdout)

	ref := opts.Taxonomy
	if ref == nil {
		var err error
		ref, err = taxonomy.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("loading criteria reference failed: %w", err)
		}
	}

	// Initialize database connection if configured
	var database *db.DB
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
		} else {
			defer database.Close()
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Connected to database\n")
			}
		}
	}

	scan := &types.Scan{
		ID:         uuid.New(),
		CampaignID: opts.CampaignID,
		URL:        opts.URL,
		Status:     types.ScanStatusRunning,
	}
	if database != nil {
		id, err := database.CreateScan(ctx, opts.CampaignID, opts.URL)
		if err != nil {
			fmt.Printf("Warning: Failed to create scan record: %v\n", err)
		} else {
			scan.ID = id
			_ = database.StartScan(ctx, id)
		}
	}

	fail := func(stage string, cause error) (*ScanOutcome, error) {
		perr := &Error{Stage: stage, Cause: cause}
		scan.Status = types.ScanStatusFailed
		scan.ErrorMessage = perr.Error()
		if database != nil {
			_ = database.FailScan(ctx, scan.ID, perr.Error())
		}
		return &ScanOutcome{Scan: scan}, perr
	}

	// Step 1: Fetch the page markup unless provided directly
	html := opts.HTML
	if html == "" && opts.URL != "" {
		fmt.Printf("Step 1/7: Fetching page: %s...\n", opts.URL)
		fetchOpts := fetch.DefaultOptions()
		fetchOpts.UseBrowser = opts.UseBrowser
		fetchOpts.Verbose = opts.Verbose
		result, err := fetch.Page(ctx, opts.URL, fetchOpts)
		if err != nil {
			return fail(StageFetch, err)
		}
		html = result.HTML
		emitProgress(opts.OnProgress, StageFetch,
			fmt.Sprintf("Fetched %d bytes (rendered=%t)", len(html), result.Rendered),
			scan.ID.String(), nil)
	}

	// Step 2: Extract structural feature signals for applicability
	var signals *types.FeatureSignals
	if html != "" {
		fmt.Printf("Step 2/7: Detecting page features...\n")
		var err error
		signals, err = features.Extract(html)
		if err != nil {
			return fail(StageFeatures, err)
		}
		if opts.Verbose {
			printer.PrintFeatureSignals(signals)
		}
	}
	scan.NonApplicableCriteria = applicability.Detect(signals)
	emitProgress(opts.OnProgress, StageApplicability,
		fmt.Sprintf("%d criteria not applicable", len(scan.NonApplicableCriteria)),
		scan.ID.String(), nil)

	// Step 3: Normalize raw checker findings into issues
	fmt.Printf("Step 3/7: Normalizing %d checker result sets...\n", len(opts.Results))
	scan.Issues = normalize.Results(scan.ID, opts.URL, opts.Results)
	scan.CountBySeverity()
	if database != nil {
		if err := database.SaveIssues(ctx, scan.ID, scan.Issues); err != nil {
			return fail(StagePersist, err)
		}
	}
	emitProgress(opts.OnProgress, StageNormalize,
		fmt.Sprintf("Normalized %d issues", len(scan.Issues)), scan.ID.String(), nil)

	// Step 4: Group and classify
	fmt.Printf("Step 4/7: Grouping issues...\n")
	groups := grouping.Issues(scan.Issues)
	emitProgress(opts.OnProgress, StageGroup,
		fmt.Sprintf("Collapsed %d issues into %d groups", len(scan.Issues), len(groups)),
		scan.ID.String(), nil)

	// Step 5: Enrich groups with remediation guidance
	fmt.Printf("Step 5/7: Enriching %d groups...\n", len(groups))
	cache := opts.Cache
	if cache == nil {
		cache = enrichment.NewMemoryCache()
	}
	gateway := opts.Gateway
	if gateway == nil && opts.APIKey != "" {
		gw, err := enrichment.NewGeminiGateway(ctx, opts.APIKey, "")
		if err != nil {
			fmt.Printf("Warning: Failed to initialize AI gateway: %v\n", err)
			fmt.Printf("Continuing with keyword fallback guidance...\n")
		} else {
			defer gw.Close()
			gateway = gw
		}
	}
	enricher := enrichment.NewEnricher(cache, gateway, 0)
	enricher.EnrichGroups(ctx, groups)
	stats := enricher.Stats()
	emitProgress(opts.OnProgress, StageEnrich,
		fmt.Sprintf("Enriched groups (cache hits=%d misses=%d)", stats.Hits, stats.Misses),
		scan.ID.String(), nil)

	// Step 6: Score priorities and fix heuristics
	fmt.Printf("Step 6/7: Scoring groups...\n")
	for _, group := range groups {
		if group.Complexity == "" {
			group.Complexity = scoring.ComplexityOf(group.ErrorType, group.Recommendation)
		}
		group.PriorityScore = scoring.Priority(group)
	}
	if opts.Verbose {
		printer.PrintGroups(groups)
	}
	emitProgress(opts.OnProgress, StageScore,
		fmt.Sprintf("Scored %d groups", len(groups)), scan.ID.String(), nil)

	// Step 7: Conformity rate
	fmt.Printf("Step 7/7: Computing conformity rate...\n")
	result := conformity.Compute(groups, scan.NonApplicableCriteria, ref)
	scan.ConformityRate = result.Rate
	if opts.Verbose {
		printer.PrintConformity(result)
	}
	emitProgress(opts.OnProgress, StageConformity,
		fmt.Sprintf("Conformity: %d/%d applicable criteria conforming",
			result.ConformingCount, result.ApplicableCount),
		scan.ID.String(), result)

	scan.Status = types.ScanStatusCompleted
	if database != nil {
		if err := database.CompleteScan(ctx, scan); err != nil {
			return fail(StagePersist, err)
		}
	}

	return &ScanOutcome{
		Scan:       scan,
		Groups:     groups,
		Signals:    signals,
		Conformity: result,
	}, nil
}
