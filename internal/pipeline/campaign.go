package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/a11y-audit/internal/db"
	"github.com/jonathan/a11y-audit/internal/enrichment"
	"github.com/jonathan/a11y-audit/internal/grouping"
	"github.com/jonathan/a11y-audit/internal/scheduling"
	"github.com/jonathan/a11y-audit/internal/types"
)

// PlanOptions holds configuration for computing a campaign remediation plan
type PlanOptions struct {
	Request     types.PlanRequest
	DatabaseURL string
	// Now anchors the plan to a start quarter; zero means time.Now().
	Now        time.Time
	Verbose    bool
	OnProgress ProgressCallback
}

// loadConcurrency bounds parallel scan loads from the database.
const loadConcurrency = 8

// RunPlan loads a campaign's scans from the database and computes its
// remediation plan, replacing any previous plan.
func RunPlan(ctx context.Context, opts PlanOptions) (*types.RemediationPlan, error) {
	if err := opts.Request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan request: %w", err)
	}

	database, err := db.Connect(ctx, opts.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database failed: %w", err)
	}
	defer database.Close()

	campaign, err := database.GetCampaign(ctx, opts.Request.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("campaign not found: %s", opts.Request.CampaignID)
	}

	scans, err := loadScans(ctx, database, opts)
	if err != nil {
		return nil, &Error{Stage: StagePersist, Cause: err}
	}

	plan, err := ComputePlan(ctx, scans, opts.Request, opts.Now, db.NewGuidanceStore(database))
	if err != nil {
		return nil, &Error{Stage: StageSchedule, Cause: err}
	}

	if err := database.ReplacePlan(ctx, plan); err != nil {
		return nil, &Error{Stage: StagePersist, Cause: err}
	}
	emitProgress(opts.OnProgress, StageSchedule,
		fmt.Sprintf("Scheduled %d items, %d unscheduled", len(plan.Items), len(plan.Unscheduled)),
		"", plan)

	return plan, nil
}

// loadScans fetches the campaign's scans with their issues, a bounded
// number at a time.
func loadScans(ctx context.Context, database *db.DB, opts PlanOptions) ([]types.Scan, error) {
	scans, err := database.ListCampaignScans(ctx, opts.Request.CampaignID)
	if err != nil {
		return nil, err
	}

	// ListCampaignScans already hydrates issues; reload in parallel only
	// for scans whose issues were trimmed by an earlier partial failure.
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i := range scans {
		if scans[i].Issues != nil || scans[i].Status != types.ScanStatusCompleted {
			continue
		}
		g.Go(func() error {
			issues, err := database.GetScanIssues(gCtx, scans[i].ID)
			if err != nil {
				return err
			}
			scans[i].Issues = issues
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scans, nil
}

// ComputePlan turns a campaign's scans into a remediation plan. Only
// completed scans contribute issue groups; the campaign's current
// conformity rate is the mean over completed scans that have one. An
// empty campaign yields an empty plan.
//
// Groups rebuilt from persisted issues carry no enrichment, so when a
// guidance cache is given, cached guidance is merged back into the
// groups before scheduling. Cache misses fall back to keyword guidance;
// the cache is never written at plan time.
func ComputePlan(ctx context.Context, scans []types.Scan, req types.PlanRequest, now time.Time, cache enrichment.Cache) (*types.RemediationPlan, error) {
	if now.IsZero() {
		now = time.Now()
	}

	groups := grouping.Campaign(scans)
	if cache != nil {
		enrichment.NewEnricher(cache, nil, 0).EnrichGroups(ctx, groups)
	}

	return scheduling.BuildPlan(groups, scheduling.Options{
		CampaignID:    req.CampaignID,
		DurationYears: req.DurationYears,
		Now:           now,
		CurrentRate:   campaignRate(scans),
		TargetRate:    req.TargetRate,
	})
}

// campaignRate averages the conformity rates of completed scans. Returns
// nil when no completed scan carries a rate.
func campaignRate(scans []types.Scan) *float64 {
	var sum float64
	var n int
	for _, scan := range scans {
		if scan.Status != types.ScanStatusCompleted || scan.ConformityRate == nil {
			continue
		}
		sum += *scan.ConformityRate
		n++
	}
	if n == 0 {
		return nil
	}
	rate := sum / float64(n)
	return &rate
}
