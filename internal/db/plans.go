package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/a11y-audit/internal/types"
)

// ReplacePlan stores a remediation plan for a campaign, replacing any
// previous plan in one transaction. Recomputed plans supersede old ones
// wholesale so item rows never mix generations.
func (db *DB) ReplacePlan(ctx context.Context, plan *types.RemediationPlan) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			fmt.Printf("Warning: failed to rollback transaction: %v\n", rErr)
		}
	}()

	_, _ = tx.Exec(ctx, `DELETE FROM remediation_plans WHERE campaign_id = $1`, plan.CampaignID)

	var planID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO remediation_plans (campaign_id, duration_years, start_year,
		        start_quarter, current_rate, target_rate, generated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		plan.CampaignID, plan.DurationYears, plan.StartYear, plan.StartQuarter,
		plan.CurrentRate, plan.TargetRate, plan.GeneratedAt,
	).Scan(&planID)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	insertItem := func(item types.RemediationItem, scheduled bool) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO remediation_items (id, plan_id, title, severity, category,
			        year, quarter, priority_rank, priority_score, is_quick_win,
			        estimated_effort_hours, impact_score, affected_scope_count,
			        occurrence_count, primary_criterion, secondary_criterion, scheduled)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			item.ID, planID, item.Title, item.Severity, item.Category,
			item.Year, item.Quarter, item.PriorityRank, item.PriorityScore,
			item.IsQuickWin, item.EstimatedEffort, item.ImpactScore,
			item.AffectedScopeCount, item.OccurrenceCount,
			item.PrimaryCriterion, item.SecondaryCriterion, scheduled,
		)
		if err != nil {
			return fmt.Errorf("failed to save plan item %s: %w", item.Title, err)
		}
		return nil
	}

	for _, item := range plan.Items {
		if err := insertItem(item, true); err != nil {
			return err
		}
	}
	for _, item := range plan.Unscheduled {
		if err := insertItem(item, false); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit plan: %w", err)
	}
	return nil
}

// GetPlan retrieves the current remediation plan of a campaign with its
// items and annual breakdown rebuilt. Returns nil when no plan exists.
func (db *DB) GetPlan(ctx context.Context, campaignID uuid.UUID) (*types.RemediationPlan, error) {
	var plan types.RemediationPlan
	var planID uuid.UUID
	err := db.pool.QueryRow(ctx,
		`SELECT id, campaign_id, duration_years, start_year, start_quarter,
		        current_rate, target_rate, generated_at
		 FROM remediation_plans WHERE campaign_id = $1`,
		campaignID,
	).Scan(&planID, &plan.CampaignID, &plan.DurationYears, &plan.StartYear,
		&plan.StartQuarter, &plan.CurrentRate, &plan.TargetRate, &plan.GeneratedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, title, severity, category, year, quarter, priority_rank,
		        priority_score, is_quick_win, estimated_effort_hours, impact_score,
		        affected_scope_count, occurrence_count,
		        primary_criterion, secondary_criterion, scheduled
		 FROM remediation_items WHERE plan_id = $1 ORDER BY priority_rank ASC`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item types.RemediationItem
		var scheduled bool
		if err := rows.Scan(&item.ID, &item.Title, &item.Severity, &item.Category,
			&item.Year, &item.Quarter, &item.PriorityRank, &item.PriorityScore,
			&item.IsQuickWin, &item.EstimatedEffort, &item.ImpactScore,
			&item.AffectedScopeCount, &item.OccurrenceCount,
			&item.PrimaryCriterion, &item.SecondaryCriterion, &scheduled); err != nil {
			return nil, fmt.Errorf("failed to scan plan item: %w", err)
		}
		if scheduled {
			plan.Items = append(plan.Items, item)
		} else {
			plan.Unscheduled = append(plan.Unscheduled, item)
		}
	}

	plan.Annual = buildAnnual(plan.Items)
	return &plan, nil
}

// buildAnnual rebuilds the year/quarter breakdown from flat item rows
func buildAnnual(items []types.RemediationItem) []types.AnnualPlan {
	byYear := make(map[int]map[int][]types.RemediationItem)
	for _, item := range items {
		if byYear[item.Year] == nil {
			byYear[item.Year] = make(map[int][]types.RemediationItem)
		}
		byYear[item.Year][item.Quarter] = append(byYear[item.Year][item.Quarter], item)
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	var annual []types.AnnualPlan
	for _, year := range years {
		ap := types.AnnualPlan{Year: year}
		for quarter := 1; quarter <= 4; quarter++ {
			if quarterItems, ok := byYear[year][quarter]; ok {
				ap.Quarters = append(ap.Quarters, types.QuarterPlan{
					Quarter: quarter,
					Items:   quarterItems,
				})
			}
		}
		annual = append(annual, ap)
	}
	return annual
}
