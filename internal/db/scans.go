package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/a11y-audit/internal/types"
)

// CreateScan creates a new scan record in pending status and returns its ID
func (db *DB) CreateScan(ctx context.Context, campaignID uuid.UUID, url string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO scans (campaign_id, url, status)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		campaignID, url, types.ScanStatusPending,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create scan: %w", err)
	}
	return id, nil
}

// StartScan marks a scan as running
func (db *DB) StartScan(ctx context.Context, scanID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE scans SET status = $1 WHERE id = $2`,
		types.ScanStatusRunning, scanID,
	)
	if err != nil {
		return fmt.Errorf("failed to start scan: %w", err)
	}
	return nil
}

// SaveIssues stores normalized issues for a scan inside one transaction.
// Existing issues for the scan are replaced so a rerun never duplicates.
func (db *DB) SaveIssues(ctx context.Context, scanID uuid.UUID, issues []types.Issue) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			fmt.Printf("Warning: failed to rollback transaction: %v\n", rErr)
		}
	}()

	_, _ = tx.Exec(ctx, `DELETE FROM issues WHERE scan_id = $1`, scanID)

	for _, issue := range issues {
		_, err = tx.Exec(ctx,
			`INSERT INTO issues (id, scan_id, error_type, source, severity, selector,
			        context, description, primary_criterion, secondary_criterion, page_url)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			issue.ID, scanID, issue.ErrorType, issue.Source, issue.Severity,
			issue.Selector, issue.Context, issue.Description,
			issue.PrimaryCriterion, issue.SecondaryCriterion, issue.PageURL,
		)
		if err != nil {
			return fmt.Errorf("failed to save issue %s: %w", issue.ErrorType, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit issues: %w", err)
	}
	return nil
}

// CompleteScan marks a scan completed and records its conformity summary
func (db *DB) CompleteScan(ctx context.Context, scan *types.Scan) error {
	notApplicable, err := json.Marshal(scan.NonApplicableCriteria)
	if err != nil {
		return fmt.Errorf("failed to marshal non-applicable criteria: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE scans SET status = $1, conformity_rate = $2,
		        critical_count = $3, major_count = $4, minor_count = $5,
		        non_applicable = $6, completed_at = NOW()
		 WHERE id = $7`,
		types.ScanStatusCompleted, scan.ConformityRate,
		scan.CriticalCount, scan.MajorCount, scan.MinorCount,
		notApplicable, scan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete scan: %w", err)
	}
	return nil
}

// FailScan marks a scan failed with an error message. Issues persisted
// before the failure point are kept for inspection.
func (db *DB) FailScan(ctx context.Context, scanID uuid.UUID, errMsg string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE scans SET status = $1, error_message = $2, completed_at = NOW() WHERE id = $3`,
		types.ScanStatusFailed, errMsg, scanID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark scan failed: %w", err)
	}
	return nil
}

// GetScan retrieves a scan with its issues. Returns nil when not found.
func (db *DB) GetScan(ctx context.Context, scanID uuid.UUID) (*types.Scan, error) {
	var scan types.Scan
	var notApplicable []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, campaign_id, url, status, conformity_rate,
		        critical_count, major_count, minor_count,
		        COALESCE(non_applicable, 'null'), COALESCE(error_message, ''),
		        created_at, completed_at
		 FROM scans WHERE id = $1`,
		scanID,
	).Scan(&scan.ID, &scan.CampaignID, &scan.URL, &scan.Status, &scan.ConformityRate,
		&scan.CriticalCount, &scan.MajorCount, &scan.MinorCount,
		&notApplicable, &scan.ErrorMessage, &scan.CreatedAt, &scan.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	if err := json.Unmarshal(notApplicable, &scan.NonApplicableCriteria); err != nil {
		return nil, fmt.Errorf("failed to unmarshal non-applicable criteria: %w", err)
	}

	issues, err := db.GetScanIssues(ctx, scanID)
	if err != nil {
		return nil, err
	}
	scan.Issues = issues

	return &scan, nil
}

// GetScanIssues retrieves the issues belonging to a scan
func (db *DB) GetScanIssues(ctx context.Context, scanID uuid.UUID) ([]types.Issue, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, scan_id, error_type, source, severity, selector,
		        context, description, primary_criterion, secondary_criterion,
		        page_url, created_at
		 FROM issues WHERE scan_id = $1 ORDER BY created_at ASC`,
		scanID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var issues []types.Issue
	for rows.Next() {
		var issue types.Issue
		if err := rows.Scan(&issue.ID, &issue.ScanID, &issue.ErrorType, &issue.Source,
			&issue.Severity, &issue.Selector, &issue.Context, &issue.Description,
			&issue.PrimaryCriterion, &issue.SecondaryCriterion, &issue.PageURL,
			&issue.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// ListCampaignScans retrieves all scans of a campaign, oldest first,
// each with its issues loaded
func (db *DB) ListCampaignScans(ctx context.Context, campaignID uuid.UUID) ([]types.Scan, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id FROM scans WHERE campaign_id = $1 ORDER BY created_at ASC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign scans: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan scan id: %w", err)
		}
		ids = append(ids, id)
	}

	var scans []types.Scan
	for _, id := range ids {
		scan, err := db.GetScan(ctx, id)
		if err != nil {
			return nil, err
		}
		if scan != nil {
			scans = append(scans, *scan)
		}
	}
	return scans, nil
}
