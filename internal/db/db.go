// Package db provides PostgreSQL persistence for campaigns, scans,
// issues and remediation plans.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateCampaign creates a new audit campaign record and returns its ID
func (db *DB) CreateCampaign(ctx context.Context, name, domain string, durationYears int, targetRate float64) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO campaigns (name, domain, duration_years, target_rate, status)
		 VALUES ($1, $2, $3, $4, 'active')
		 RETURNING id`,
		name, domain, durationYears, targetRate,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return id, nil
}

// GetCampaign retrieves a campaign by ID. Returns nil when not found.
func (db *DB) GetCampaign(ctx context.Context, campaignID uuid.UUID) (*Campaign, error) {
	var c Campaign
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, domain, duration_years, target_rate, status, created_at, completed_at
		 FROM campaigns WHERE id = $1`,
		campaignID,
	).Scan(&c.ID, &c.Name, &c.Domain, &c.DurationYears, &c.TargetRate, &c.Status, &c.CreatedAt, &c.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &c, nil
}

// CompleteCampaign marks a campaign with a terminal status
func (db *DB) CompleteCampaign(ctx context.Context, campaignID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE campaigns SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, campaignID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete campaign: %w", err)
	}
	return nil
}

// CampaignFilters holds optional filters for listing campaigns
type CampaignFilters struct {
	Domain string
	Status string
	Limit  int
}

// ListCampaigns retrieves campaigns with optional filters
func (db *DB) ListCampaigns(ctx context.Context, filters CampaignFilters) ([]Campaign, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, name, domain, duration_years, target_rate, status, created_at, completed_at
		FROM campaigns WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Domain != "" {
		query += fmt.Sprintf(" AND domain ILIKE $%d", argNum)
		args = append(args, "%"+filters.Domain+"%")
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Domain, &c.DurationYears, &c.TargetRate, &c.Status, &c.CreatedAt, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

// DeleteCampaign deletes a campaign and all its scans, issues and plans
// (via cascade)
func (db *DB) DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, campaignID)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("campaign not found: %s", campaignID)
	}
	return nil
}
