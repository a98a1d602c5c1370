package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/a11y-audit/internal/enrichment"
)

// GuidanceStore is the database-backed enrichment cache. Unlike the
// run-scoped in-memory cache it survives across campaigns, so a
// fingerprint consulted once is never sent to the AI collaborator again.
// Hit/miss counters are process-local.
type GuidanceStore struct {
	db     *DB
	hits   atomic.Int64
	misses atomic.Int64
}

// NewGuidanceStore creates a guidance cache over the database.
func NewGuidanceStore(database *DB) *GuidanceStore {
	return &GuidanceStore{db: database}
}

// Get returns persisted guidance for a fingerprint, if present.
func (s *GuidanceStore) Get(ctx context.Context, fingerprint string) (*enrichment.Guidance, bool, error) {
	var recommendation, codeFix, impact string
	var refs []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT recommendation, COALESCE(code_fix, ''), COALESCE(impact_description, ''),
		        COALESCE(standard_refs, 'null')
		 FROM guidance_cache WHERE fingerprint = $1`,
		fingerprint,
	).Scan(&recommendation, &codeFix, &impact, &refs)
	if err != nil {
		if err == pgx.ErrNoRows {
			s.misses.Add(1)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get guidance: %w", err)
	}

	guidance := enrichment.Guidance{
		Fingerprint:       fingerprint,
		Recommendation:    recommendation,
		CodeFix:           codeFix,
		ImpactDescription: impact,
	}
	if err := json.Unmarshal(refs, &guidance.StandardRefs); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal standard refs: %w", err)
	}

	s.hits.Add(1)
	return &guidance, true, nil
}

// Put upserts guidance for a fingerprint.
func (s *GuidanceStore) Put(ctx context.Context, fingerprint string, guidance enrichment.Guidance) error {
	refs, err := json.Marshal(guidance.StandardRefs)
	if err != nil {
		return fmt.Errorf("failed to marshal standard refs: %w", err)
	}

	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO guidance_cache (fingerprint, recommendation, code_fix, impact_description, standard_refs)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (fingerprint) DO UPDATE SET recommendation = $2, code_fix = $3,
		        impact_description = $4, standard_refs = $5, created_at = NOW()`,
		fingerprint, guidance.Recommendation, guidance.CodeFix, guidance.ImpactDescription, refs,
	)
	if err != nil {
		return fmt.Errorf("failed to save guidance: %w", err)
	}
	return nil
}

// Clear removes every cached guidance entry.
func (s *GuidanceStore) Clear(ctx context.Context) error {
	if _, err := s.db.pool.Exec(ctx, `DELETE FROM guidance_cache`); err != nil {
		return fmt.Errorf("failed to clear guidance cache: %w", err)
	}
	s.hits.Store(0)
	s.misses.Store(0)
	return nil
}

// Stats returns the process-local hit/miss counters.
func (s *GuidanceStore) Stats() enrichment.CacheStats {
	return enrichment.CacheStats{Hits: s.hits.Load(), Misses: s.misses.Load()}
}
