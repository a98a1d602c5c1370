package enrichment

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/a11y-audit/internal/normalize"
	"github.com/jonathan/a11y-audit/internal/taxonomy"
	"github.com/jonathan/a11y-audit/internal/types"
)

const defaultConcurrency = 4

// Enricher merges remediation guidance into issue groups, consulting the
// AI gateway at most once per distinct fingerprint. The cache is injected
// so its lifecycle (one run, or a long-lived store) is the caller's
// decision.
type Enricher struct {
	cache       Cache
	gateway     Gateway
	concurrency int

	mu       sync.Mutex
	inflight map[string]chan struct{}
}

// NewEnricher creates an enricher over a cache and a gateway. A nil
// gateway disables AI consultation entirely; groups then receive fallback
// recommendations only.
func NewEnricher(cache Cache, gateway Gateway, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Enricher{
		cache:       cache,
		gateway:     gateway,
		concurrency: concurrency,
		inflight:    make(map[string]chan struct{}),
	}
}

// EnrichGroups merges guidance into every group, fetching missing
// fingerprints from the gateway with bounded fan-out. Gateway failures
// never abort the scan: affected groups get a deterministic fallback
// recommendation instead. Groups sharing a fingerprint all receive the
// same guidance, including groups first seen after the cache entry was
// created.
func (e *Enricher) EnrichGroups(ctx context.Context, groups []*types.IssueGroup) {
	// Deduplicate fingerprints, keeping the first group as prompt sample.
	type pending struct {
		request Request
		groups  []*types.IssueGroup
	}
	order := make([]string, 0, len(groups))
	byFingerprint := make(map[string]*pending)
	for _, group := range groups {
		fp := GroupFingerprint(group)
		p, ok := byFingerprint[fp]
		if !ok {
			req := Request{Fingerprint: fp, ErrorType: group.ErrorType}
			if rep := group.Representative(); rep != nil {
				req.Description = rep.Description
				req.SampleContext = rep.Context
			}
			p = &pending{request: req}
			byFingerprint[fp] = p
			order = append(order, fp)
		}
		p.groups = append(p.groups, group)
	}

	guidance := make(map[string]*Guidance, len(order))
	var guidanceMu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, fp := range order {
		p := byFingerprint[fp]
		g.Go(func() error {
			if advice := e.resolve(gCtx, p.request); advice != nil {
				guidanceMu.Lock()
				guidance[p.request.Fingerprint] = advice
				guidanceMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures become fallbacks

	for fp, p := range byFingerprint {
		advice := guidance[fp]
		for _, group := range p.groups {
			if advice != nil {
				applyGuidance(group, advice)
			} else {
				applyFallback(group)
			}
		}
	}
}

// resolve returns guidance for one fingerprint, consulting the cache
// first. Concurrent callers for the same fingerprint are serialized: the
// first populates the cache, the rest reuse its entry.
func (e *Enricher) resolve(ctx context.Context, req Request) *Guidance {
	for {
		if cached, ok, err := e.cache.Get(ctx, req.Fingerprint); err == nil && ok {
			return cached
		}

		e.mu.Lock()
		wait, running := e.inflight[req.Fingerprint]
		if !running {
			done := make(chan struct{})
			e.inflight[req.Fingerprint] = done
			e.mu.Unlock()

			advice := e.consult(ctx, req)

			e.mu.Lock()
			delete(e.inflight, req.Fingerprint)
			close(done)
			e.mu.Unlock()
			return advice
		}
		e.mu.Unlock()

		select {
		case <-wait:
			// first caller finished; loop to re-check the cache
		case <-ctx.Done():
			return nil
		}
	}
}

func (e *Enricher) consult(ctx context.Context, req Request) *Guidance {
	if e.gateway == nil {
		return nil
	}
	advice, err := e.gateway.Advise(ctx, req)
	if err != nil || advice == nil {
		return nil
	}
	if putErr := e.cache.Put(ctx, req.Fingerprint, *advice); putErr != nil {
		// The guidance is still usable for this run even if the store
		// rejected it.
		return advice
	}
	return advice
}

func applyGuidance(group *types.IssueGroup, advice *Guidance) {
	group.Recommendation = advice.Recommendation
	group.CodeFix = advice.CodeFix
	group.ImpactDescription = advice.ImpactDescription
	group.Enriched = true

	// AI guidance may supply criteria the checkers could not.
	primary, secondary := normalize.SplitRefs(advice.StandardRefs)
	if group.PrimaryCriterion == "" {
		if truncated := taxonomy.TruncateCriterion(primary); truncated != "" {
			group.PrimaryCriterion = truncated
			if group.TopicNumber == taxonomy.TopicUncategorized {
				group.TopicNumber = taxonomy.TopicOf(truncated)
			}
		}
	}
	if group.SecondaryCriterion == "" && secondary != "" {
		group.SecondaryCriterion = secondary
		if group.TopicNumber == taxonomy.TopicUncategorized {
			group.TopicNumber = taxonomy.SecondaryTopic(secondary)
		}
	}
}

func applyFallback(group *types.IssueGroup) {
	if group.Recommendation != "" {
		return
	}
	group.Recommendation = Fallback(group.ErrorType).Recommendation
}

// Stats exposes the underlying cache counters.
func (e *Enricher) Stats() CacheStats {
	return e.cache.Stats()
}
