// Package planner implements the build planning and cache invalidation engine.
package planner

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/stevedore/internal/core/domain"
	"go.trai.ch/stevedore/internal/core/ports"
	"go.trai.ch/zerr"
)

// Planner computes build plans: for every stage, in topological order, it
// fingerprints the stage's inputs and decides whether the cached artifact is
// still valid. New fingerprints are held back and written to the store only
// when the caller confirms the plan was executed successfully, so a crashed
// build never poisons the cache.
type Planner struct {
	fingerprinter ports.Fingerprinter
	store         ports.FingerprintStore
	telemetry     ports.Telemetry

	mu      sync.Mutex
	pending map[string]domain.Fingerprint
}

// NewPlanner creates a new Planner.
func NewPlanner(fingerprinter ports.Fingerprinter, store ports.FingerprintStore, telemetry ports.Telemetry) *Planner {
	return &Planner{
		fingerprinter: fingerprinter,
		store:         store,
		telemetry:     telemetry,
	}
}

// Plan validates the stage graph and returns the ordered, cache-annotated
// build plan. A stage is a hit only if its fingerprint matches the store's
// last-committed value and every stage it copies from is itself a hit: a
// changed intermediate artifact invalidates everything built on top of it,
// even if nothing else about the downstream stage changed.
func (p *Planner) Plan(ctx context.Context, graph *domain.StageGraph, root string) (*domain.BuildPlan, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	digests := make(map[string]string, graph.StageCount())
	hits := make(map[string]bool, graph.StageCount())
	pending := make(map[string]domain.Fingerprint, graph.StageCount())
	plan := &domain.BuildPlan{Stages: make([]domain.PlannedStage, 0, graph.StageCount())}

	for stage := range graph.Walk() {
		if err := ctx.Err(); err != nil {
			return nil, zerr.Wrap(err, "build planning canceled")
		}

		_, vertex := p.telemetry.Record(ctx, "plan "+stage.Name)

		status, digest, err := p.evaluateStage(&stage, digests, hits, root)
		if err != nil {
			vertex.Complete(err)
			return nil, err
		}

		digests[stage.Name] = digest
		hits[stage.Name] = status == domain.CacheHit
		pending[stage.Name] = domain.Fingerprint{
			Stage:      stage.Name,
			Digest:     digest,
			RecordedAt: time.Now(),
		}
		plan.Stages = append(plan.Stages, domain.PlannedStage{Stage: stage, Status: status})

		if status == domain.CacheHit {
			vertex.Cached()
		}
		vertex.Complete(nil)
	}

	p.mu.Lock()
	p.pending = pending
	p.mu.Unlock()

	return plan, nil
}

// evaluateStage computes the stage's fingerprint and compares it against the
// store. Upstream digests are passed in the stage's From order.
func (p *Planner) evaluateStage(stage *domain.Stage, digests map[string]string, hits map[string]bool, root string) (domain.CacheStatus, string, error) {
	upstream := make([]string, len(stage.From))
	upstreamHit := true
	for i, from := range stage.From {
		upstream[i] = digests[from]
		if !hits[from] {
			upstreamHit = false
		}
	}

	digest, err := p.fingerprinter.FingerprintStage(stage, upstream, root)
	if err != nil {
		return domain.CacheMiss, "", err
	}

	last, err := p.store.Get(stage.Name)
	if err != nil {
		return domain.CacheMiss, "", err
	}

	if upstreamHit && last != nil && last.Digest == digest {
		return domain.CacheHit, digest, nil
	}
	return domain.CacheMiss, digest, nil
}

// Commit writes the fingerprints computed by the last Plan call to the store
// in a single batch. Callers invoke it only after the execution phase
// confirmed successful completion.
func (p *Planner) Commit() error {
	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	return p.store.Commit(pending)
}

// Discard drops uncommitted fingerprints, for aborted or failed runs.
func (p *Planner) Discard() {
	p.mu.Lock()
	p.pending = nil
	p.mu.Unlock()
}
