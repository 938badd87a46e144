package domain

import "time"

// CacheStatus reports whether a stage's previously built artifact remains valid.
type CacheStatus string

const (
	// CacheHit indicates the stage's recorded fingerprint matches and no
	// upstream stage was invalidated.
	CacheHit CacheStatus = "hit"
	// CacheMiss indicates the stage must be rebuilt.
	CacheMiss CacheStatus = "miss"
)

// PlannedStage is one entry of a build plan: a stage plus its cache status.
type PlannedStage struct {
	Stage  Stage
	Status CacheStatus
}

// BuildPlan is the ordered, cache-annotated stage sequence produced by the
// planner. If stage A copies from stage B, A appears after B, and A is a miss
// whenever B is a miss.
type BuildPlan struct {
	Stages []PlannedStage
}

// Misses returns the names of stages that must be rebuilt, in plan order.
func (p *BuildPlan) Misses() []string {
	var names []string
	for _, ps := range p.Stages {
		if ps.Status == CacheMiss {
			names = append(names, ps.Stage.Name)
		}
	}
	return names
}

// Fingerprint is a content-derived digest over a stage's inputs, upstream
// fingerprints and instruction text. Fingerprints are superseded by new
// values, never mutated in place.
type Fingerprint struct {
	Stage      string    `json:"stage,omitzero"`
	Digest     string    `json:"digest,omitzero"`
	RecordedAt time.Time `json:"recorded_at,omitzero"`
}
