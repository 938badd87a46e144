// Package domain contains the core domain models and business logic for the
// build stage graph and the service dependency graph.
package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// StageGraph represents the directed acyclic graph of build stages.
// Declaration order is preserved so plans are deterministic and diffable.
type StageGraph struct {
	stages map[string]Stage
	order  []string // declaration order
	topo   []string // populated by Validate
}

// NewStageGraph creates a new empty StageGraph.
func NewStageGraph() *StageGraph {
	return &StageGraph{
		stages: make(map[string]Stage),
	}
}

// AddStage adds a stage declaration to the graph.
// It returns an error if a stage with the same name already exists.
func (g *StageGraph) AddStage(s *Stage) error {
	if _, exists := g.stages[s.Name]; exists {
		return zerr.With(ErrStageAlreadyExists, "stage", s.Name)
	}
	g.stages[s.Name] = *s
	g.order = append(g.order, s.Name)
	return nil
}

// StageCount returns the number of declared stages.
func (g *StageGraph) StageCount() int {
	return len(g.stages)
}

// Validate checks that every stage reference resolves and that the graph is
// acyclic, then populates the topological order. References are checked first
// so an unknown name is reported as such rather than as a traversal failure.
func (g *StageGraph) Validate() error {
	for _, name := range g.order {
		for _, from := range g.stages[name].From {
			if _, ok := g.stages[from]; !ok {
				return zerr.With(zerr.With(ErrUnknownStageReference, "stage", name), "reference", from)
			}
		}
	}

	if err := detectCycle(g.order, func(name string) []string { return g.stages[name].From }, ErrCyclicStage); err != nil {
		return err
	}

	g.topo = topoSort(g.order, func(name string) []string { return g.stages[name].From })
	return nil
}

// Walk returns an iterator that yields stages in topological order,
// ties broken by declaration order. It assumes Validate() returned nil.
func (g *StageGraph) Walk() iter.Seq[Stage] {
	return func(yield func(Stage) bool) {
		for _, name := range g.topo {
			if !yield(g.stages[name]) {
				return
			}
		}
	}
}

// Dependents returns the names of stages that copy artifacts from the given
// stage, in declaration order.
func (g *StageGraph) Dependents(name string) []string {
	var deps []string
	for _, candidate := range g.order {
		for _, from := range g.stages[candidate].From {
			if from == name {
				deps = append(deps, candidate)
				break
			}
		}
	}
	return deps
}

// detectCycle runs a three-color depth-first traversal over the declared
// names: white (unvisited), gray (on the current path), black (done).
// Reaching a gray node closes a cycle; the error carries the cycle path.
func detectCycle(order []string, depsOf func(string) []string, sentinel error) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(order))
	var path []string

	var visit func(u string) error
	visit = func(u string) error {
		color[u] = gray
		path = append(path, u)

		for _, dep := range depsOf(u) {
			if color[dep] == gray {
				return zerr.With(sentinel, "cycle", cyclePath(path, dep))
			}
			if color[dep] == white {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		color[u] = black
		path = path[:len(path)-1]
		return nil
	}

	for _, name := range order {
		if color[name] == white {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// cyclePath renders the portion of the traversal path that closes the cycle.
func cyclePath(path []string, dep string) string {
	start := 0
	for i, node := range path {
		if node == dep {
			start = i
			break
		}
	}
	var b strings.Builder
	for _, node := range path[start:] {
		b.WriteString(node)
		b.WriteString(" -> ")
	}
	b.WriteString(dep)
	return b.String()
}

// topoSort produces a topological order over the declared names using Kahn's
// algorithm, always dispatching the eligible name declared earliest.
// It assumes the graph is acyclic.
func topoSort(order []string, depsOf func(string) []string) []string {
	index := make(map[string]int, len(order))
	for i, name := range order {
		index[name] = i
	}

	inDegree := make(map[string]int, len(order))
	dependents := make(map[string][]string, len(order))
	for _, name := range order {
		deps := depsOf(name)
		inDegree[name] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for _, name := range order {
		if inDegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	result := make([]string, 0, len(order))
	for len(ready) > 0 {
		// Pick the eligible name with the smallest declaration index.
		next := 0
		for i := 1; i < len(ready); i++ {
			if index[ready[i]] < index[ready[next]] {
				next = i
			}
		}
		name := ready[next]
		ready = append(ready[:next], ready[next+1:]...)
		result = append(result, name)

		for _, dep := range dependents[name] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	return result
}
