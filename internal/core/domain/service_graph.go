package domain

import "go.trai.ch/zerr"

// ServiceGraph represents the directed acyclic graph of services.
// Declaration order is preserved so scheduling is deterministic.
type ServiceGraph struct {
	services map[string]Service
	order    []string
}

// NewServiceGraph creates a new empty ServiceGraph.
func NewServiceGraph() *ServiceGraph {
	return &ServiceGraph{
		services: make(map[string]Service),
	}
}

// AddService adds a service declaration to the graph.
// It returns an error if a service with the same name already exists.
func (g *ServiceGraph) AddService(s *Service) error {
	if _, exists := g.services[s.Name]; exists {
		return zerr.With(ErrServiceAlreadyExists, "service", s.Name)
	}
	g.services[s.Name] = *s
	g.order = append(g.order, s.Name)
	return nil
}

// Service returns the service with the given name and whether it exists.
func (g *ServiceGraph) Service(name string) (Service, bool) {
	s, ok := g.services[name]
	return s, ok
}

// Services returns all services in declaration order.
func (g *ServiceGraph) Services() []Service {
	result := make([]Service, 0, len(g.order))
	for _, name := range g.order {
		result = append(result, g.services[name])
	}
	return result
}

// ServiceCount returns the number of declared services.
func (g *ServiceGraph) ServiceCount() int {
	return len(g.services)
}

// Validate checks that every dependency resolves to a declared service and
// that the graph is acyclic. A cycle is a configuration error, rejected
// before any scheduling begins.
func (g *ServiceGraph) Validate() error {
	for _, name := range g.order {
		for _, dep := range g.services[name].DependsOn {
			if _, ok := g.services[dep]; !ok {
				return zerr.With(zerr.With(ErrUnknownServiceReference, "service", name), "reference", dep)
			}
		}
	}
	return detectCycle(g.order, func(name string) []string { return g.services[name].DependsOn }, ErrCyclicService)
}

// Dependents returns the names of services that depend directly on the given
// service, in declaration order.
func (g *ServiceGraph) Dependents(name string) []string {
	var deps []string
	for _, candidate := range g.order {
		for _, dep := range g.services[candidate].DependsOn {
			if dep == name {
				deps = append(deps, candidate)
				break
			}
		}
	}
	return deps
}

// TransitiveDependents returns every service that depends, directly or
// through intermediaries, on the given service, in declaration order.
func (g *ServiceGraph) TransitiveDependents(name string) []string {
	seen := map[string]bool{name: true}
	queue := []string{name}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range g.Dependents(current) {
			if !seen[dep] {
				seen[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	var result []string
	for _, candidate := range g.order {
		if candidate != name && seen[candidate] {
			result = append(result, candidate)
		}
	}
	return result
}
