// Package scheduler implements the service startup scheduler.
package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.trai.ch/stevedore/internal/core/domain"
	"go.trai.ch/stevedore/internal/core/ports"
	"go.trai.ch/zerr"
)

// Scheduler drives service startup in dependency order. A service enters
// Starting only once every service in its dependency set is Healthy;
// independent services start concurrently. State transitions are emitted as
// a stream; only the scheduler mutates service state.
//
// A service declared without a health check is considered Healthy as soon as
// it starts.
type Scheduler struct {
	prober    ports.Prober
	logger    ports.Logger
	telemetry ports.Telemetry

	mu    sync.RWMutex
	state map[string]domain.ServiceState

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	runErr  error
}

// NewScheduler creates a new Scheduler.
func NewScheduler(prober ports.Prober, logger ports.Logger, telemetry ports.Telemetry) *Scheduler {
	return &Scheduler{
		prober:    prober,
		logger:    logger,
		telemetry: telemetry,
		state:     make(map[string]domain.ServiceState),
	}
}

// State returns the current state of a service.
func (s *Scheduler) State(name string) domain.ServiceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.state[name]; ok {
		return st
	}
	return domain.StatePending
}

// Schedule validates the service graph and the resource budget, then drives
// startup in the background, returning the stream of state transitions.
// Structural errors (cycles, unknown references, invalid resource
// declarations, budget overrun) are returned before any service starts.
//
// Schedule is idempotent: re-invoking it against a partially-Healthy graph
// only acts on services that are not yet Healthy and never restarts a
// Healthy service. Services left Stopped by an aborted run are restarted.
func (s *Scheduler) Schedule(ctx context.Context, graph *domain.ServiceGraph, budget domain.ResourceBudget) (<-chan domain.Transition, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateResources(graph.Services(), budget); err != nil {
		return nil, err
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.running {
		return nil, zerr.New("schedule already in progress")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})
	s.runErr = nil

	s.mu.Lock()
	for _, svc := range graph.Services() {
		st, ok := s.state[svc.Name]
		// Stopped is not sticky: an aborted service restarts on the next
		// invocation. Failed stays Failed and keeps blocking dependents.
		if !ok || st == domain.StateStopped {
			s.state[svc.Name] = domain.StatePending
		}
	}
	s.mu.Unlock()

	// Each service emits at most four transitions plus a Stopped one, so the
	// buffer guarantees the run loop never blocks on a slow consumer.
	events := make(chan domain.Transition, graph.ServiceCount()*6)

	go func() {
		defer cancel()
		err := s.run(runCtx, graph, events)
		close(events)

		s.runMu.Lock()
		s.running = false
		s.runErr = err
		close(s.done)
		s.runMu.Unlock()
	}()

	return events, nil
}

// Abort signals the current run to stop. All non-terminal services
// transition to Stopped.
func (s *Scheduler) Abort() {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait blocks until the current run reaches a stable or failed terminal
// state and returns its result.
func (s *Scheduler) Wait() error {
	s.runMu.Lock()
	done := s.done
	s.runMu.Unlock()
	if done == nil {
		return nil
	}
	<-done

	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.runErr
}

type result struct {
	service string
	err     error
}

type runState struct {
	graph     *domain.ServiceGraph
	declIndex map[string]int
	inDegree  map[string]int
	blockedBy map[string]string // service -> failed ancestor
	ready     []string
	active    int
	results   chan result
	errs      error
	events    chan<- domain.Transition
	s         *Scheduler
}

func (s *Scheduler) run(ctx context.Context, graph *domain.ServiceGraph, events chan<- domain.Transition) error {
	state := s.newRunState(graph, events)

	for !state.isDone() {
		if ctx.Err() != nil {
			// Canceled: nothing new starts, drain the in-flight services.
			if state.active == 0 {
				break
			}
			state.handleResult(<-state.results)
			continue
		}

		state.dispatch(ctx)
		if state.isDone() {
			break
		}

		select {
		case res := <-state.results:
			state.handleResult(res)
		case <-ctx.Done():
		}
	}

	state.finish(ctx)
	return state.errs
}

func (s *Scheduler) newRunState(graph *domain.ServiceGraph, events chan<- domain.Transition) *runState {
	count := graph.ServiceCount()
	state := &runState{
		graph:     graph,
		declIndex: make(map[string]int, count),
		inDegree:  make(map[string]int, count),
		blockedBy: make(map[string]string),
		results:   make(chan result, count),
		events:    events,
		s:         s,
	}

	for i, svc := range graph.Services() {
		state.declIndex[svc.Name] = i
		if s.State(svc.Name) == domain.StateHealthy {
			continue // already up, never restarted
		}

		degree := 0
		for _, dep := range svc.DependsOn {
			if s.State(dep) != domain.StateHealthy {
				degree++
			}
		}
		state.inDegree[svc.Name] = degree
		if degree == 0 {
			state.ready = append(state.ready, svc.Name)
		}
	}

	// A service left Failed by an earlier run still blocks its dependents.
	for _, svc := range graph.Services() {
		if s.State(svc.Name) == domain.StateFailed {
			state.blockDependents(svc.Name)
		}
	}

	return state
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

// dispatch starts every eligible service. Simultaneously-eligible services
// are dispatched in declaration order so behavior stays deterministic.
func (state *runState) dispatch(ctx context.Context) {
	sort.Slice(state.ready, func(i, j int) bool {
		return state.declIndex[state.ready[i]] < state.declIndex[state.ready[j]]
	})

	for len(state.ready) > 0 && ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		if state.blockedBy[name] != "" || state.s.State(name) != domain.StatePending {
			continue
		}

		svc, ok := state.graph.Service(name)
		if !ok {
			continue
		}

		state.active++
		go state.startService(ctx, svc)
	}
}

// startService walks one service through its state machine:
// Starting, then HealthChecking (when a probe is configured), then Healthy
// or Failed. On abort the service transitions to Stopped instead.
func (state *runState) startService(ctx context.Context, svc domain.Service) {
	vctx, vertex := state.s.telemetry.Record(ctx, "start "+svc.Name)

	state.s.transition(state.events, svc.Name, domain.StateStarting, nil)

	var err error
	if svc.Health != nil {
		state.s.transition(state.events, svc.Name, domain.StateHealthChecking, nil)
		err = state.s.healthCheck(vctx, svc)
	}

	switch {
	case err == nil:
		state.s.transition(state.events, svc.Name, domain.StateHealthy, nil)
	case ctx.Err() != nil:
		err = zerr.With(domain.ErrScheduleAborted, "service", svc.Name)
		state.s.transition(state.events, svc.Name, domain.StateStopped, err)
	default:
		state.s.transition(state.events, svc.Name, domain.StateFailed, err)
	}

	vertex.Complete(err)
	state.results <- result{service: svc.Name, err: err}
}

// healthCheck probes the service until it passes, the retry budget is
// exhausted, or the phase timeout elapses.
func (s *Scheduler) healthCheck(ctx context.Context, svc domain.Service) error {
	hc := svc.Health
	phaseCtx, cancel := context.WithTimeout(ctx, hc.Timeout)
	defer cancel()

	exhausted := func() error {
		err := zerr.With(domain.ErrHealthCheckExhausted, "service", svc.Name)
		return zerr.With(err, "retries", hc.Retries)
	}

	remaining := hc.Retries
	for {
		if err := s.prober.Probe(phaseCtx, hc); err == nil {
			return nil
		} else if s.logger != nil {
			s.logger.Warn("health probe failed for " + svc.Name)
		}

		remaining--
		if remaining <= 0 {
			return exhausted()
		}

		select {
		case <-time.After(hc.Interval):
		case <-phaseCtx.Done():
			return exhausted()
		}
	}
}

func (state *runState) handleResult(res result) {
	state.active--

	if res.err != nil {
		state.errs = errors.Join(state.errs, res.err)
		if state.s.State(res.service) == domain.StateFailed {
			state.blockDependents(res.service)
		}
		return
	}

	for _, dep := range state.graph.Dependents(res.service) {
		if _, tracked := state.inDegree[dep]; !tracked {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}

// blockDependents records a DependencyFailedError for every transitive
// dependent of a failed service. Blocked services never leave Pending; the
// blocked set is reported explicitly rather than hanging silently.
func (state *runState) blockDependents(failed string) {
	for _, dep := range state.graph.TransitiveDependents(failed) {
		if state.blockedBy[dep] != "" || state.s.State(dep) != domain.StatePending {
			continue
		}
		state.blockedBy[dep] = failed

		err := zerr.With(domain.ErrDependencyFailed, "service", dep)
		state.errs = errors.Join(state.errs, zerr.With(err, "failed_dependency", failed))
		if state.s.logger != nil {
			state.s.logger.Warn("service " + dep + " blocked: dependency " + failed + " failed")
		}
	}
}

// finish transitions every service that never got dispatched to Stopped on
// abort, and folds the abort cause into the run error.
func (state *runState) finish(ctx context.Context) {
	if ctx.Err() == nil {
		return
	}

	for _, svc := range state.graph.Services() {
		if !state.s.State(svc.Name).IsTerminal() {
			state.s.transition(state.events, svc.Name, domain.StateStopped, domain.ErrScheduleAborted)
		}
	}
	state.errs = errors.Join(state.errs, domain.ErrScheduleAborted, ctx.Err())
}

// transition records a state change and emits it on the event stream.
func (s *Scheduler) transition(events chan<- domain.Transition, name string, to domain.ServiceState, err error) {
	s.mu.Lock()
	from, ok := s.state[name]
	if !ok {
		from = domain.StatePending
	}
	if from == to {
		s.mu.Unlock()
		return
	}
	s.state[name] = to
	s.mu.Unlock()

	events <- domain.Transition{Service: name, From: from, To: to, Err: err}
}
