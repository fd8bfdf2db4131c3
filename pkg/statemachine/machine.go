package statemachine

import (
	"context"
	"log/slog"
	"sync"
)

// Machine applies events to one entity's current state using an immutable
// Graph. A machine is cheap to construct and is meant to be ephemeral: build
// one per call, hydrate it with Reset from the persisted state, send a single
// event and discard it. Interceptors registered on the machine run before
// each in-memory state change and can abort the transition.
type Machine struct {
	graph        *Graph
	current      State
	interceptors []Interceptor
	log          *slog.Logger
	mu           sync.RWMutex
}

// MachineOption configures a machine during construction.
type MachineOption func(*Machine)

// WithInterceptor registers an interceptor. Interceptors run in registration
// order; the first failure aborts the transition.
func WithInterceptor(i Interceptor) MachineOption {
	return func(m *Machine) {
		if i != nil {
			m.interceptors = append(m.interceptors, i)
		}
	}
}

// WithInterceptors registers multiple interceptors at once.
func WithInterceptors(interceptors ...Interceptor) MachineOption {
	return func(m *Machine) {
		for _, i := range interceptors {
			if i != nil {
				m.interceptors = append(m.interceptors, i)
			}
		}
	}
}

// WithLogger sets the logger used to report entry/exit action failures.
func WithLogger(log *slog.Logger) MachineOption {
	return func(m *Machine) {
		if log != nil {
			m.log = log
		}
	}
}

// NewMachine creates a machine positioned at the graph's initial state.
func NewMachine(graph *Graph, opts ...MachineOption) *Machine {
	m := &Machine{
		graph:   graph,
		current: graph.Initial(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the machine's in-memory state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reset positions the machine at the given state directly, bypassing
// transition validation. It is used to hydrate a machine from persisted
// state; no interceptors or entry/exit actions run. Resetting to a state the
// graph does not know fails.
func (m *Machine) Reset(to State) error {
	if to == nil {
		return ErrNilState
	}
	if !m.graph.Contains(to) {
		return NewUnknownStateError(to.Name())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = to
	return nil
}

// Send applies one event to the current state.
//
// When the graph authorizes no transition for the (current, event) pair the
// event is rejected: no state change, no interceptors, no actions. Rejection
// is an expected outcome, detectable with IsRejectedError.
//
// For an authorized transition the interceptors run first, in registration
// order, before the in-memory state changes; the first interceptor error
// aborts the transition and leaves the current state untouched. Once all
// interceptors succeed the state is committed and the source state's exit
// action and the target state's entry action run, in that order. Action
// failures are logged and never roll back the committed transition.
func (m *Machine) Send(ctx context.Context, event Event, data any) (State, error) {
	if event == nil {
		return nil, ErrNilEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.graph.TargetFor(m.current, event)
	if !ok {
		return nil, NewRejectedError(m.current.Name(), event.Name())
	}

	tr := Transition{From: m.current, To: target, Event: event}

	for _, ic := range m.interceptors {
		if err := ic.BeforeStateChange(ctx, tr, data); err != nil {
			return nil, NewInterceptorError(tr.From.Name(), tr.To.Name(), event.Name(), err)
		}
	}

	m.current = target

	if exit, ok := m.graph.exit[tr.From.Name()]; ok {
		if err := exit(ctx, tr, data); err != nil {
			m.log.ErrorContext(ctx, "exit action failed",
				slog.String("state", tr.From.Name()),
				slog.String("event", event.Name()),
				slog.Any("error", err))
		}
	}
	if entry, ok := m.graph.entry[tr.To.Name()]; ok {
		if err := entry(ctx, tr, data); err != nil {
			m.log.ErrorContext(ctx, "entry action failed",
				slog.String("state", tr.To.Name()),
				slog.String("event", event.Name()),
				slog.Any("error", err))
		}
	}

	return m.current, nil
}

// CanSend reports whether the graph authorizes a transition for the given
// event from the machine's current state.
func (m *Machine) CanSend(event Event) bool {
	if event == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.graph.TargetFor(m.current, event)
	return ok
}
