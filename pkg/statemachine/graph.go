package statemachine

import (
	"fmt"
)

// Graph holds the immutable transition table for one lifecycle: the set of
// known states, the initial state, declared terminal states, the authorized
// (source, event) -> target mappings and the per-state entry/exit actions.
// A Graph is validated once at construction and never mutated afterwards, so
// a single instance can safely back any number of Machine instances.
type Graph struct {
	initial  State
	states   map[string]State
	terminal map[string]bool
	targets  map[string]map[string]Transition
	entry    map[string]Action
	exit     map[string]Action
}

// GraphOption configures a graph during construction.
type GraphOption func(*Graph) error

// NewGraph builds a transition graph starting from the given initial state.
// Construction fails when the configuration is malformed: duplicate or
// ambiguous (source, event) pairs, transitions out of a declared terminal
// state, states unreachable from the initial state, or actions attached to
// states the graph does not know.
func NewGraph(initial State, opts ...GraphOption) (*Graph, error) {
	if initial == nil || initial.Name() == "" {
		return nil, ErrNilState
	}

	g := &Graph{
		initial:  initial,
		states:   map[string]State{initial.Name(): initial},
		terminal: make(map[string]bool),
		targets:  make(map[string]map[string]Transition),
		entry:    make(map[string]Action),
		exit:     make(map[string]Action),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	if err := g.validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// MustNewGraph builds a graph and panics on configuration errors. A malformed
// transition table is a programming error that should prevent startup.
func MustNewGraph(initial State, opts ...GraphOption) *Graph {
	g, err := NewGraph(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: invalid graph configuration: %v", err))
	}
	return g
}

// WithTransition authorizes a single (from, event) -> to transition.
func WithTransition(from, to State, event Event) GraphOption {
	return func(g *Graph) error {
		return g.addTransition(from, to, event)
	}
}

// WithTransitions authorizes multiple transitions at once.
func WithTransitions(transitions ...Transition) GraphOption {
	return func(g *Graph) error {
		for i, t := range transitions {
			if err := g.addTransition(t.From, t.To, t.Event); err != nil {
				return fmt.Errorf("transition[%d]: %w", i, err)
			}
		}
		return nil
	}
}

// WithTerminal declares states that end the lifecycle. Declaring a state
// terminal and giving it an outgoing transition fails validation.
func WithTerminal(states ...State) GraphOption {
	return func(g *Graph) error {
		for _, s := range states {
			if s == nil || s.Name() == "" {
				return ErrNilState
			}
			g.states[s.Name()] = s
			g.terminal[s.Name()] = true
		}
		return nil
	}
}

// WithEntryAction attaches an action that runs after a transition into the
// given state is committed.
func WithEntryAction(state State, action Action) GraphOption {
	return func(g *Graph) error {
		return g.addAction(g.entry, state, action)
	}
}

// WithExitAction attaches an action that runs after a transition out of the
// given state is committed. Exit actions run before the target state's entry
// action.
func WithExitAction(state State, action Action) GraphOption {
	return func(g *Graph) error {
		return g.addAction(g.exit, state, action)
	}
}

// Initial returns the graph's designated initial state.
func (g *Graph) Initial() State {
	return g.initial
}

// TargetFor returns the target state for the given (source, event) pair, or
// false when no such transition is authorized.
func (g *Graph) TargetFor(source State, event Event) (State, bool) {
	if source == nil || event == nil {
		return nil, false
	}
	byEvent, ok := g.targets[source.Name()]
	if !ok {
		return nil, false
	}
	tr, ok := byEvent[event.Name()]
	if !ok {
		return nil, false
	}
	return tr.To, true
}

// IsTerminal reports whether the given state has no outgoing transitions.
// Both declared terminal states and states that simply never appear as a
// transition source count as terminal.
func (g *Graph) IsTerminal(state State) bool {
	if state == nil || !g.Contains(state) {
		return false
	}
	return len(g.targets[state.Name()]) == 0
}

// Contains reports whether the state is part of this graph.
func (g *Graph) Contains(state State) bool {
	if state == nil {
		return false
	}
	_, ok := g.states[state.Name()]
	return ok
}

// Transitions returns a copy of all authorized transitions.
func (g *Graph) Transitions() []Transition {
	var out []Transition
	for _, byEvent := range g.targets {
		for _, tr := range byEvent {
			out = append(out, tr)
		}
	}
	return out
}

func (g *Graph) addTransition(from, to State, event Event) error {
	if from == nil || to == nil || from.Name() == "" || to.Name() == "" {
		return ErrNilState
	}
	if event == nil || event.Name() == "" {
		return ErrNilEvent
	}

	g.states[from.Name()] = from
	g.states[to.Name()] = to

	byEvent, ok := g.targets[from.Name()]
	if !ok {
		byEvent = make(map[string]Transition)
		g.targets[from.Name()] = byEvent
	}

	if existing, ok := byEvent[event.Name()]; ok {
		if existing.To.Name() != to.Name() {
			return fmt.Errorf("%w: (%s, %s) maps to both %s and %s",
				ErrAmbiguousTransition, from.Name(), event.Name(), existing.To.Name(), to.Name())
		}
		return fmt.Errorf("%w: (%s, %s) -> %s registered twice",
			ErrDuplicateTransition, from.Name(), event.Name(), to.Name())
	}

	byEvent[event.Name()] = Transition{From: from, To: to, Event: event}
	return nil
}

func (g *Graph) addAction(actions map[string]Action, state State, action Action) error {
	if state == nil || state.Name() == "" {
		return ErrNilState
	}
	if action == nil {
		return ErrNilAction
	}
	if _, ok := g.states[state.Name()]; !ok {
		return NewUnknownStateError(state.Name())
	}
	actions[state.Name()] = action
	return nil
}

func (g *Graph) validate() error {
	for name := range g.terminal {
		if len(g.targets[name]) > 0 {
			return fmt.Errorf("%w: terminal state %s has outgoing transitions",
				ErrTerminalTransition, name)
		}
	}

	// Breadth-first walk from the initial state; every configured state must
	// be reachable through the transition table.
	reached := map[string]bool{g.initial.Name(): true}
	frontier := []string{g.initial.Name()}
	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]
		for _, tr := range g.targets[current] {
			if !reached[tr.To.Name()] {
				reached[tr.To.Name()] = true
				frontier = append(frontier, tr.To.Name())
			}
		}
	}
	for name := range g.states {
		if !reached[name] {
			return fmt.Errorf("%w: state %s is not reachable from %s",
				ErrUnreachableState, name, g.initial.Name())
		}
	}

	return nil
}
