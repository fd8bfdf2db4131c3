package statemachine

import (
	"context"
)

// State represents a state in the state machine.
type State interface {
	Name() string
}

// Event represents an event that can trigger a state transition.
type Event interface {
	Name() string
}

// Transition describes a single authorized state change: the source state,
// the target state, and the event that triggers it.
type Transition struct {
	From  State
	To    State
	Event Event
}

// Action executes a side effect when a state is entered or exited. Actions run
// after the transition is committed; a failing action is logged and never
// rolls the transition back.
type Action func(ctx context.Context, tr Transition, data any) error

// Interceptor hooks into a transition before the machine's in-memory state
// changes. It is the extension point for persisting the target state: the
// machine commits the transition only if every registered interceptor
// returns nil.
type Interceptor interface {
	BeforeStateChange(ctx context.Context, tr Transition, data any) error
}

// InterceptorFunc adapts a plain function to the Interceptor interface.
type InterceptorFunc func(ctx context.Context, tr Transition, data any) error

func (f InterceptorFunc) BeforeStateChange(ctx context.Context, tr Transition, data any) error {
	return f(ctx, tr, data)
}

// StringState provides a simple string-based state implementation for basic use cases.
type StringState string

func (s StringState) Name() string {
	return string(s)
}

// StringEvent provides a simple string-based event implementation for basic use cases.
type StringEvent string

func (e StringEvent) Name() string {
	return string(e)
}
