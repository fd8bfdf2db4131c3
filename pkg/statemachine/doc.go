// Package statemachine implements a small finite-state-machine engine built
// around an immutable transition graph and ephemeral per-entity machines.
//
// The package revolves around two minimal interfaces – State and Event – that
// let callers model domain specific states and events while the engine
// handles:
//  1. Transition table validation at construction time
//  2. Transition lookup and rejection of unauthorized events
//  3. Interceptors that run before the in-memory state changes, used to
//     persist the target state transactionally with the transition
//  4. Entry/exit actions dispatched after a transition is committed
//
// Ready-made StringState and StringEvent helpers cover simple scenarios;
// custom types can satisfy the interfaces when more data is required.
//
// # Architecture
//
// A Graph is configured once with the functional options pattern and
// validated eagerly: ambiguous or duplicate (source, event) pairs, outgoing
// transitions from declared terminal states and states unreachable from the
// initial state all fail construction. The Graph is immutable afterwards and
// shared freely.
//
// A Machine is the per-entity runtime object. It is built from a Graph by a
// stateless factory, hydrated to an entity's persisted state with Reset
// (which bypasses validation and runs no hooks) and then accepts events via
// Send. There is no process-wide registry of machines: construct, reset,
// send, discard.
//
// # Persistence protocol
//
// Interceptors registered on a machine run synchronously before each
// in-memory state change. An interceptor that persists the target state
// therefore guarantees that the durable record is updated no earlier than the
// transition decision, and the in-memory state no earlier than persistence
// succeeds. If any interceptor fails the transition aborts and the current
// state is untouched.
//
//	m := statemachine.NewMachine(graph,
//	    statemachine.WithInterceptor(persister),
//	)
//	if err := m.Reset(loaded); err != nil { /* ... */ }
//	next, err := m.Send(ctx, event, payload)
//
// # Error handling
//
// Rejection of an event that does not apply in the current state is a normal
// outcome, distinguishable with IsRejectedError. Interceptor failures wrap
// the underlying cause and are detectable with IsInterceptorError and
// errors.Is/As. Configuration problems are sentinel errors returned from
// NewGraph; MustNewGraph panics on them to fail fast at startup.
//
// # Concurrency
//
// A Machine guards its current state with a mutex, but the engine does not
// serialize concurrent transitions for the same entity across machine
// instances. Callers own that guarantee, either with a per-entity lock held
// across load-transition-persist or with a compare-and-swap at the storage
// layer.
package statemachine
