package statemachine

import (
	"errors"
	"fmt"
)

// Configuration errors, returned from NewGraph. All of them mean the
// transition table itself is malformed and the application should not start.
var (
	ErrNilState            = errors.New("invalid state: state cannot be nil or empty")
	ErrNilEvent            = errors.New("invalid event: event cannot be nil or empty")
	ErrNilAction           = errors.New("invalid action: action cannot be nil")
	ErrAmbiguousTransition = errors.New("ambiguous transition")
	ErrDuplicateTransition = errors.New("duplicate transition")
	ErrTerminalTransition  = errors.New("transition out of terminal state")
	ErrUnreachableState    = errors.New("unreachable state")
)

// RejectedError indicates no transition is authorized for the given
// state/event combination. This is an expected outcome, not a fault: the
// caller decides whether to surface it or ignore it.
type RejectedError struct {
	StateName string
	EventName string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("event '%s' rejected in state '%s': no transition authorized", e.EventName, e.StateName)
}

func NewRejectedError(stateName, eventName string) *RejectedError {
	return &RejectedError{
		StateName: stateName,
		EventName: eventName,
	}
}

// UnknownStateError indicates an attempt to use a state the graph does not
// contain, e.g. resetting a machine to a state read from a corrupted record.
type UnknownStateError struct {
	StateName string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("unknown state '%s'", e.StateName)
}

func NewUnknownStateError(stateName string) *UnknownStateError {
	return &UnknownStateError{StateName: stateName}
}

// InterceptorError indicates a registered interceptor aborted the transition
// before the in-memory state changed. It wraps the interceptor's error, so
// errors.Is/As reach the underlying cause (typically a persistence failure).
type InterceptorError struct {
	FromName  string
	ToName    string
	EventName string
	Err       error
}

func (e *InterceptorError) Error() string {
	return fmt.Sprintf("transition %s -> %s on '%s' aborted by interceptor: %v", e.FromName, e.ToName, e.EventName, e.Err)
}

func (e *InterceptorError) Unwrap() error {
	return e.Err
}

func NewInterceptorError(fromName, toName, eventName string, err error) *InterceptorError {
	return &InterceptorError{
		FromName:  fromName,
		ToName:    toName,
		EventName: eventName,
		Err:       err,
	}
}

func IsRejectedError(err error) bool {
	var e *RejectedError
	return errors.As(err, &e)
}

func IsUnknownStateError(err error) bool {
	var e *UnknownStateError
	return errors.As(err, &e)
}

func IsInterceptorError(err error) bool {
	var e *InterceptorError
	return errors.As(err, &e)
}
