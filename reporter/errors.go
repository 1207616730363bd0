package reporter

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParent is returned when a start event is nested deeper than
	// the currently open path allows.
	ErrMissingParent = errors.New("no open parent node")
	// ErrNoOpenNode is returned when a result event arrives at a depth with no
	// open node.
	ErrNoOpenNode = errors.New("no open node at depth")
	// ErrUnfinishedNode is returned when an event arrives while a node at the
	// same or a deeper depth is still waiting for its result.
	ErrUnfinishedNode = errors.New("unfinished node at depth")
	// ErrInvalidOutcome is returned when a result event can not settle a node.
	ErrInvalidOutcome = errors.New("invalid outcome")
	// ErrMissingErrorMessage is returned when a failure detail carries an error
	// without a message.
	ErrMissingErrorMessage = errors.New("error detail has no message")
)

// EventError is a fault caused by a single event of the stream.
type EventError struct {
	Type  string
	Depth int
	Name  string
	Err   error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("%s event %q at depth %d: %s", e.Type, e.Name, e.Depth, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}
