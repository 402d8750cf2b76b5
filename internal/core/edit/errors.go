package edit

import (
	"errors"
	"fmt"
)

var (
	// ErrReentrant is returned when an operation is started from inside
	// another operation's bracket.
	ErrReentrant = errors.New("edit operation already in progress")
	// ErrInvariant wraps every fatal internal invariant violation.
	ErrInvariant = errors.New("edit invariant violated")
)

// Outcome is what a public operation reports to its caller.
type Outcome int

const (
	// OutcomeNoOp: nothing changed.
	OutcomeNoOp Outcome = iota
	// OutcomeApplied: the tree changed and one step was committed.
	OutcomeApplied
	// OutcomeRejected: a protected node stopped the operation; tree and
	// selection are as they were.
	OutcomeRejected
	// OutcomeIntercepted: a hook handled the operation.
	OutcomeIntercepted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeRejected:
		return "rejected"
	case OutcomeIntercepted:
		return "intercepted"
	}
	return "no-op"
}

// Result is what a single rule reports.
type Result int

const (
	NotHandled Result = iota
	Handled
	Rejected
)

func (r Result) String() string {
	switch r {
	case Handled:
		return "handled"
	case Rejected:
		return "rejected"
	}
	return "not-handled"
}

// InvariantError is raised by the rules when the tree is found in a state no
// correct sequence of edits can produce. It is recovered at the operation
// boundary and returned wrapped in ErrInvariant.
type InvariantError struct {
	Op  string
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

func invariantf(op, format string, args ...interface{}) {
	panic(&InvariantError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
