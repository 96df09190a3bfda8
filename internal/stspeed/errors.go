package stspeed

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a planning cycle failed.
type ErrorKind int

const (
	// KindInput marks missing or inconsistent input data.
	KindInput ErrorKind = iota + 1
	// KindConstraint marks a rejected or infeasible constraint registration.
	KindConstraint
	// KindKernel marks a rejected cost term.
	KindKernel
	// KindSolve marks a solver failure: infeasible, not converged or timed out.
	KindSolve
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindConstraint:
		return "constraint"
	case KindKernel:
		return "kernel"
	case KindSolve:
		return "solve"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// PlanningError is returned by Search. Op names the failed phase and Msg
// the failed step within it.
type PlanningError struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

// Sentinels for errors.Is; they match any PlanningError of the same kind.
var (
	ErrInput      = &PlanningError{Kind: KindInput}
	ErrConstraint = &PlanningError{Kind: KindConstraint}
	ErrKernel     = &PlanningError{Kind: KindKernel}
	ErrSolve      = &PlanningError{Kind: KindSolve}
)

func (e *PlanningError) Error() string {
	msg := "stspeed: " + e.Kind.String() + " error"
	if e.Op != "" {
		msg = "stspeed: " + e.Op
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PlanningError) Unwrap() error { return e.Err }

// Is matches a kind-only sentinel such as ErrSolve.
func (e *PlanningError) Is(target error) bool {
	t, ok := target.(*PlanningError)
	if !ok || t.Op != "" || t.Msg != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first PlanningError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var pe *PlanningError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

func inputError(op, msg string, err error) error {
	return &PlanningError{Kind: KindInput, Op: op, Msg: msg, Err: err}
}

func constraintError(msg string, err error) error {
	return &PlanningError{Kind: KindConstraint, Op: "apply constraint", Msg: msg, Err: err}
}

func kernelError(msg string, err error) error {
	return &PlanningError{Kind: KindKernel, Op: "apply kernel", Msg: msg, Err: err}
}

func solveError(msg string, err error) error {
	return &PlanningError{Kind: KindSolve, Op: "solve", Msg: msg, Err: err}
}
