package tensorpool

import (
	"errors"
	"fmt"
)

// Kind classifies Pool failures.
type Kind int

const (
	KindDuplicateName Kind = iota + 1
	KindInvalidName
	KindInvalidSize
	KindNotFound
	KindOutOfBounds
	KindLifetimeMismatch
	KindSizeMismatch
	KindPlannerFailure
	KindInvalidState
	KindInvalidWindow
	KindInvalidExecOrder
	KindAllocationFailure
	KindNotAllocated
)

var kindNames = map[Kind]string{
	KindDuplicateName:     "duplicate name",
	KindInvalidName:       "invalid name",
	KindInvalidSize:       "invalid size",
	KindNotFound:          "not found",
	KindOutOfBounds:       "out of bounds",
	KindLifetimeMismatch:  "lifetime mismatch",
	KindSizeMismatch:      "size mismatch",
	KindPlannerFailure:    "planner failure",
	KindInvalidState:      "invalid state",
	KindInvalidWindow:     "invalid window",
	KindInvalidExecOrder:  "invalid execution order",
	KindAllocationFailure: "allocation failure",
	KindNotAllocated:      "not allocated",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is returned by every failing Pool operation.
type Error struct {
	Kind   Kind
	Tensor string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Tensor != "" {
		s += " (" + e.Tensor + ")"
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

func newError(k Kind, name, format string, a ...any) *Error {
	return &Error{Kind: k, Tensor: name, Msg: fmt.Sprintf(format, a...)}
}

func wrapError(k Kind, name string, err error) *Error {
	return &Error{Kind: k, Tensor: name, Err: err}
}

// KindOf returns the kind of a Pool error, or 0 for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsDuplicateName reports whether a tensor name was already registered.
func IsDuplicateName(err error) bool { return KindOf(err) == KindDuplicateName }

// IsInvalidName reports whether a tensor name was empty.
func IsInvalidName(err error) bool { return KindOf(err) == KindInvalidName }

// IsInvalidSize reports whether a tensor shape had no elements.
func IsInvalidSize(err error) bool { return KindOf(err) == KindInvalidSize }

// IsNotFound reports whether a tensor name was unknown.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsOutOfBounds reports whether a view exceeded its source.
func IsOutOfBounds(err error) bool { return KindOf(err) == KindOutOfBounds }

// IsLifetimeMismatch reports conflicting lifespans or initializers.
func IsLifetimeMismatch(err error) bool { return KindOf(err) == KindLifetimeMismatch }

// IsSizeMismatch reports an external buffer smaller than its tensor.
func IsSizeMismatch(err error) bool { return KindOf(err) == KindSizeMismatch }

// IsPlannerFailure reports that the planning strategy broke its contract.
func IsPlannerFailure(err error) bool { return KindOf(err) == KindPlannerFailure }

// IsInvalidState reports an operation issued in the wrong phase.
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }

// IsAllocationFailure reports that the arena could not obtain memory.
func IsAllocationFailure(err error) bool { return KindOf(err) == KindAllocationFailure }

// IsNotAllocated reports access to a tensor without memory.
func IsNotAllocated(err error) bool { return KindOf(err) == KindNotAllocated }
