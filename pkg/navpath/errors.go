package navpath

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped in a *MutationError) by Path mutations.
var (
	// ErrInvalidState indicates a mutation that would break the path
	// invariants, such as presenting a second sheet.
	ErrInvalidState = errors.New("invalid path state")

	// ErrSheetPresented indicates a second sheet was presented. It wraps
	// ErrInvalidState.
	ErrSheetPresented = fmt.Errorf("%w: a sheet is already presented", ErrInvalidState)

	// ErrEmptyStack indicates nothing was eligible for removal. Only returned
	// under EmptyPolicyError.
	ErrEmptyStack = errors.New("path is empty")

	// ErrReentrantMutation indicates a mutation attempted while another
	// mutation of the same path was still running, typically from a dismiss
	// handler or an observer.
	ErrReentrantMutation = errors.New("reentrant path mutation")
)

// MutationError describes a rejected mutation. The path is left unchanged.
type MutationError struct {
	Op     Op     // Mutation that was rejected
	Err    error  // One of the sentinel errors
	Detail string // Optional context, e.g. the offending entry
}

func (e *MutationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("navpath: %s: %v: %s", e.Op, e.Err, e.Detail)
	}
	return fmt.Sprintf("navpath: %s: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

func newMutationError(op Op, err error, detail string) *MutationError {
	return &MutationError{Op: op, Err: err, Detail: detail}
}

// IsInvalidState checks if err reports a rejected invariant violation.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsEmptyStack checks if err reports a removal from an empty path.
func IsEmptyStack(err error) bool {
	return errors.Is(err, ErrEmptyStack)
}

// IsReentrant checks if err reports a nested mutation.
func IsReentrant(err error) bool {
	return errors.Is(err, ErrReentrantMutation)
}

// OpOf returns the operation a mutation error was raised by.
func OpOf(err error) (Op, bool) {
	var mErr *MutationError
	if errors.As(err, &mErr) {
		return mErr.Op, true
	}
	return "", false
}
