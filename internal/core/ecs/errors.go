package ecs

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ProgrammerError marks a call that violates a structural invariant of the
// store: using an entity handle from a different manager, registering a
// component type twice, querying a component that was never registered.
// These are never meant to be recovered from; callers fix the call site,
// they don't catch this.
type ProgrammerError struct {
	Op      string
	Message string
}

func (e *ProgrammerError) Error() string {
	return fmt.Sprintf("ecs: %s: %s", e.Op, e.Message)
}

func fail(op, format string, args ...any) {
	panic(&ProgrammerError{Op: op, Message: fmt.Sprintf(format, args...)})
}

// Recoverable outcomes never panic. Lookups that can legitimately miss —
// "does this entity still have this component", "does this entity exist"
// — return a (value, bool) pair, following the same idiom as a map index
// expression. Operations that can fail for reasons outside the caller's
// control — a bad Module.modconfig, a missing asset — return an error and
// log it at the call site rather than aborting the process.
//
// ExternalError wraps a failure caused by a misbehaving collaborator
// outside the process's own control, such as a malformed config file or
// a missing asset. It is always logged at the point it's
// produced and is safe for a caller to ignore and continue past.
type ExternalError struct {
	Op      string
	Cause   error
	Message string
}

func (e *ExternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ExternalError) Unwrap() error {
	return e.Cause
}

// external builds an ExternalError and logs it through the package's
// shared logger before returning it, so a collaborator failure is always
// visible even if a caller chooses to swallow the returned error.
func external(op string, cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	logrus.WithFields(logrus.Fields{"op": op}).WithError(cause).Warn(msg)
	return &ExternalError{Op: op, Cause: cause, Message: msg}
}
