package module

import "fmt"

// ProgrammerError marks a call that violates the module manager's own
// contract: scheduling a load/unload that the dependency graph forbids,
// or registering a Resource outside the Initializing window. A broken
// deployment (a missing modules directory, module code that fails to
// open) is reported the same way. These are never meant to be recovered
// from.
type ProgrammerError struct {
	Op      string
	Message string
}

func (e *ProgrammerError) Error() string {
	return fmt.Sprintf("module: %s: %s", e.Op, e.Message)
}

func fail(op, format string, args ...interface{}) {
	panic(&ProgrammerError{Op: op, Message: fmt.Sprintf(format, args...)})
}
