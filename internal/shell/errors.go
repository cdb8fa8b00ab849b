package shell

import (
	"fmt"
	"strings"
)

// UnknownBackendError reports a shell name that is not registered.
type UnknownBackendError struct {
	Name  string
	Known []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown shell %q (choose from: %s)", e.Name, strings.Join(e.Known, ", "))
}

// UnavailableError reports an explicitly requested backend that could
// not run a session.
type UnavailableError struct {
	Name   string
	Reason error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("shell %q is not available: %v", e.Name, e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	return e.Reason
}

// HookError reports a setup or teardown hook failure.
type HookError struct {
	Hook string // "setup" or "teardown"
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook failed: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}
