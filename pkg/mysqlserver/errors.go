package mysqlserver

import (
	"fmt"
	"strings"
	"time"
)

// ResourceNotFoundError reports a missing bundled server archive,
// usually because no archive was packaged for the running platform.
type ResourceNotFoundError struct {
	// Resource is the name of the missing archive.
	Resource string
}

func (e *ResourceNotFoundError) Error() string {
	return "archive not found: " + e.Resource
}

// CommandError reports a one-shot subprocess step that exited non-zero
// or exceeded its timeout.
type CommandError struct {
	Argv []string
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", strings.Join(e.Argv, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ProcessExitedError reports that mysqld died while waiting for it
// to become ready.
type ProcessExitedError struct {
	ExitCode int
}

func (e *ProcessExitedError) Error() string {
	return fmt.Sprintf("mysqld exited with code %d, check logs for more detail", e.ExitCode)
}

// StartupTimeoutError reports that mysqld never became ready within the
// startup wait. Cause holds the last observed connectivity failure.
type StartupTimeoutError struct {
	Wait  time.Duration
	Cause error
}

func (e *StartupTimeoutError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("mysqld failed to start after %s", e.Wait)
	}
	return fmt.Sprintf("mysqld failed to start after %s: %v", e.Wait, e.Cause)
}

func (e *StartupTimeoutError) Unwrap() error {
	return e.Cause
}
