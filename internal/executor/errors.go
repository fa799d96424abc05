package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a command exceeds its timeout.
	ErrTimeout = errors.New("command timeout")
	// ErrKilled is returned when a process was killed through its handle.
	ErrKilled = errors.New("process killed")
	// ErrEmptyCommand is returned when no argv was given.
	ErrEmptyCommand = errors.New("empty command")
)

// CommandError is returned when a command could not be started or its output collected.
type CommandError struct {
	Cmd   string
	Stage string
	Cause error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed at %s: %v", e.Cmd, e.Stage, e.Cause)
}
func (e *CommandError) Unwrap() error { return e.Cause }
