package cli

import "fmt"

// UsageError reports a flag or argument combination the command cannot
// act on.
type UsageError struct {
	Command string
	Message string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}

// CommandError wraps a failure from a subcommand execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewUsageError creates a new UsageError.
func NewUsageError(command, message string) *UsageError {
	return &UsageError{Command: command, Message: message}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}
