package cli

import "fmt"

// ExitProblems is the exit code of a command whose input failed to parse or
// did not pass a check.
const ExitProblems = 1

// CommandError ends a command that already printed its diagnostics. main
// exits with its code and prints nothing more.
type CommandError struct {
	exitCode int
	problems int
}

// NewCommandError creates a CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

// problemsFound returns the error of a check that reported n problems.
func problemsFound(n int) *CommandError {
	return &CommandError{exitCode: ExitProblems, problems: n}
}

func (e *CommandError) Error() string {
	if e.problems > 0 {
		return fmt.Sprintf("%d problem(s) found", e.problems)
	}
	return "command failed"
}

// ExitCode returns the process exit code.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// Problems returns the number of problems reported, if the command counted
// them.
func (e *CommandError) Problems() int {
	return e.problems
}
