package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCommandError(t *testing.T) {
	tests := []struct {
		name     string
		err      *CommandError
		code     int
		problems int
		message  string
	}{
		{"Plain", NewCommandError(ExitProblems), 1, 0, "command failed"},
		{"CustomCode", NewCommandError(42), 42, 0, "command failed"},
		{"Problems", problemsFound(3), ExitProblems, 3, "3 problem(s) found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.ExitCode())
			assert.Equal(t, tt.problems, tt.err.Problems())
			assert.EqualError(t, tt.err, tt.message)
		})
	}
}

func TestCommandErrorWrapped(t *testing.T) {
	err := fmt.Errorf("check: %w", problemsFound(2))

	var cmdErr *CommandError
	assert.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 2, cmdErr.Problems())
}
