package task

import (
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
)

// ValidateTitle returns a CLIError for an empty title.
func ValidateTitle(input string) *clierr.Error {
	return clierr.New(clierr.InvalidInput, "task title must not be empty").
		WithDetails(map[string]any{"input": input})
}

// ValidateProgress returns a CLIError for a progress value that is not an integer.
func ValidateProgress(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidProgress, "invalid progress %q: expected an integer 0-100", input).
		WithDetails(map[string]any{
			"input": input,
			"min":   MinProgress,
			"max":   MaxProgress,
		})
}

// ValidateDate returns a CLIError for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidInput, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// FormatDeadline returns a CLIError for invalid deadline input.
func FormatDeadline(input string, err error) *clierr.Error {
	return ValidateDate("deadline", input, err)
}
