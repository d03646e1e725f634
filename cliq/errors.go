package cliq

import (
	"fmt"
	"strings"
)

// ErrorType categorizes dispatch failures. Structural problems are returned
// as errors; options-validation issues are data on the result instead (a CLI
// wrapper wants to render those per field, not catch them).
type ErrorType string

const (
	ErrorTypeCommandNotFound  ErrorType = "command_not_found"
	ErrorTypeNoHandler        ErrorType = "no_handler"
	ErrorTypeAsyncValidation  ErrorType = "async_validation"
	ErrorTypeConfigInvalid    ErrorType = "config_invalid"
	ErrorTypeConfigUnreadable ErrorType = "config_unreadable"
	ErrorTypeUnknownShell     ErrorType = "unknown_shell"
)

// DispatchError is the error type every structural failure surfaces as.
type DispatchError struct {
	Type       ErrorType
	Message    string
	Path       string  // command path involved, when known
	Suggestion string  // fuzzy "did you mean", for unknown commands
	Issues     []Issue // populated for config_invalid
	Cause      error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", e.Suggestion)
	}
	for _, issue := range e.Issues {
		fmt.Fprintf(&b, "\n  %s: %s", issue.Path, issue.Message)
	}
	return b.String()
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *DispatchError) Unwrap() error {
	return e.Cause
}

func errCommandNotFound(path, suggestion string) *DispatchError {
	return &DispatchError{
		Type:       ErrorTypeCommandNotFound,
		Message:    fmt.Sprintf("command not found: %s", path),
		Path:       path,
		Suggestion: suggestion,
	}
}

func errNoHandler(cmd *Command) *DispatchError {
	return &DispatchError{
		Type:    ErrorTypeNoHandler,
		Message: fmt.Sprintf("command %q is a grouping node and cannot be run directly", cmd.Path()),
		Path:    cmd.Path(),
	}
}

func errAsyncValidation(what string) *DispatchError {
	return &DispatchError{
		Type:    ErrorTypeAsyncValidation,
		Message: fmt.Sprintf("%s validator returned a pending result; validation must complete synchronously", what),
	}
}

// errConfigInvalid escalates config-file validation issues to an error:
// config files are operator controlled and a broken one should stop the run.
func errConfigInvalid(path string, issues []Issue) *DispatchError {
	return &DispatchError{
		Type:    ErrorTypeConfigInvalid,
		Message: fmt.Sprintf("invalid configuration in %s", path),
		Path:    path,
		Issues:  issues,
	}
}

func errUnknownShell(shell string) *DispatchError {
	return &DispatchError{
		Type:    ErrorTypeUnknownShell,
		Message: fmt.Sprintf("unsupported shell %q (supported: bash, zsh, fish, powershell)", shell),
	}
}
