package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Exit code constants for the CLI
const (
	// ExitSuccess indicates successful execution with no threats found
	ExitSuccess = 0
	// ExitThreatsFound indicates the scanned text contained threats
	ExitThreatsFound = 1
	// ExitError indicates a general error
	ExitError = 2
	// ExitCancelled indicates the operation was cancelled
	ExitCancelled = 4
	// ExitConfigError indicates a configuration error
	ExitConfigError = 10
)

// CLIError is a CLI-specific error carrying an exit code.
type CLIError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a CLIError with the given code and message.
func NewCLIError(code int, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapError creates a CLIError wrapping an existing error.
func WrapError(code int, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Cause: err}
}

// ThreatsFoundError signals a successful detect run that found threats, so
// main can exit non-zero without printing a generic error.
var ThreatsFoundError = &CLIError{Code: ExitThreatsFound, Message: "threats detected"}

// HandleError prints err to the command's error output and returns the
// process exit code.
func HandleError(cmd *cobra.Command, err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		cmd.PrintErrln("Operation cancelled")
		return ExitCancelled
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr == ThreatsFoundError {
			// detect already printed the findings
			return cliErr.Code
		}
		cmd.PrintErrln("Error:", cliErr.Message)
		if cliErr.Cause != nil {
			verboseFlag := cmd.Flag("verbose")
			if verboseFlag != nil && verboseFlag.Changed {
				cmd.PrintErrln("Cause:", cliErr.Cause)
			}
		}
		return cliErr.Code
	}

	cmd.PrintErrln("Error:", err)
	return ExitError
}
