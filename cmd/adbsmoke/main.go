package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // All checks passed
	ExitCheckFailed = 1 // One or more checks failed; the summary was still written
	ExitUsageError  = 2 // Bad flags, missing files, or device-selection failure
)

// CheckFailureError indicates that the harness ran to completion, but one
// or more checks failed.
type CheckFailureError struct {
	Message string
}

func (e *CheckFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var checkErr *CheckFailureError
		if errors.As(err, &checkErr) {
			os.Exit(ExitCheckFailed)
		}

		// All other errors are usage/runtime errors
		os.Exit(ExitUsageError)
	}
}
