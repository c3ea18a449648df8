package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess  = 0 // Run completed
	ExitRejected = 1 // Configuration failed validation
	ExitError    = 2 // Configuration or runtime error
)

// RejectedError indicates the session configuration failed the execution
// gate; the blocking errors have already been printed.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var rejectedErr *RejectedError
		if errors.As(err, &rejectedErr) {
			os.Exit(ExitRejected)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
