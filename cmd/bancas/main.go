package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0 // Run completed
	ExitInvalidInput = 1 // Scenario or structure failed validation
	ExitRuntimeError = 2 // Configuration or runtime error
)

// ValidationError indicates the input files were read successfully but
// failed schema or consistency validation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			os.Exit(ExitInvalidInput)
		}

		os.Exit(ExitRuntimeError)
	}
}
