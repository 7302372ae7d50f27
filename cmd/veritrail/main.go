package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess   = 0 // Run completed and scored
	ExitRunFailed = 1 // Run was aborted by a fatal failure (scored zero)
	ExitError     = 2 // Configuration or runtime error
)

// RunFailureError indicates that the engine ran correctly but the
// evaluated agent triggered a fatal failure.
type RunFailureError struct {
	Message string
}

func (e *RunFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var runFailure *RunFailureError
		if errors.As(err, &runFailure) {
			os.Exit(ExitRunFailed)
		}
		os.Exit(ExitError)
	}
}
