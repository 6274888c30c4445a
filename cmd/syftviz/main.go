package main

import (
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0
	ExitError   = 1 // No input, unreadable file, no timing data, bad flags
)

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitError
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
