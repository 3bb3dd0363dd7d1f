// Package main provides the pantry CLI, a thin driver over a reactive todo
// store wired against a remote HTTP API. Each invocation builds the store,
// runs one action through it, and prints the resulting projection.
package main

import (
	"fmt"
	"os"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
