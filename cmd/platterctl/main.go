// Command platterctl is the operator CLI for platterd's control surface
// (spec.md §4.8): approve/identify/skip/archive jobs, inspect oversight
// issues, toggle active mode, and manage the wanted list over HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
