// Package main is the entry point for the rover swarm coordination agent.
package main

import (
	"fmt"
	"os"

	"github.com/roverswarm/rover/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
