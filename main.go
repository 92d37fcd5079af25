// Package main is the entry point for the harmonizer CLI application.
// It validates SQL schemas and relays them to the harmonizer service.
package main

import (
	"harmonizer/cli/cmd"
)

// main is the entry point for the harmonizer CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
