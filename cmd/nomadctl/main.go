package main

import (
	"os"

	"nomadpal/cmd/nomadctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
