package main

import (
	"fmt"
	"os"

	"vidseek/cmd/vidseek/cmd"
	"vidseek/internal/config"
)

func main() {
	// Missing keys are reported when a command needs them, not here
	_, warnings, err := config.InitializeConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	cmd.Execute()
}
