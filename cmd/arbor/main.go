package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sonemaro/arbor/cmd/arbor/app"
	"github.com/sonemaro/arbor/cmd/arbor/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, context.Canceled) {
			os.Exit(app.ExitInterrupted)
		}
		os.Exit(1)
	}
}
