package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tavernari/kuaa/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{Verbose: cli.IsVerboseEnv()}

	if err := cli.Execute(ctx, opts, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
