// Package main provides the CLI for the catload catalogue loader.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/leapstack-labs/catload/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
