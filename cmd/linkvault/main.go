package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/Samyk00/LinkVault/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "❌ linkvault: %v\n", err)
		stop()
		os.Exit(1)
	}
}
