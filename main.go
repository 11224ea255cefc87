package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ardnew/hotmark/cli"
	"github.com/ardnew/hotmark/log"
)

func main() {
	// Interrupt stops render --watch and the REPL cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err != nil {
		log.Error("hotmark failed", slog.Any("error", err))
		os.Exit(1)
	}
}
