package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/hamilmoji/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	// -v belongs to --verbose
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand(logger).Run(ctx, os.Args); err != nil {
		stop()
		logger.Fatalf("application error: %v", err)
	}
}
