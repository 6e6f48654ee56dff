package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nextstop.transit.dev/internal/appconf"
	"nextstop.transit.dev/internal/logging"
)

func main() {
	if err := appconf.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(cfg.logLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		stop()
		os.Exit(1)
	}
}
