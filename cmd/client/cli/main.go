package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mzaikin/caseport/internal/client/cli"
	"github.com/mzaikin/caseport/internal/client/config"
	"github.com/mzaikin/caseport/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
