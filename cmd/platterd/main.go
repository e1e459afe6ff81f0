// Command platterd is the background ingestion daemon: it watches
// configured optical drives, rips, transcodes, identifies, and moves discs
// into the library, and exposes the control surface over HTTP
// (spec.md §4.9).
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"platterd/internal/config"
	"platterd/internal/daemon"
	"platterd/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (default: ~/.config/platterd/config.toml)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, resolvedPath, existed, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if !existed {
		logger.Warn("no config file found, running with defaults", "expected_path", resolvedPath)
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		logger.Error("create daemon", logging.FieldErrorHint, err.Error())
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.FieldErrorHint, err.Error())
		return
	}

	<-ctx.Done()
	logger.Info("platterd shutting down")
	d.Stop()
}
