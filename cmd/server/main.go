// Package main - Entry point for the pajakin API server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pajakin/api"
	"pajakin/core/engine"
	"pajakin/internal/config"
	"pajakin/internal/logging"
	"pajakin/internal/version"
)

func main() {
	configPath := flag.String("config", "", "Config file (JSON or YAML)")
	addr := flag.String("addr", "", "Server address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	eng, err := engine.NewEngine(engine.WithLogger(logging.Named("engine")))
	if err != nil {
		logging.Fatal("engine setup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("pajakin server starting",
		zap.String("version", version.Version),
		zap.String("addr", cfg.Server.Addr),
	)

	if err := api.NewServer(cfg, eng, version.Version, logging.Logger).ListenAndServe(ctx); err != nil {
		logging.Error("server failed", zap.Error(err))
		os.Exit(1)
	}
}
