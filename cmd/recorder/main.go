// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/gps_recorder/internal/app"
	"github.com/relabs-tech/gps_recorder/internal/config"
)

func main() {
	configPath := flag.String("config", config.Path(), "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := app.NewLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting gps recorder")
	if err := app.NewRecorder(cfg, logger).Run(ctx); err != nil {
		logger.Fatalf("fatal: %v", err)
	}
	logger.Info("recorder stopped")
}
