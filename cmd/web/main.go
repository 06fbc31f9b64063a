// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	"flag"
	"log"

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

	logger.Info("starting gps fix web server (MQTT subscriber)")
	if err := app.RunWeb(cfg, logger); err != nil {
		logger.Fatalf("fatal: %v", err)
	}
}
