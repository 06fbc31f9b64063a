package app

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/relabs-tech/gps_recorder/internal/config"
)

// NewLogger builds the process logger from the logging config section.
// Every component receives this instance explicitly; there is no
// package-level logger anywhere in the repository.
func NewLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.Warnf("invalid log level %q, defaulting to info", cfg.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
