// Package logger configures the structured logger used by the CLI.
package logger

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup returns a text logger writing to w at the given level
// (debug, info, warn, error; case-insensitive). An unknown level falls back
// to info and is reported as a warning on the returned logger.
func Setup(level string, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		log.WithFields(logrus.Fields{
			"configured_level": level,
			"default_level":    "info",
		}).Warn("invalid log level configured, using default level")
		return log
	}
	log.SetLevel(lvl)
	return log
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
