package logging

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
)

// Logger is the structured logger accepted by every component.
type Logger = logrus.FieldLogger

// Fields represents structured logging fields
type Fields = logrus.Fields

// NewLogger creates a JSON logger tagged with the service name.
func NewLogger(service string) Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(config.LoadAppConfig().LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger.WithField("service", service)
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
