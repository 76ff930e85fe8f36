package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	// InfoLogger writes informational messages to stdout.
	InfoLogger = logrus.New()
	// ErrorLogger writes error messages to stderr.
	ErrorLogger = logrus.New()
)

// InitLogger configures both loggers.  Call once at startup.
func InitLogger() {
	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	InfoLogger.SetLevel(logrus.InfoLevel)

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	ErrorLogger.SetLevel(logrus.ErrorLevel)
}
