// Package logging owns the process logger. The terminal belongs to the UI,
// so log output goes to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvVar names the environment variable consulted when no --log flag is given.
const EnvVar = "TDIR_LOG"

var logger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// L returns the process logger.
func L() *logrus.Logger {
	return logger
}

// Setup points the logger at path. An empty path keeps logging disabled.
// The returned closer must be called on exit.
func Setup(path, level string) (io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return io.NopCloser(nil), nil
	}

	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		lvl = parsed
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}

	logger.SetOutput(f)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	return f, nil
}

// SetOutput redirects the logger; tests use it to capture entries.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}
