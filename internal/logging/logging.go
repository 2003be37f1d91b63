// Package logging configures the process-wide slog logger.
// Log lines go to the console and, when a path is given, to a log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Init sets up the default logger at the given level. If logFile is
// non-empty the file is opened in append mode and receives the same
// lines as stdout. The returned closer releases the file handle.
func Init(level string, logFile string) (io.Closer, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var w io.Writer = os.Stdout
	var closer io.Closer

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	return closer, nil
}
