package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Handlers and middleware log
// through slog so request ids travel with every line.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
