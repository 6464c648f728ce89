package main

import (
	"log/slog"
	"os"
)

// serveLog logs JSON to stderr so stdout stays free for the stdio
// protocol. DEBUG in the environment turns on debug logging.
func serveLog() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(),
	}))
}

func slogLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
