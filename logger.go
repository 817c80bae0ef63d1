package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a structured slog.Logger with the given level. format
// "text" selects the human readable handler; anything else logs JSON.
func NewLogger(level slog.Leveler, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
