// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a type wrapper for the slog.Logger
type Logger struct {
	*slog.Logger
}

// New returns a new Logger that writes text output at the given level to stderr.
func New(level slog.Level) *Logger {
	return NewLogger(level)
}

// NewLogger returns a new Logger for the given level. If an output writer is given, log
// messages are written to it instead of stderr.
func NewLogger(level slog.Level, output ...io.Writer) *Logger {
	var out io.Writer = os.Stderr
	if len(output) > 0 && output[0] != nil {
		out = output[0]
	}
	return &Logger{slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))}
}

// Err returns a slog.Attr for the given error.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
