// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// FieldComponent tags log lines with the emitting package.
const FieldComponent = "component"

// VerboseEnv enables debug logging regardless of the configured level.
const VerboseEnv = "AUTHGATE_VERBOSE"

// New creates a console logger writing to w.
// Unknown levels fall back to warn so the CLI stays quiet by default;
// verbose (or AUTHGATE_VERBOSE=1) forces debug.
func New(w io.Writer, level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	if verbose || os.Getenv(VerboseEnv) == "1" {
		lvl = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: !isTerminalWriter(w)}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Component returns l tagged with the given component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(FieldComponent, name).Logger()
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
