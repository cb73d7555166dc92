// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"log/slog"

	"github.com/gogpu/framegraph/internal/logging"
)

// SetLogger configures the logger for framegraph and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: build statistics, arena reclamation
//   - [slog.LevelInfo]: device and pipeline lifecycle
//   - [slog.LevelWarn]: stale handle fallbacks, reference count underflow
//
// Example:
//
//	framegraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger. It is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
