// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides context loggers on top of the go-ethereum root logger.
// Loggers resolve the root on every record, so they may be created before the root is configured.
package log

import (
	"io"
	"slices"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Legacy verbosity levels, as accepted by the verbosity flag.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// Logger writes records with a fixed context to the root logger.
type Logger struct {
	ctx []any
}

// WithContext returns a logger which prepends ctx to every record.
func WithContext(ctx ...any) *Logger {
	return &Logger{ctx: ctx}
}

func (l *Logger) with(ctx []any) []any {
	return slices.Concat(l.ctx, ctx)
}

func (l *Logger) Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, l.with(ctx)...) }
func (l *Logger) Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, l.with(ctx)...) }
func (l *Logger) Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, l.with(ctx)...) }
func (l *Logger) Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, l.with(ctx)...) }
func (l *Logger) Error(msg string, ctx ...any) { ethlog.Root().Error(msg, l.with(ctx)...) }

// Info writes a record to the root logger.
func Info(msg string, ctx ...any) { ethlog.Root().Info(msg, ctx...) }

// Init sets the root logger to a terminal logger writing to w, filtered by the legacy verbosity.
func Init(w io.Writer, verbosity int, useColor bool) {
	lvl := ethlog.FromLegacyLevel(verbosity)
	ethlog.SetDefault(ethlog.NewLogger(ethlog.NewTerminalHandlerWithLevel(w, lvl, useColor)))
}
