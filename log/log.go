// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over the go-ethereum structured logger. Loggers created at package
// init resolve the root logger on every call, so the handler can be installed later by main.
package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes structured records with alternating key/value context.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	Enabled(level slog.Level) bool
}

const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

type logger struct {
	ctx []any
}

// WithContext returns a logger that adds ctx to every record written through the root logger.
func WithContext(ctx ...any) Logger {
	return &logger{ctx: ctx}
}

// Root returns a logger without context.
func Root() Logger {
	return &logger{}
}

func (l *logger) resolve() ethlog.Logger {
	root := ethlog.Root()
	if len(l.ctx) == 0 {
		return root
	}
	return root.With(l.ctx...)
}

func (l *logger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(append(merged, l.ctx...), ctx...)
	return &logger{ctx: merged}
}

func (l *logger) Trace(msg string, ctx ...any) { l.resolve().Trace(msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.resolve().Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.resolve().Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.resolve().Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.resolve().Error(msg, ctx...) }
func (l *logger) Crit(msg string, ctx ...any)  { l.resolve().Crit(msg, ctx...) }

func (l *logger) Enabled(level slog.Level) bool {
	return ethlog.Root().Enabled(context.Background(), level)
}

// FromLegacyLevel maps the 0 (crit) .. 5 (trace) verbosity scale to a level.
func FromLegacyLevel(verbosity int) slog.Level {
	return ethlog.FromLegacyLevel(verbosity)
}

// SetHandler installs h as the handler of the root logger.
func SetHandler(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// NewTerminalHandler returns a human readable handler writing records at or above level to w.
func NewTerminalHandler(w io.Writer, level slog.Level, useColor bool) slog.Handler {
	return ethlog.NewTerminalHandlerWithLevel(w, level, useColor)
}

// NewJSONHandler returns a handler writing records at or above level as JSON lines.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return ethlog.JSONHandlerWithLevel(w, level)
}

// DiscardHandler drops every record.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}
