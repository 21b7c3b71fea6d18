// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger is the logging surface used across the module.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Enabled(ctx context.Context, level slog.Level) bool
}

// WithContext returns a logger carrying ctx. It binds to the root logger on every call,
// so package level loggers follow a later SetDefault.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// NewLogger returns a logger writing to h, independent of the root logger.
func NewLogger(h slog.Handler) Logger {
	return &boundLogger{ethlog.NewLogger(h)}
}

// SetDefault replaces the root logger with one writing to h.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// Root returns the root logger.
func Root() Logger {
	return &lazyLogger{}
}

func Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { ethlog.Root().Error(msg, ctx...) }

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) bind() ethlog.Logger {
	if len(l.ctx) == 0 {
		return ethlog.Root()
	}
	return ethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(append(merged, l.ctx...), ctx...)
	return &lazyLogger{ctx: merged}
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.bind().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.bind().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.bind().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.bind().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.bind().Error(msg, ctx...) }

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return ethlog.Root().Enabled(ctx, level)
}

type boundLogger struct {
	l ethlog.Logger
}

func (b *boundLogger) With(ctx ...any) Logger       { return &boundLogger{b.l.With(ctx...)} }
func (b *boundLogger) Trace(msg string, ctx ...any) { b.l.Trace(msg, ctx...) }
func (b *boundLogger) Debug(msg string, ctx ...any) { b.l.Debug(msg, ctx...) }
func (b *boundLogger) Info(msg string, ctx ...any)  { b.l.Info(msg, ctx...) }
func (b *boundLogger) Warn(msg string, ctx ...any)  { b.l.Warn(msg, ctx...) }
func (b *boundLogger) Error(msg string, ctx ...any) { b.l.Error(msg, ctx...) }

func (b *boundLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return b.l.Enabled(ctx, level)
}
