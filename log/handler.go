// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"strings"
	"time"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

const timeFormat = "2006-01-02T15:04:05-0700"

// Format selects the output encoding of a handler.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatJSON     Format = "json"
	FormatLogfmt   Format = "logfmt"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTerminal, FormatJSON, FormatLogfmt:
		return f, nil
	default:
		return "", errors.Errorf("unknown log format %q", s)
	}
}

// FromVerbosity maps the 0 (crit) .. 5 (trace) verbosity scale to a slog level.
func FromVerbosity(v int) slog.Level {
	return ethlog.FromLegacyLevel(v)
}

// NewHandler builds a handler for the given format writing records at or above lvl.
func NewHandler(format Format, wr io.Writer, lvl slog.Level, useColor bool) slog.Handler {
	switch format {
	case FormatJSON:
		return JSONHandlerWithLevel(wr, lvl)
	case FormatLogfmt:
		return LogfmtHandlerWithLevel(wr, lvl)
	default:
		glog := ethlog.NewGlogHandler(ethlog.NewTerminalHandler(wr, useColor))
		glog.Verbosity(lvl)
		return glog
	}
}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// JSONHandlerWithLevel returns a handler which prints records in JSON format that are at
// or above the specified level.
func JSONHandlerWithLevel(wr io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: builtinReplaceJSON,
		Level:       level,
	})
}

// LogfmtHandlerWithLevel returns a handler which prints records in logfmt format, an easy
// machine-parseable but human-readable format for key/value pairs.
func LogfmtHandlerWithLevel(wr io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: builtinReplaceLogfmt,
		Level:       level,
	})
}

func builtinReplaceLogfmt(_ []string, attr slog.Attr) slog.Attr {
	return builtinReplace(nil, attr, true)
}

func builtinReplaceJSON(_ []string, attr slog.Attr) slog.Attr {
	return builtinReplace(nil, attr, false)
}

func builtinReplace(_ []string, attr slog.Attr, logfmt bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			if logfmt {
				return slog.String("t", attr.Value.Time().Format(timeFormat))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.Any("lvl", LevelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case time.Time:
		if logfmt {
			attr = slog.String(attr.Key, v.Format(timeFormat))
		}
	case *big.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	case *uint256.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.Dec())
		}
	case fmt.Stringer:
		if v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil()) {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	}
	return attr
}

// LevelString returns a string containing the name of a Lvl.
func LevelString(l slog.Level) string {
	switch {
	case l < ethlog.LevelDebug:
		return "trace"
	case l < ethlog.LevelInfo:
		return "debug"
	case l < ethlog.LevelWarn:
		return "info"
	case l < ethlog.LevelError:
		return "warn"
	case l < ethlog.LevelCrit:
		return "error"
	default:
		return "crit"
	}
}
