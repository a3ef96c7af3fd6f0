// Copyright 2026 The C64 Bridge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package clog provides the structured logger used across the bridge.
// Logs always go to stderr: stdout is reserved for the MCP stdio
// transport and must never carry anything but protocol frames.
package clog

import (
	"log/slog"
	"os"
	"strings"
)

// Format selects the log line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config controls logger construction.
type Config struct {
	Level     string // debug, info, warn, error
	Format    Format
	AddSource bool
}

// DefaultConfig returns the server's default logging configuration.
func DefaultConfig() Config {
	return Config{Level: "info", Format: FormatText}
}

// FromEnv overlays C64BRIDGE_LOG_LEVEL / C64BRIDGE_LOG_FORMAT onto the
// default configuration, matching the env-override convention used
// throughout the reference corpus.
func FromEnv() Config {
	cfg := DefaultConfig()
	if level := os.Getenv("C64BRIDGE_LOG_LEVEL"); level != "" {
		cfg.Level = strings.ToLower(level)
	}
	if format := os.Getenv("C64BRIDGE_LOG_FORMAT"); format != "" {
		cfg.Format = Format(strings.ToLower(format))
	}
	return cfg
}

// Logger wraps *slog.Logger with the debug/info/warn/error structured
// field API every executor's context carries.
type Logger struct {
	base *slog.Logger
}

// New builds a Logger writing to stderr.
func New(cfg Config) *Logger {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return &Logger{base: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a Logger with additional structured fields attached to
// every subsequent entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{base: l.base.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) { l.base.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.base.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.base.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.base.Error(msg, args...) }

// Slog exposes the underlying *slog.Logger for packages (like the
// OpenTelemetry/mcp-go wiring) that need to interoperate with slog
// directly.
func (l *Logger) Slog() *slog.Logger { return l.base }
