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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/c64bridge/c64bridge-mcp/internal/appconfig"
	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/clog"
	"github.com/c64bridge/c64bridge-mcp/internal/mcpserver"
	"github.com/c64bridge/c64bridge-mcp/internal/platform"
	"github.com/c64bridge/c64bridge-mcp/internal/scheduler"
	"github.com/c64bridge/c64bridge-mcp/internal/telemetry"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
	"github.com/c64bridge/c64bridge-mcp/internal/tools"
)

// Version information (injected via ldflags at build time).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		baseURL     string
		logLevel    string
		logFormat   string
		metricsAddr string
		traceExport string
		traceTarget string
	)

	cmd := &cobra.Command{
		Use:   "c64bridge-mcp",
		Short: "MCP server exposing a C64 Ultimate device as tools",
		Long: `c64bridge-mcp starts an MCP (Model Context Protocol) server over
stdio that exposes a Commodore 64 Ultimate device's REST API, or a
spawned emulator as a fallback, as a catalog of tools: machine control,
memory access, program and cartridge loading, drives, streams, files,
configuration, and background tasks.

Configuration example for an MCP-aware assistant:
  {
    "mcpServers": {
      "c64bridge": {
        "command": "c64bridge-mcp",
        "args": []
      }
    }
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), runOptions{
				baseURL:     baseURL,
				logLevel:    logLevel,
				logFormat:   logFormat,
				metricsAddr: metricsAddr,
				traceExport: traceExport,
				traceTarget: traceTarget,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&baseURL, "base-url", "", "explicit device base URL, overrides config/env backend selection")
	flags.StringVar(&logLevel, "log-level", "", "logging verbosity (debug, info, warn, error); defaults to C64BRIDGE_LOG_LEVEL or info")
	flags.StringVar(&logFormat, "log-format", "", "log output format (text, json); defaults to C64BRIDGE_LOG_FORMAT or text")
	flags.StringVar(&metricsAddr, "metrics-addr", os.Getenv("METRICS_ADDR"), "address to serve Prometheus /metrics on; empty disables the listener")
	flags.StringVar(&traceExport, "trace-exporter", "stdout", "trace exporter: stdout, otlp-grpc, otlp-http, or none")
	flags.StringVar(&traceTarget, "trace-endpoint", "", "OTLP collector endpoint, used when --trace-exporter is otlp-grpc or otlp-http")

	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("c64bridge-mcp %s (commit %s, built %s)\n", version, commit, buildDate)
			return nil
		},
	}
}

type runOptions struct {
	baseURL     string
	logLevel    string
	logFormat   string
	metricsAddr string
	traceExport string
	traceTarget string
}

func run(ctx context.Context, opts runOptions) error {
	logCfg := clog.FromEnv()
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		logCfg.Format = clog.Format(opts.logFormat)
	}
	logger := clog.New(logCfg)

	configPath := appconfig.Locate()
	cfg, err := appconfig.Load(configPath)
	if err != nil {
		logger.Error("failed to load config file", "path", configPath, "error", err.Error())
		return err
	}

	selCfg := cfg.SelectionConfig(opts.baseURL)
	sel, err := backend.Select(ctx, selCfg)
	if err != nil {
		logger.Error("failed to select backend", "error", err.Error())
		return err
	}
	logger.Info("backend selected", "kind", sel.Kind, "reason", sel.Reason)

	be, err := backend.Build(sel, selCfg, backend.WithRateLimit(20, 10))
	if err != nil {
		logger.Error("failed to build backend", "error", err.Error())
		return err
	}

	details := map[string]any{"reason": sel.Reason}
	if sel.BaseURL != "" {
		details["baseUrl"] = sel.BaseURL
	}
	platform.Set(platform.Status{ID: platform.ID(sel.Kind), Details: details})

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	tasksHome := scheduler.ResolveHome(os.Getenv("TASK_STATE_FILE"), home)
	sched := scheduler.New(tasksHome, be, scheduler.DefaultOperationAdapter, logger)

	registry := toolkit.NewRegistry()
	tools.Register(registry, sched, tasksHome)

	tracerProvider, err := telemetry.NewProvider(ctx, telemetry.TracingConfig{
		Enabled:        opts.traceExport != "none",
		Exporter:       opts.traceExport,
		Endpoint:       opts.traceTarget,
		ServiceName:    "c64bridge-mcp",
		ServiceVersion: version,
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err.Error())
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracerProvider.Shutdown(shutdownCtx)
	}()

	metrics := telemetry.NewToolMetrics()

	srv, err := mcpserver.New(mcpserver.Config{
		Name:     "c64bridge-mcp",
		Version:  version,
		Registry: registry,
		Backend:  be,
		Logger:   logger,
		Tracer:   tracerProvider.Tracer("c64bridge-mcp"),
		Metrics:  metrics,
	})
	if err != nil {
		logger.Error("failed to create MCP server", "error", err.Error())
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		_ = sched.StopAll()
		cancel()
	}()

	if opts.metricsAddr != "" {
		go func() {
			if err := telemetry.ServeMetrics(runCtx, opts.metricsAddr); err != nil {
				logger.Warn("metrics listener stopped", "error", err.Error())
			}
		}()
	}

	if err := srv.Run(runCtx); err != nil {
		logger.Error("MCP server error", "error", err.Error())
		return err
	}
	return nil
}
