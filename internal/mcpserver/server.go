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

// Package mcpserver exposes a toolkit.Registry over the MCP stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/clog"
	"github.com/c64bridge/c64bridge-mcp/internal/platform"
	"github.com/c64bridge/c64bridge-mcp/internal/telemetry"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// Server wraps an mcp-go stdio server bound to a tool registry.
type Server struct {
	mcpServer *server.MCPServer
	registry  *toolkit.Registry
	backend   backend.Facade
	logger    *clog.Logger
	tracer    trace.Tracer
	metrics   *telemetry.ToolMetrics
	name      string
	version   string
}

// Config configures the MCP server.
type Config struct {
	Name     string
	Version  string
	Registry *toolkit.Registry
	Backend  backend.Facade
	Logger   *clog.Logger

	// Tracer and Metrics are optional; a nil Tracer records no spans, a
	// nil Metrics records no counters.
	Tracer  trace.Tracer
	Metrics *telemetry.ToolMetrics
}

// New builds a Server and registers every tool in cfg.Registry with the
// underlying mcp-go server.
func New(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		cfg.Name = "c64bridge-mcp"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("mcpserver: Registry is required")
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("mcpserver: Backend is required")
	}

	mcpServer := server.NewMCPServer(cfg.Name, cfg.Version)

	s := &Server{
		mcpServer: mcpServer,
		registry:  cfg.Registry,
		backend:   cfg.Backend,
		logger:    cfg.Logger,
		tracer:    cfg.Tracer,
		metrics:   cfg.Metrics,
		name:      cfg.Name,
		version:   cfg.Version,
	}

	for _, name := range cfg.Registry.Names() {
		d, _ := cfg.Registry.Get(name)
		s.registerTool(d)
	}

	return s, nil
}

// registerTool translates one toolkit.ToolDescriptor into an mcp-go tool
// registration, converting its JSON schema and wiring a handler that
// dispatches back through the registry.
func (s *Server) registerTool(d *toolkit.ToolDescriptor) {
	doc := d.Schema.JSONSchema()

	inputSchema := mcp.ToolInputSchema{Type: "object"}
	if props, ok := doc["properties"].(map[string]any); ok {
		inputSchema.Properties = props
	} else {
		inputSchema.Properties = map[string]any{}
	}
	if required, ok := doc["required"].([]string); ok {
		inputSchema.Required = required
	}

	tool := mcp.Tool{
		Name:        d.Name,
		Description: d.Description,
		InputSchema: inputSchema,
	}

	s.mcpServer.AddTool(tool, s.makeHandler(d.Name))
}

// makeHandler closes over a tool name and builds a fresh ExecContext per
// call, since one is never shared across concurrent requests.
func (s *Server) makeHandler(name string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		op, _ := args["op"].(string)

		start := time.Now()
		if s.tracer != nil {
			var span trace.Span
			ctx, span = s.tracer.Start(ctx, "tool."+name, trace.WithAttributes(
				attribute.String("tool.name", name),
				attribute.String("tool.op", op),
				attribute.String("platform.id", string(platform.Get().ID)),
			))
			defer span.End()
			defer func() {
				result := recover()
				if result != nil {
					span.SetStatus(codes.Error, "panic during tool dispatch")
					panic(result)
				}
			}()
		}

		ec := toolkit.NewExecContext(s.logger, s.backend, nil, platform.Get, platform.Set)
		result := s.registry.Dispatch(ctx, ec, name, args)

		status := "ok"
		if result.IsError {
			status = "error"
		}
		if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
			if result.IsError {
				span.SetStatus(codes.Error, result.Content[0].Text)
			} else {
				span.SetStatus(codes.Ok, "")
			}
		}
		if s.metrics != nil {
			s.metrics.Observe(name, op, status, time.Since(start))
		}

		return toMCPResult(result), nil
	}
}

// toMCPResult converts the uniform envelope into mcp-go's result type.
// Errors surface via mcp.NewToolResultError rather than a protocol-level
// error so the caller sees the tool-level error taxonomy, not a
// transport fault.
func toMCPResult(r *toolkit.Result) *mcp.CallToolResult {
	if r.IsError {
		return mcp.NewToolResultError(r.Content[0].Text)
	}

	content := make([]mcp.Content, 0, len(r.Content)+1)
	for _, c := range r.Content {
		content = append(content, mcp.NewTextContent(c.Text))
	}
	if r.StructuredContent != nil {
		if encoded, err := json.Marshal(r.StructuredContent.Data); err == nil {
			content = append(content, mcp.NewTextContent(string(encoded)))
		}
	}

	return &mcp.CallToolResult{Content: content}
}

// Run starts the server on the stdio transport and blocks until it
// exits.
func (s *Server) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("starting MCP server", "name", s.name, "version", s.version)
	}
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
