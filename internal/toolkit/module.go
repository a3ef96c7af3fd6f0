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

package toolkit

import (
	"context"

	"github.com/c64bridge/c64bridge-mcp/internal/platform"
)

// Handler executes a single tool invocation against already-validated
// arguments.
type Handler func(ctx context.Context, ec *ExecContext, args any) (*Result, error)

// ToolDescriptor is everything the registry and the MCP transport need to
// expose and dispatch one tool.
type ToolDescriptor struct {
	Name        string
	Description string
	Schema      *Schema
	Handler     Handler

	// SupportedPlatforms restricts which backend kinds may run this tool.
	// Empty means unrestricted.
	SupportedPlatforms []platform.ID
}

// supportedSet builds the lookup map IsSupported expects.
func (d *ToolDescriptor) supportedSet() map[platform.ID]struct{} {
	if len(d.SupportedPlatforms) == 0 {
		return nil
	}
	set := make(map[platform.ID]struct{}, len(d.SupportedPlatforms))
	for _, id := range d.SupportedPlatforms {
		set[id] = struct{}{}
	}
	return set
}

// Invoke validates args against the descriptor's schema, checks platform
// support, and calls Handler. It is the single code path every transport
// (stdio MCP, tests) funnels through.
func (d *ToolDescriptor) Invoke(ctx context.Context, ec *ExecContext, rawArgs any) *Result {
	if !platform.IsSupported(ec.Platform().ID, d.supportedSet()) {
		return FromError(UnsupportedPlatformError(d.Name, string(ec.Platform().ID), platformIDsToStrings(d.SupportedPlatforms)))
	}

	parsed, err := d.Schema.Parse(rawArgs, "$")
	if err != nil {
		return FromError(err)
	}

	result, err := d.Handler(ctx, ec, parsed)
	if err != nil {
		return FromError(err)
	}
	if result == nil {
		result = Text("")
	}
	return result
}

func platformIDsToStrings(ids []platform.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// Module groups related ToolDescriptors under one registration call, the
// way the tool catalog packages (internal/tools/*) each expose one
// Module for the server to register.
type Module struct {
	Name  string
	Tools []*ToolDescriptor
}
