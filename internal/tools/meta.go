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

package tools

import (
	"context"

	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// MetaModule exposes version/info reporting as one grouped tool.
func MetaModule() toolkit.Module {
	schema := toolkit.Union([]toolkit.Variant{
		{Op: "version", Schema: noFields},
		{Op: "info", Schema: noFields},
	})

	handlers := map[string]toolkit.OpHandler{
		"version": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.Version(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to read version", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"info": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.Info(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to read info", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
	}

	return toolkit.Module{
		Name: "meta",
		Tools: []*toolkit.ToolDescriptor{
			{
				Name:        "meta",
				Description: "Device identity: version, info.",
				Schema:      schema,
				Handler:     toolkit.GroupedTool(handlers),
			},
		},
	}
}
