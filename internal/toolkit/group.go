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
	"fmt"
)

// OpHandler executes one operation within a grouped tool, given the
// already-validated, op-stripped argument map.
type OpHandler func(ctx context.Context, ec *ExecContext, args map[string]any) (*Result, error)

// GroupedTool builds a single Handler that dispatches on the "op" field
// of a discriminated-union schema (built with Union) to one of several
// per-operation handlers. This is how a grouped tool (machine, drives,
// configs, ...) exposes many operations behind one MCP tool name.
func GroupedTool(handlers map[string]OpHandler) Handler {
	return func(ctx context.Context, ec *ExecContext, args any) (*Result, error) {
		m, ok := args.(map[string]any)
		if !ok {
			return nil, ValidationError("$", "expected an object with an \"op\" field", nil)
		}
		op, _ := m["op"].(string)
		handler, ok := handlers[op]
		if !ok {
			return nil, ValidationError("$.op", fmt.Sprintf("unrecognized operation %q", op), map[string]any{"allowed": allowedOpNames(handlers)})
		}
		rest := make(map[string]any, len(m))
		for k, v := range m {
			if k == "op" {
				continue
			}
			rest[k] = v
		}
		return handler(ctx, ec, rest)
	}
}

func allowedOpNames(handlers map[string]OpHandler) []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	return names
}
