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

func streamVariants() []toolkit.Variant {
	kindSchema := toolkit.Object(map[string]*toolkit.Schema{
		"kind": toolkit.String("stream kind, e.g. video or audio"),
	}, []string{"kind"})
	return []toolkit.Variant{
		{Op: "start", Schema: kindSchema},
		{Op: "stop", Schema: kindSchema},
	}
}

// StreamsModule exposes AV stream start/stop as one grouped tool.
func StreamsModule() toolkit.Module {
	schema := toolkit.Union(streamVariants())

	handlers := map[string]toolkit.OpHandler{
		"start": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			kind, err := requireString(args, "kind")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.StartStream(ctx, kind)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to start stream", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"stop": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			kind, err := requireString(args, "kind")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.StopStream(ctx, kind)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to stop stream", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
	}

	return toolkit.Module{
		Name: "streams",
		Tools: []*toolkit.ToolDescriptor{
			{
				Name:        "streams",
				Description: "Audio/video stream control: start, stop.",
				Schema:      schema,
				Handler:     toolkit.GroupedTool(handlers),
			},
		},
	}
}
