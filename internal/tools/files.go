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

func pathField(description string) *toolkit.Schema {
	return toolkit.String(description)
}

func fileVariants() []toolkit.Variant {
	diskSchema := func(blocksField bool) *toolkit.Schema {
		props := map[string]*toolkit.Schema{
			"path": pathField("output path for the new disk image"),
		}
		required := []string{"path"}
		if blocksField {
			props["blocks"] = toolkit.Number("number of blocks", toolkit.WithMin(1))
		} else {
			props["tracks"] = toolkit.Number("number of tracks", toolkit.WithMin(1))
		}
		return toolkit.Object(props, required)
	}
	return []toolkit.Variant{
		{Op: "info", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"path": pathField("path to inspect"),
		}, []string{"path"})},
		{Op: "create_d64", Schema: diskSchema(false)},
		{Op: "create_d71", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"path": pathField("output path for the new D71 image"),
		}, []string{"path"})},
		{Op: "create_d81", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"path": pathField("output path for the new D81 image"),
		}, []string{"path"})},
		{Op: "create_dnp", Schema: diskSchema(true)},
	}
}

// FilesModule exposes file inspection and disk-image creation as one
// grouped tool.
func FilesModule() toolkit.Module {
	schema := toolkit.Union(fileVariants())

	handlers := map[string]toolkit.OpHandler{
		"info": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			path, err := requireString(args, "path")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.FileInfo(ctx, path)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to read file info", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"create_d64": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			path, err := requireString(args, "path")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.CreateD64(ctx, path, argInt(args, "tracks", 35))
			if err != nil {
				return nil, toolkit.ExecutionError("failed to create D64 image", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"create_d71": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			path, err := requireString(args, "path")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.CreateD71(ctx, path)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to create D71 image", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"create_d81": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			path, err := requireString(args, "path")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.CreateD81(ctx, path)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to create D81 image", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"create_dnp": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			path, err := requireString(args, "path")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.CreateDNP(ctx, path, argInt(args, "blocks", 4096))
			if err != nil {
				return nil, toolkit.ExecutionError("failed to create DNP image", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
	}

	return toolkit.Module{
		Name: "files",
		Tools: []*toolkit.ToolDescriptor{
			{
				Name:        "files",
				Description: "File inspection and disk-image creation: info, create_d64, create_d71, create_d81, create_dnp.",
				Schema:      schema,
				Handler:     toolkit.GroupedTool(handlers),
			},
		},
	}
}
