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
	"encoding/base64"

	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

func dataField(description string) *toolkit.Schema {
	return toolkit.String(description + " (base64-encoded)")
}

func decodeDataArg(args map[string]any, key string) ([]byte, error) {
	s, err := requireString(args, key)
	if err != nil {
		return nil, err
	}
	data, decodeErr := base64.StdEncoding.DecodeString(s)
	if decodeErr != nil {
		return nil, toolkit.ValidationError("$."+key, "not valid base64", s)
	}
	return data, nil
}

func programVariants() []toolkit.Variant {
	fileSchema := func(desc string) *toolkit.Schema {
		return toolkit.Object(map[string]*toolkit.Schema{
			"path": toolkit.String(desc),
		}, []string{"path"})
	}
	dataSchema := func(desc string) *toolkit.Schema {
		return toolkit.Object(map[string]*toolkit.Schema{
			"data": dataField(desc),
		}, []string{"data"})
	}
	return []toolkit.Variant{
		{Op: "load_prg", Schema: dataSchema("PRG image to load without running")},
		{Op: "run_prg", Schema: dataSchema("PRG image to load and run")},
		{Op: "run_crt", Schema: dataSchema("cartridge image to attach and run")},
		{Op: "run_prg_file", Schema: fileSchema("path on the device filesystem of a PRG to run")},
		{Op: "sidplay_file", Schema: fileSchema("path on the device filesystem of a SID to play")},
		{Op: "sidplay_attachment", Schema: dataSchema("SID tune data to play")},
		{Op: "modplay_file", Schema: fileSchema("path on the device filesystem of a MOD to play")},
	}
}

// ProgramsModule exposes the program-loading and playback operations
// as one grouped tool.
func ProgramsModule() toolkit.Module {
	schema := toolkit.Union(programVariants())

	withData := func(f func(ctx context.Context, ec *toolkit.ExecContext, data []byte) (*toolkit.Result, error)) toolkit.OpHandler {
		return func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			data, err := decodeDataArg(args, "data")
			if err != nil {
				return nil, err
			}
			return f(ctx, ec, data)
		}
	}
	withPath := func(f func(ctx context.Context, ec *toolkit.ExecContext, path string) (*toolkit.Result, error)) toolkit.OpHandler {
		return func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			path, err := requireString(args, "path")
			if err != nil {
				return nil, err
			}
			return f(ctx, ec, path)
		}
	}

	handlers := map[string]toolkit.OpHandler{
		"load_prg": withData(func(ctx context.Context, ec *toolkit.ExecContext, data []byte) (*toolkit.Result, error) {
			r, err := ec.Backend.LoadPRG(ctx, data)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to load PRG", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		}),
		"run_prg": withData(func(ctx context.Context, ec *toolkit.ExecContext, data []byte) (*toolkit.Result, error) {
			r, err := ec.Backend.RunPRG(ctx, data)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to run PRG", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		}),
		"run_crt": withData(func(ctx context.Context, ec *toolkit.ExecContext, data []byte) (*toolkit.Result, error) {
			r, err := ec.Backend.RunCRT(ctx, data)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to run CRT", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		}),
		"run_prg_file": withPath(func(ctx context.Context, ec *toolkit.ExecContext, path string) (*toolkit.Result, error) {
			r, err := ec.Backend.RunPRGFile(ctx, path)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to run PRG file", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		}),
		"sidplay_file": withPath(func(ctx context.Context, ec *toolkit.ExecContext, path string) (*toolkit.Result, error) {
			r, err := ec.Backend.SIDPlayFile(ctx, path)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to play SID file", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		}),
		"sidplay_attachment": withData(func(ctx context.Context, ec *toolkit.ExecContext, data []byte) (*toolkit.Result, error) {
			r, err := ec.Backend.SIDPlayAttachment(ctx, data)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to play SID attachment", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		}),
		"modplay_file": withPath(func(ctx context.Context, ec *toolkit.ExecContext, path string) (*toolkit.Result, error) {
			r, err := ec.Backend.ModPlayFile(ctx, path)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to play MOD file", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		}),
	}

	return toolkit.Module{
		Name: "programs",
		Tools: []*toolkit.ToolDescriptor{
			{
				Name:        "programs",
				Description: "Load and run programs, cartridges, and music files: load_prg, run_prg, run_crt, run_prg_file, sidplay_file, sidplay_attachment, modplay_file.",
				Schema:      schema,
				Handler:     toolkit.GroupedTool(handlers),
			},
		},
	}
}
