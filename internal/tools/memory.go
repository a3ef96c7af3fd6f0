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

	"github.com/c64bridge/c64bridge-mcp/internal/memoryops"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

func memoryVariants() []toolkit.Variant {
	return []toolkit.Variant{
		{Op: "read", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"address": toolkit.String("address to read from, e.g. $0400"),
			"length":  toolkit.Number("number of bytes to read", toolkit.WithMin(1), toolkit.WithMax(65536)),
		}, []string{"address", "length"})},
		{Op: "write", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"address": toolkit.String("address to write to"),
			"bytes":   toolkit.String("hex-encoded bytes to write"),
		}, []string{"address", "bytes"})},
		{Op: "read_screen", Schema: noFields},
		{Op: "debugreg_read", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"reg": toolkit.String("debug register name"),
		}, []string{"reg"})},
		{Op: "debugreg_write", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"reg":   toolkit.String("debug register name"),
			"value": toolkit.Number("value to write"),
		}, []string{"reg", "value"})},
		{Op: "verify_and_write", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"address":         toolkit.String("address to write to"),
			"bytes":           toolkit.String("hex-encoded bytes to write"),
			"expected":        toolkit.String("hex-encoded bytes expected before the write"),
			"mask":            toolkit.String("hex-encoded per-byte comparison mask, default 0xFF"),
			"abortOnMismatch": toolkit.Boolean("abort the write if the pre-read does not match expected, default true"),
		}, []string{"address", "bytes"})},
		{Op: "dump", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"address":         toolkit.String("start address, hex/binary/decimal"),
			"length":          toolkit.Number("number of bytes to dump", toolkit.WithMin(1), toolkit.WithMax(65536)),
			"outputPath":      toolkit.String("file path to write the dump to"),
			"format":          toolkit.String("hex or binary", toolkit.WithEnum("hex", "binary")),
			"chunkSize":       toolkit.Number("bytes per read chunk", toolkit.WithMin(1), toolkit.WithMax(4096)),
			"pauseDuringRead": toolkit.Boolean("pause the machine for the duration of the read, default true"),
			"retries":         toolkit.Number("read retries per chunk", toolkit.WithMin(0)),
		}, []string{"address", "length", "outputPath"})},
	}
}

// MemoryModule exposes raw memory access plus the verified read/write
// flows as one grouped tool.
func MemoryModule() toolkit.Module {
	variants := memoryVariants()
	schema := toolkit.Union(variants)

	handlers := map[string]toolkit.OpHandler{
		"read": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			addr, err := addressArg(args, "address")
			if err != nil {
				return nil, err
			}
			length := argInt(args, "length", 0)
			r, err := ec.Backend.ReadMemory(ctx, addr, length)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to read memory", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"write": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			addr, err := addressArg(args, "address")
			if err != nil {
				return nil, err
			}
			data, err := hexArg(args, "bytes")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.WriteMemory(ctx, addr, data)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to write memory", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"read_screen": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.ReadScreen(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to read screen", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"debugreg_read": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			reg, err := requireString(args, "reg")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.DebugRegRead(ctx, reg)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to read debug register", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"debugreg_write": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			reg, err := requireString(args, "reg")
			if err != nil {
				return nil, err
			}
			value := argUint32(args, "value", 0)
			r, err := ec.Backend.DebugRegWrite(ctx, reg, value)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to write debug register", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"verify_and_write": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			address, err := requireString(args, "address")
			if err != nil {
				return nil, err
			}
			bytesVal, err := hexArg(args, "bytes")
			if err != nil {
				return nil, err
			}
			in := memoryops.VerifyAndWriteInput{
				Address:         address,
				Bytes:           bytesVal,
				AbortOnMismatch: argBool(args, "abortOnMismatch", true),
			}
			if _, ok := argString(args, "expected"); ok {
				expected, err := hexArg(args, "expected")
				if err != nil {
					return nil, err
				}
				in.Expected = expected
				in.HasExpected = true
			}
			if _, ok := argString(args, "mask"); ok {
				mask, err := hexArg(args, "mask")
				if err != nil {
					return nil, err
				}
				in.Mask = mask
			}
			out, err := memoryops.VerifyAndWrite(ctx, ec, in)
			if err != nil {
				return nil, err
			}
			return toolkit.Text("verify-and-write succeeded").
				WithStructured(out).
				WithMetadata(map[string]any{"wrote": out.Wrote, "preRead": out.PreRead, "postRead": out.PostRead}), nil
		},
		"dump": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			address, err := requireString(args, "address")
			if err != nil {
				return nil, err
			}
			outputPath, err := requireString(args, "outputPath")
			if err != nil {
				return nil, err
			}
			in := memoryops.MemoryDumpInput{
				Address:         address,
				Length:          argInt(args, "length", 0),
				OutputPath:      outputPath,
				Format:          memoryops.DumpFormat(argStringDefault(args, "format", string(memoryops.FormatHex))),
				ChunkSize:       argInt(args, "chunkSize", 512),
				PauseDuringRead: argBool(args, "pauseDuringRead", true),
				Retries:         argInt(args, "retries", 1),
			}
			manifest, err := memoryops.MemoryDump(ctx, ec, in)
			if err != nil {
				return nil, err
			}
			return toolkit.Text("memory dump written to " + manifest.OutputPath).WithStructured(manifest), nil
		},
	}

	return toolkit.Module{
		Name: "memory",
		Tools: []*toolkit.ToolDescriptor{
			{
				Name:        "memory",
				Description: "Raw and verified memory access: read, write, read_screen, debugreg_read/write, verify_and_write, dump.",
				Schema:      schema,
				Handler:     toolkit.GroupedTool(handlers),
			},
		},
	}
}
