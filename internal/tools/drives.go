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

func driveField() *toolkit.Schema {
	return toolkit.String("drive identifier, e.g. a or b")
}

func driveVariants() []toolkit.Variant {
	driveOnly := toolkit.Object(map[string]*toolkit.Schema{
		"drive": driveField(),
	}, []string{"drive"})
	return []toolkit.Variant{
		{Op: "list", Schema: noFields},
		{Op: "mount", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"drive": driveField(),
			"image": dataField("disk image to mount"),
			"mode":  toolkit.String("mount mode, e.g. rw or ro"),
		}, []string{"drive", "image", "mode"})},
		{Op: "remove", Schema: driveOnly},
		{Op: "reset", Schema: driveOnly},
		{Op: "on", Schema: driveOnly},
		{Op: "off", Schema: driveOnly},
		{Op: "set_mode", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"drive": driveField(),
			"mode":  toolkit.String("drive mode to set"),
		}, []string{"drive", "mode"})},
		{Op: "load_rom", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"drive": driveField(),
			"rom":   dataField("ROM image to load"),
		}, []string{"drive", "rom"})},
	}
}

// DrivesModule exposes virtual-drive management as one grouped tool.
func DrivesModule() toolkit.Module {
	schema := toolkit.Union(driveVariants())

	handlers := map[string]toolkit.OpHandler{
		"list": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.ListDrives(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to list drives", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"mount": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			drive, err := requireString(args, "drive")
			if err != nil {
				return nil, err
			}
			image, err := decodeDataArg(args, "image")
			if err != nil {
				return nil, err
			}
			mode, err := requireString(args, "mode")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.MountDrive(ctx, drive, image, mode)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to mount drive", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"remove": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			drive, err := requireString(args, "drive")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.RemoveDrive(ctx, drive)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to remove drive", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"reset": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			drive, err := requireString(args, "drive")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.ResetDrive(ctx, drive)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to reset drive", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"on": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			drive, err := requireString(args, "drive")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.DriveOn(ctx, drive)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to turn on drive", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"off": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			drive, err := requireString(args, "drive")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.DriveOff(ctx, drive)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to turn off drive", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"set_mode": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			drive, err := requireString(args, "drive")
			if err != nil {
				return nil, err
			}
			mode, err := requireString(args, "mode")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.SetDriveMode(ctx, drive, mode)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to set drive mode", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"load_rom": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			drive, err := requireString(args, "drive")
			if err != nil {
				return nil, err
			}
			rom, err := decodeDataArg(args, "rom")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.LoadDriveROM(ctx, drive, rom)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to load drive ROM", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
	}

	return toolkit.Module{
		Name: "drives",
		Tools: []*toolkit.ToolDescriptor{
			{
				Name:        "drives",
				Description: "Virtual drive management: list, mount, remove, reset, on, off, set_mode, load_rom.",
				Schema:      schema,
				Handler:     toolkit.GroupedTool(handlers),
			},
		},
	}
}
