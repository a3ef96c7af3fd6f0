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

	"github.com/c64bridge/c64bridge-mcp/internal/configsnapshot"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

func configVariants() []toolkit.Variant {
	categoryOnly := toolkit.Object(map[string]*toolkit.Schema{
		"category": toolkit.String("config category name"),
	}, []string{"category"})
	return []toolkit.Variant{
		{Op: "list", Schema: noFields},
		{Op: "get", Schema: categoryOnly},
		{Op: "set", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"category": toolkit.String("config category name"),
			"item":     toolkit.String("config item name within the category"),
			"value":    toolkit.Any("new value for the item"),
		}, []string{"category", "item", "value"})},
		{Op: "batch_update", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"categories": toolkit.Any("map of category name to {item: value} to apply"),
		}, []string{"categories"})},
		{Op: "load_flash", Schema: noFields},
		{Op: "save_flash", Schema: noFields},
		{Op: "reset_defaults", Schema: noFields},
		{Op: "snapshot", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"path": toolkit.String("file path to write the configuration snapshot to"),
		}, []string{"path"})},
		{Op: "restore", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"path":         toolkit.String("file path of a previously-written snapshot"),
			"applyToFlash": toolkit.Boolean("also save the restored configuration to flash, default false"),
		}, []string{"path"})},
		{Op: "diff", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"path": toolkit.String("file path of a previously-written snapshot to diff against the live device"),
		}, []string{"path"})},
	}
}

// ConfigsModule exposes raw device configuration access plus the
// snapshot/restore/diff subsystem as one grouped tool.
func ConfigsModule() toolkit.Module {
	schema := toolkit.Union(configVariants())

	handlers := map[string]toolkit.OpHandler{
		"list": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.ListConfigCategories(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to list config categories", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"get": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			category, err := requireString(args, "category")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.GetConfigCategory(ctx, category)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to read config category", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"set": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			category, err := requireString(args, "category")
			if err != nil {
				return nil, err
			}
			item, err := requireString(args, "item")
			if err != nil {
				return nil, err
			}
			r, err := ec.Backend.SetConfigItem(ctx, category, item, args["value"])
			if err != nil {
				return nil, toolkit.ExecutionError("failed to set config item", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"batch_update": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			categories := argCategories(args, "categories")
			if categories == nil {
				return nil, toolkit.ValidationError("$.categories", "must be an object of category -> {item: value}", args["categories"])
			}
			r, err := ec.Backend.BatchUpdateConfig(ctx, categories)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to batch-update config", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"load_flash": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.LoadFlash(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to load config from flash", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"save_flash": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.SaveFlash(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to save config to flash", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"reset_defaults": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.ResetConfigDefaults(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to reset config defaults", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"snapshot": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			path, err := requireString(args, "path")
			if err != nil {
				return nil, err
			}
			snap, err := configsnapshot.Take(ctx, ec.Backend)
			if err != nil {
				return nil, err
			}
			if err := configsnapshot.WriteToFile(snap, path); err != nil {
				return nil, toolkit.ExecutionError("failed to write config snapshot", map[string]any{"cause": err.Error()})
			}
			return toolkit.Text("config snapshot written to " + path).WithStructured(snap), nil
		},
		"restore": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			path, err := requireString(args, "path")
			if err != nil {
				return nil, err
			}
			applyToFlash := argBool(args, "applyToFlash", false)
			if err := configsnapshot.Restore(ctx, ec.Backend, path, applyToFlash); err != nil {
				return nil, err
			}
			return toolkit.Text("config restored from " + path), nil
		},
		"diff": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			path, err := requireString(args, "path")
			if err != nil {
				return nil, err
			}
			snap, err := configsnapshot.ReadFromFile(path)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to read config snapshot", map[string]any{"cause": err.Error()})
			}
			diff, err := configsnapshot.Diff(ctx, ec.Backend, snap)
			if err != nil {
				return nil, err
			}
			return toolkit.Text("config diff complete").
				WithStructured(diff).
				WithMetadata(map[string]any{"count": diff.Count}), nil
		},
	}

	return toolkit.Module{
		Name: "configs",
		Tools: []*toolkit.ToolDescriptor{
			{
				Name:        "configs",
				Description: "Device configuration access and snapshot/restore/diff: list, get, set, batch_update, load_flash, save_flash, reset_defaults, snapshot, restore, diff.",
				Schema:      schema,
				Handler:     toolkit.GroupedTool(handlers),
			},
		},
	}
}
