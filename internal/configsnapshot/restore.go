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

package configsnapshot

import (
	"context"
	"encoding/json"
	"os"

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// Restore reads a snapshot JSON file at path and batch-updates the
// device's configuration to match it, optionally persisting to flash.
func Restore(ctx context.Context, be backend.Facade, path string, applyToFlash bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return toolkit.ValidationError("$.path", "could not read snapshot file: "+err.Error(), nil)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return toolkit.ValidationError("$.path", "snapshot file is not a JSON object: "+err.Error(), nil)
	}
	categoriesRaw, ok := raw["categories"].(map[string]any)
	if !ok {
		return toolkit.ValidationError("$.categories", "snapshot is missing an object \"categories\" field", nil)
	}

	categories := make(map[string]map[string]any, len(categoriesRaw))
	for name, v := range categoriesRaw {
		m, ok := v.(map[string]any)
		if !ok {
			return toolkit.ValidationError("$.categories."+name, "category value must be an object", nil)
		}
		categories[name] = m
	}

	if _, err := be.BatchUpdateConfig(ctx, categories); err != nil {
		return toolkit.ExecutionError("device rejected batch config update", map[string]any{"cause": err.Error()})
	}

	if applyToFlash {
		if _, err := be.SaveFlash(ctx); err != nil {
			return toolkit.ExecutionError("failed to save configuration to flash", map[string]any{"cause": err.Error()})
		}
	}

	return nil
}
