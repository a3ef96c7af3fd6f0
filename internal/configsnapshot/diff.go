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

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// ChangedCategory records the expected (snapshotted) and actual
// (current device) values for one category that differs.
type ChangedCategory struct {
	Expected map[string]any `json:"expected"`
	Actual   map[string]any `json:"actual"`
}

// DiffResult is the outcome of comparing a snapshot against the live
// device configuration.
type DiffResult struct {
	Changed map[string]ChangedCategory
	Count   int
}

// Diff fetches the device's current category values and compares them
// against snap by canonical JSON serialisation. Diffing a snapshot
// against a device whose categories match is reflexive: Count will be
// 0.
func Diff(ctx context.Context, be backend.Facade, snap *Snapshot) (*DiffResult, error) {
	names := make([]string, 0, len(snap.Categories))
	for name := range snap.Categories {
		names = append(names, name)
	}
	current := fetchCategories(ctx, be, names)

	result := &DiffResult{Changed: map[string]ChangedCategory{}}
	for name, expected := range snap.Categories {
		actual, ok := current[name]
		if !ok {
			return nil, toolkit.ExecutionError("failed to fetch current category for diff", map[string]any{"category": name})
		}
		same, err := canonicallyEqual(expected, actual)
		if err != nil {
			return nil, toolkit.ExecutionError("failed to compare category values", map[string]any{"category": name, "cause": err.Error()})
		}
		if !same {
			result.Changed[name] = ChangedCategory{Expected: expected, Actual: actual}
		}
	}
	result.Count = len(result.Changed)
	return result, nil
}

func canonicallyEqual(a, b map[string]any) (bool, error) {
	aJSON, err := canonicalJSON(a)
	if err != nil {
		return false, err
	}
	bJSON, err := canonicalJSON(b)
	if err != nil {
		return false, err
	}
	return aJSON == bJSON, nil
}

// canonicalJSON re-marshals through a sorted-key encoding so semantically
// identical maps compare equal regardless of original key order.
func canonicalJSON(v map[string]any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var normalized map[string]any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return "", err
	}
	out, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
