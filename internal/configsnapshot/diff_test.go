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
	"testing"
)

func TestDiffReflexive(t *testing.T) {
	fb := &fakeFacade{categories: map[string]map[string]any{
		"video":     {"mode": "pal"},
		"emulation": {"kernal": "3.0"},
	}}
	snap, err := Take(context.Background(), fb)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}

	result, err := Diff(context.Background(), fb, snap)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("Count = %d, want 0 for a device matching its own snapshot", result.Count)
	}
}

func TestDiffDetectsChange(t *testing.T) {
	fb := &fakeFacade{categories: map[string]map[string]any{
		"video": {"mode": "pal"},
	}}
	snap, err := Take(context.Background(), fb)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}

	fb.categories["video"] = map[string]any{"mode": "ntsc"}
	result, err := Diff(context.Background(), fb, snap)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("Count = %d, want 1", result.Count)
	}
	changed, ok := result.Changed["video"]
	if !ok {
		t.Fatal("expected \"video\" in Changed")
	}
	if changed.Expected["mode"] != "pal" || changed.Actual["mode"] != "ntsc" {
		t.Errorf("changed = %+v", changed)
	}
}
