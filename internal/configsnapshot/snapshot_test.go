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
	"path/filepath"
	"testing"
)

func TestTakeCapturesPerCategoryError(t *testing.T) {
	fb := &fakeFacade{
		categories: map[string]map[string]any{
			"video":     {"mode": "pal"},
			"emulation": {"kernal": "3.0"},
		},
		categoryErrors: map[string]error{
			"emulation": errorf("device unreachable"),
		},
	}

	snap, err := Take(context.Background(), fb)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if snap.Categories["video"]["mode"] != "pal" {
		t.Errorf("video category = %+v", snap.Categories["video"])
	}
	errMsg, ok := snap.Categories["emulation"]["_error"]
	if !ok {
		t.Fatalf("expected _error key for failing category, got %+v", snap.Categories["emulation"])
	}
	if errMsg != "device unreachable" {
		t.Errorf("_error = %v, want %q", errMsg, "device unreachable")
	}
}

func TestSnapshotWriteReadRoundTrip(t *testing.T) {
	fb := &fakeFacade{categories: map[string]map[string]any{"video": {"mode": "pal"}}}
	snap, err := Take(context.Background(), fb)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := WriteToFile(snap, path); err != nil {
		t.Fatalf("WriteToFile: %v", err)
	}
	reloaded, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile: %v", err)
	}
	if reloaded.Categories["video"]["mode"] != "pal" {
		t.Errorf("reloaded category = %+v", reloaded.Categories["video"])
	}
}
