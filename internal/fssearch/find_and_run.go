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

package fssearch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// SortOrder selects how candidate matches are ordered before the first
// is picked.
type SortOrder string

const (
	SortFirmwareOrder SortOrder = "firmware"
	SortAlphabetical  SortOrder = "alphabetical"
)

// FindAndRunInput is the validated argument shape for
// find-and-run-program-by-name.
type FindAndRunInput struct {
	Root       string
	Pattern    string
	Extensions []string // priority order; defaults to [prg, crt]
	Sort       SortOrder
	TasksHome  string
}

// FindAndRunOutput reports which path was picked and run.
type FindAndRunOutput struct {
	Path string
	Kind string // "prg" or "crt"
}

var defaultExtensionPriority = []string{"prg", "crt"}

// FindAndRun searches for the highest-priority-extension match of
// pattern under root, runs it via runPrg/runCrt, and updates the
// find-and-run state file.
func FindAndRun(ctx context.Context, be backend.Facade, in FindAndRunInput) (*FindAndRunOutput, error) {
	extensions := in.Extensions
	if len(extensions) == 0 {
		extensions = defaultExtensionPriority
	}

	paths, err := FindPaths(ctx, be, FindPathsInput{Root: in.Root, Pattern: in.Pattern, Extensions: extensions})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	state := loadState(in.TasksHome)
	state = recordSearch(state, in.Pattern, in.Root, now)

	chosen, kind := pickByExtensionPriority(paths, extensions, in.Sort)
	if chosen == "" {
		if err := saveState(in.TasksHome, state); err != nil {
			return nil, toolkit.ExecutionError("failed to persist search state", map[string]any{"cause": err.Error()})
		}
		return nil, toolkit.ExecutionError("no matching program found", map[string]any{"root": in.Root, "pattern": in.Pattern})
	}

	fileResult, err := be.FileInfo(ctx, chosen)
	if err != nil {
		return nil, toolkit.ExecutionError("failed to read program file", map[string]any{"path": chosen, "cause": err.Error()})
	}
	data, err := fileBytes(fileResult)
	if err != nil {
		return nil, toolkit.ExecutionError("unexpected file payload shape", map[string]any{"path": chosen, "cause": err.Error()})
	}

	if kind == "crt" {
		if _, err := be.RunCRT(ctx, data); err != nil {
			return nil, toolkit.ExecutionError("failed to run CRT", map[string]any{"path": chosen, "cause": err.Error()})
		}
	} else {
		if _, err := be.RunPRG(ctx, data); err != nil {
			return nil, toolkit.ExecutionError("failed to run PRG", map[string]any{"path": chosen, "cause": err.Error()})
		}
	}

	state.LastRunPath = chosen
	if err := saveState(in.TasksHome, state); err != nil {
		return nil, toolkit.ExecutionError("failed to persist search state", map[string]any{"cause": err.Error()})
	}

	return &FindAndRunOutput{Path: chosen, Kind: kind}, nil
}

// pickByExtensionPriority groups candidates by extension and returns
// the first match from the highest-priority extension present, ordered
// within that group per sortOrder.
func pickByExtensionPriority(paths []string, extensions []string, sortOrder SortOrder) (string, string) {
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		var group []string
		for _, p := range paths {
			if strings.ToLower(strings.TrimPrefix(filepath.Ext(p), ".")) == ext {
				group = append(group, p)
			}
		}
		if len(group) == 0 {
			continue
		}
		if sortOrder == SortAlphabetical {
			sort.Strings(group)
		}
		return group[0], ext
	}
	return "", ""
}

func fileBytes(result *backend.Result) ([]byte, error) {
	switch v := result.Data.(type) {
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("file payload was not raw bytes, got %T", result.Data)
	}
}
