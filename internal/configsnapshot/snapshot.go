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

// Package configsnapshot implements full-device configuration export,
// restore, and structural diff against the backend facade.
package configsnapshot

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// Snapshot is the full exported device configuration.
type Snapshot struct {
	CreatedAt  string                    `json:"createdAt"`
	Version    any                       `json:"version"`
	Info       any                       `json:"info"`
	Categories map[string]map[string]any `json:"categories"`
}

// Take concurrently fetches version, info, and every config category,
// capturing a per-category fetch failure as {"_error": message} instead
// of failing the whole snapshot.
func Take(ctx context.Context, be backend.Facade) (*Snapshot, error) {
	snap := &Snapshot{CreatedAt: time.Now().UTC().Format(time.RFC3339)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := be.Version(gctx)
		if err != nil {
			return err
		}
		snap.Version = result.Data
		return nil
	})
	g.Go(func() error {
		result, err := be.Info(gctx)
		if err != nil {
			return err
		}
		snap.Info = result.Data
		return nil
	})

	var categoryNames []string
	g.Go(func() error {
		result, err := be.ListConfigCategories(gctx)
		if err != nil {
			return err
		}
		categoryNames = categoryNamesFromResult(result)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, toolkit.ExecutionError("failed to fetch device version/info/category list", map[string]any{"cause": err.Error()})
	}

	snap.Categories = fetchCategories(ctx, be, categoryNames)
	return snap, nil
}

func categoryNamesFromResult(result *backend.Result) []string {
	switch v := result.Data.(type) {
	case []string:
		return v
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return names
	default:
		return nil
	}
}

// fetchCategories fetches every category concurrently. Each fetch
// always "succeeds" from the group's perspective — failures are
// captured per-category so one bad category never drops the rest.
func fetchCategories(ctx context.Context, be backend.Facade, names []string) map[string]map[string]any {
	var mu sync.Mutex
	categories := make(map[string]map[string]any, len(names))

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(category string) {
			defer wg.Done()
			result, err := be.GetConfigCategory(ctx, category)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				categories[category] = map[string]any{"_error": err.Error()}
				return
			}
			if m, ok := result.Data.(map[string]any); ok {
				categories[category] = m
				return
			}
			categories[category] = map[string]any{"_error": "unexpected category payload shape"}
		}(name)
	}
	wg.Wait()
	return categories
}

// WriteToFile writes snap to path as 2-space-indented JSON.
func WriteToFile(snap *Snapshot, path string) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFromFile reads a previously-written snapshot.
func ReadFromFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
