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

// Package fssearch implements pattern-based path discovery and
// run-by-name against the backend's file listing, plus the small
// recent-search memory that find-and-run-program-by-name maintains.
package fssearch

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// FindPathsInput is the validated argument shape for
// find-paths-by-name.
type FindPathsInput struct {
	Root       string
	Pattern    string
	Extensions []string // allow-list; empty means no extension filter
	MaxResults int
}

// FindPaths lists root recursively through the facade, filters by
// case-insensitive substring match on pattern (or, when pattern contains
// any of "*?[", by a doublestar glob match against the whole path) and
// by extension allow-list, and caps the result at maxResults.
func FindPaths(ctx context.Context, be backend.Facade, in FindPathsInput) ([]string, error) {
	result, err := be.ListPaths(ctx, in.Root, true)
	if err != nil {
		return nil, toolkit.ExecutionError("failed to list paths", map[string]any{"cause": err.Error()})
	}
	paths := pathsFromResult(result)

	needle := strings.ToLower(in.Pattern)
	isGlob := strings.ContainsAny(in.Pattern, "*?[")
	extSet := extensionSet(in.Extensions)

	var matches []string
	for _, p := range paths {
		if isGlob {
			if !matchesGlob(in.Pattern, p) {
				continue
			}
		} else if needle != "" && !strings.Contains(strings.ToLower(p), needle) {
			continue
		}
		if len(extSet) > 0 {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(p), "."))
			if _, ok := extSet[ext]; !ok {
				continue
			}
		}
		matches = append(matches, p)
		if in.MaxResults > 0 && len(matches) >= in.MaxResults {
			break
		}
	}
	return matches, nil
}

// pathsFromResult accepts both a bare list-shaped payload and a
// {"paths": [...]} object.
func pathsFromResult(result *backend.Result) []string {
	switch v := result.Data.(type) {
	case []string:
		return v
	case []any:
		return stringsFromAny(v)
	case map[string]any:
		if raw, ok := v["paths"]; ok {
			if list, ok := raw.([]any); ok {
				return stringsFromAny(list)
			}
			if list, ok := raw.([]string); ok {
				return list
			}
		}
	}
	return nil
}

func stringsFromAny(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func extensionSet(extensions []string) map[string]struct{} {
	if len(extensions) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return set
}

// matchesGlob reports whether path matches the doublestar glob pattern
// (e.g. "**/*.prg"); FindPaths uses it instead of the substring filter
// when the pattern contains glob metacharacters.
func matchesGlob(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, path)
	return err == nil && ok
}
