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
	"encoding/json"
	"os"
	"path/filepath"
)

// MaxRecentSearches caps how many recent searches the state file keeps.
const MaxRecentSearches = 20

// RecentSearch records one prior find-and-run-program-by-name search.
type RecentSearch struct {
	Pattern string `json:"pattern"`
	Root    string `json:"root"`
	When    string `json:"when"`
}

// FindAndRunState is the persisted state for find-and-run-program-by-name.
type FindAndRunState struct {
	LastRunPath    string         `json:"lastRunPath,omitempty"`
	RecentSearches []RecentSearch `json:"recentSearches"`
}

func stateFilePath(tasksHome string) string {
	return filepath.Join(tasksHome, "meta", "find_and_run_program_by_name.json")
}

// loadState reads the state file, tolerating a missing or malformed
// file by returning a fresh empty state: a malformed state file is
// ignored and overwritten rather than treated as an error.
func loadState(tasksHome string) FindAndRunState {
	data, err := os.ReadFile(stateFilePath(tasksHome))
	if err != nil {
		return FindAndRunState{}
	}
	var state FindAndRunState
	if err := json.Unmarshal(data, &state); err != nil {
		return FindAndRunState{}
	}
	return state
}

func saveState(tasksHome string, state FindAndRunState) error {
	path := stateFilePath(tasksHome)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// recordSearch appends a search entry, deduplicating by (pattern, root)
// and capping the list at MaxRecentSearches, keeping the most recent
// first.
func recordSearch(state FindAndRunState, pattern, root, when string) FindAndRunState {
	entry := RecentSearch{Pattern: pattern, Root: root, When: when}
	filtered := make([]RecentSearch, 0, len(state.RecentSearches)+1)
	filtered = append(filtered, entry)
	for _, s := range state.RecentSearches {
		if s.Pattern == pattern && s.Root == root {
			continue
		}
		filtered = append(filtered, s)
	}
	if len(filtered) > MaxRecentSearches {
		filtered = filtered[:MaxRecentSearches]
	}
	state.RecentSearches = filtered
	return state
}
