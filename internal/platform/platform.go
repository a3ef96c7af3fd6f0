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

// Package platform holds the process-wide "which backend is active" value.
// It is a single-owner value behind a narrow setter: executors must read
// it from the per-request ExecContext snapshot, never from a
// package-level variable, so tests can inject a fake.
package platform

import "sync"

// ID is the kind of backend currently selected.
type ID string

const (
	Device   ID = "device"
	Emulator ID = "emulator"
)

// Status is the process-wide platform value: which backend is active plus
// opaque backend-specific details (e.g. the resolved base URL or
// executable path).
type Status struct {
	ID      ID
	Details map[string]any
}

var (
	mu      sync.RWMutex
	current Status
)

// Set is the single-owner mutator. Called once at startup after backend
// selection, and again only on an explicit, deliberate re-selection.
func Set(s Status) {
	mu.Lock()
	defer mu.Unlock()
	current = s
}

// Get returns the current platform snapshot.
func Get() Status {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// IsSupported returns true iff supported is empty (unrestricted) or
// contains id.
func IsSupported(id ID, supported map[ID]struct{}) bool {
	if len(supported) == 0 {
		return true
	}
	_, ok := supported[id]
	return ok
}
