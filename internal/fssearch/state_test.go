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

import "testing"

func TestRecordSearchDedupsAndCaps(t *testing.T) {
	state := FindAndRunState{}
	for i := 0; i < MaxRecentSearches+5; i++ {
		state = recordSearch(state, "pattern", "root", "t")
	}
	if len(state.RecentSearches) != 1 {
		t.Fatalf("expected dedup to collapse identical searches to 1, got %d", len(state.RecentSearches))
	}

	for i := 0; i < MaxRecentSearches+5; i++ {
		state = recordSearch(state, "p", "r", "t")
		_ = i
	}
	if len(state.RecentSearches) > MaxRecentSearches {
		t.Fatalf("recentSearches exceeded cap: %d > %d", len(state.RecentSearches), MaxRecentSearches)
	}
}
