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
	"testing"
)

func TestFindPathsFiltersBySubstringAndExtension(t *testing.T) {
	fb := &fakeFacade{paths: []string{
		"/games/pacman.prg",
		"/games/pacman.crt",
		"/games/pong.prg",
		"/docs/pacman.txt",
	}}

	got, err := FindPaths(context.Background(), fb, FindPathsInput{
		Root:       "/",
		Pattern:    "pacman",
		Extensions: []string{"prg"},
	})
	if err != nil {
		t.Fatalf("FindPaths: %v", err)
	}
	if len(got) != 1 || got[0] != "/games/pacman.prg" {
		t.Errorf("got %v, want [/games/pacman.prg]", got)
	}
}

func TestFindPathsCapsMaxResults(t *testing.T) {
	fb := &fakeFacade{paths: []string{"/a/1.prg", "/a/2.prg", "/a/3.prg"}}

	got, err := FindPaths(context.Background(), fb, FindPathsInput{Root: "/", MaxResults: 2})
	if err != nil {
		t.Fatalf("FindPaths: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d results, want 2", len(got))
	}
}

func TestFindPathsGlobPattern(t *testing.T) {
	fb := &fakeFacade{paths: []string{"a/demo.prg", "b/demo.crt", "c/other.prg"}}

	got, err := FindPaths(context.Background(), fb, FindPathsInput{Root: "/", Pattern: "**/demo.*"})
	if err != nil {
		t.Fatalf("FindPaths: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %v, want 2 glob matches", got)
	}
}
