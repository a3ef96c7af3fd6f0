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
	"os"
	"path/filepath"
	"testing"
)

func TestFindAndRunPrefersPRGOverCRT(t *testing.T) {
	fb := &fakeFacade{
		paths: []string{"/games/pacman.crt", "/games/pacman.prg"},
		files: map[string][]byte{"/games/pacman.prg": []byte("prg-bytes")},
	}
	home := t.TempDir()

	out, err := FindAndRun(context.Background(), fb, FindAndRunInput{
		Root:      "/",
		Pattern:   "pacman",
		TasksHome: home,
	})
	if err != nil {
		t.Fatalf("FindAndRun: %v", err)
	}
	if out.Kind != "prg" || out.Path != "/games/pacman.prg" {
		t.Errorf("out = %+v, want prg /games/pacman.prg", out)
	}
	if len(fb.ranPRG) != 1 || fb.ranPRG[0] != "prg-bytes" {
		t.Errorf("ranPRG = %v", fb.ranPRG)
	}

	state := loadState(home)
	if state.LastRunPath != "/games/pacman.prg" {
		t.Errorf("lastRunPath = %q", state.LastRunPath)
	}
	if len(state.RecentSearches) != 1 {
		t.Errorf("recentSearches = %+v, want 1 entry", state.RecentSearches)
	}
}

func TestFindAndRunFallsBackToCRT(t *testing.T) {
	fb := &fakeFacade{
		paths: []string{"/games/game.crt"},
		files: map[string][]byte{"/games/game.crt": []byte("crt-bytes")},
	}
	home := t.TempDir()

	out, err := FindAndRun(context.Background(), fb, FindAndRunInput{Root: "/", Pattern: "game", TasksHome: home})
	if err != nil {
		t.Fatalf("FindAndRun: %v", err)
	}
	if out.Kind != "crt" {
		t.Errorf("kind = %q, want crt", out.Kind)
	}
	if len(fb.ranCRT) != 1 {
		t.Errorf("ranCRT = %v", fb.ranCRT)
	}
}

func TestFindAndRunNoMatchRecordsSearchAnyway(t *testing.T) {
	fb := &fakeFacade{}
	home := t.TempDir()

	_, err := FindAndRun(context.Background(), fb, FindAndRunInput{Root: "/", Pattern: "nothing", TasksHome: home})
	if err == nil {
		t.Fatal("expected no-match error")
	}
	state := loadState(home)
	if len(state.RecentSearches) != 1 {
		t.Errorf("expected search to be recorded even on no match, got %+v", state.RecentSearches)
	}
}

func TestFindAndRunIgnoresMalformedStateFile(t *testing.T) {
	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, "meta"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stateFilePath(home), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	fb := &fakeFacade{
		paths: []string{"/g/x.prg"},
		files: map[string][]byte{"/g/x.prg": []byte("x")},
	}
	_, err := FindAndRun(context.Background(), fb, FindAndRunInput{Root: "/", Pattern: "x", TasksHome: home})
	if err != nil {
		t.Fatalf("FindAndRun should overwrite malformed state, got: %v", err)
	}
	state := loadState(home)
	if state.LastRunPath != "/g/x.prg" {
		t.Errorf("lastRunPath = %q, state not recovered from malformed file", state.LastRunPath)
	}
}
