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

package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/clog"
)

// noopAdapter counts invocations without touching any backend.
func noopAdapter(calls *int) OperationAdapter {
	return func(ctx context.Context, be backend.Facade, operation string, args map[string]any) error {
		*calls++
		return nil
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	if !cond() {
		t.Fatalf("condition not met within %s", timeout)
	}
}

func TestSchedulerCompletesAfterMaxIterations(t *testing.T) {
	home := t.TempDir()
	var calls int
	s := New(home, nil, noopAdapter(&calls), clog.New(clog.DefaultConfig()))

	_, err := s.Start(context.Background(), StartInput{
		Name:          "t1",
		Operation:     "noop",
		IntervalMs:    5,
		MaxIterations: 2,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		tasks, _ := s.List()
		return len(tasks) == 1 && tasks[0].Status == StatusCompleted
	})

	tasks, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if tasks[0].Iterations != 2 {
		t.Errorf("iterations = %d, want 2", tasks[0].Iterations)
	}

	logData, err := os.ReadFile(filepath.Join(taskFolder(home, tasks[0].ID), "log.txt"))
	if err != nil {
		t.Fatalf("reading log.txt: %v", err)
	}
	log := string(logData)
	for _, want := range []string{"iteration=1", "iteration=2", "completed iterations=2"} {
		if !contains(log, want) {
			t.Errorf("log.txt missing %q, got:\n%s", want, log)
		}
	}
}

func TestSchedulerDuplicateStartRejected(t *testing.T) {
	home := t.TempDir()
	var calls int
	s := New(home, nil, noopAdapter(&calls), clog.New(clog.DefaultConfig()))

	_, err := s.Start(context.Background(), StartInput{Name: "t1", Operation: "noop", IntervalMs: 10_000})
	if err != nil {
		t.Fatalf("first Start: %v", err)
	}
	_, err = s.Start(context.Background(), StartInput{Name: "t1", Operation: "noop", IntervalMs: 10_000})
	if err == nil {
		t.Fatal("expected duplicate start to be rejected")
	}
	_ = s.StopAll()
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	home := t.TempDir()
	var calls int
	s := New(home, nil, noopAdapter(&calls), clog.New(clog.DefaultConfig()))

	_, err := s.Start(context.Background(), StartInput{Name: "t1", Operation: "noop", IntervalMs: 10_000})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	first, err := s.Stop("t1")
	if err != nil {
		t.Fatalf("first Stop: %v", err)
	}
	if !first.Stopped || first.NotFound {
		t.Errorf("first stop = %+v, want stopped", first)
	}

	second, err := s.Stop("t1")
	if err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if !second.Stopped || second.Status != StatusStopped {
		t.Errorf("second stop = %+v, want still stopped", second)
	}
}

func TestSchedulerStopUnknownTask(t *testing.T) {
	home := t.TempDir()
	s := New(home, nil, DefaultOperationAdapter, clog.New(clog.DefaultConfig()))

	result, err := s.Stop("does-not-exist")
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !result.NotFound || result.Stopped {
		t.Errorf("result = %+v, want notFound", result)
	}
}

func TestSchedulerReloadDoesNotAutoResume(t *testing.T) {
	home := t.TempDir()
	var calls int
	s := New(home, nil, noopAdapter(&calls), clog.New(clog.DefaultConfig()))
	_, err := s.Start(context.Background(), StartInput{Name: "t1", Operation: "noop", IntervalMs: 10_000})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	reloaded := New(home, nil, noopAdapter(&calls), clog.New(clog.DefaultConfig()))
	tasks, err := reloaded.List()
	if err != nil {
		t.Fatalf("List after reload: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Status != StatusRunning {
		t.Fatalf("expected reloaded task to keep its persisted running status, got %+v", tasks)
	}
	// A reloaded task has no timer armed; it must not fire on its own.
	time.Sleep(20 * time.Millisecond)
	if calls != 0 {
		t.Errorf("reloaded task fired without an explicit start, calls=%d", calls)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
