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
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/clog"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// Scheduler owns the named background task registry. All mutations to
// the task map happen under a single mutex: the timer callbacks and
// client requests never observe a torn state.
type Scheduler struct {
	mu      sync.Mutex
	home    string
	be      backend.Facade
	adapter OperationAdapter
	logger  *clog.Logger

	loaded bool
	tasks  map[string]*Task // keyed by name
}

// New builds a Scheduler rooted at home, using be to execute scheduled
// operations via adapter.
func New(home string, be backend.Facade, adapter OperationAdapter, logger *clog.Logger) *Scheduler {
	if adapter == nil {
		adapter = DefaultOperationAdapter
	}
	return &Scheduler{
		home:    home,
		be:      be,
		adapter: adapter,
		logger:  logger,
		tasks:   make(map[string]*Task),
	}
}

// ensureLoaded loads tasks.json into memory exactly once per process
// lifetime. Caller must hold s.mu.
func (s *Scheduler) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	persisted, err := loadTasksFile(s.home)
	if err != nil {
		return err
	}
	for _, p := range persisted {
		s.tasks[p.Name] = FromPersisted(p)
	}
	s.loaded = true
	return nil
}

func (s *Scheduler) allTasksLocked() []*Task {
	out := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Scheduler) persistLocked(t *Task) error {
	return persistTask(s.home, s.allTasksLocked(), t)
}

// nextIDLocked allocates "NNNN_<name>" with a 4-digit zero-padded numeric
// prefix one greater than the highest existing prefix. Caller must hold
// s.mu.
func (s *Scheduler) nextIDLocked(name string) string {
	var max int
	for _, t := range s.tasks {
		prefix, _, ok := strings.Cut(t.ID, "_")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(prefix); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%04d_%s", max+1, name)
}

// StartInput is the validated argument shape for the scheduler's start
// operation.
type StartInput struct {
	Name          string
	Operation     string
	Args          map[string]any
	IntervalMs    int64
	MaxIterations int64 // 0 means unbounded
}

// Start registers and begins running a new named background task. A
// second Start while a task of the same name is still running is
// rejected rather than replacing it.
func (s *Scheduler) Start(ctx context.Context, in StartInput) (*Task, error) {
	if in.Name == "" {
		return nil, toolkit.ValidationError("$.name", "name must not be empty", nil)
	}
	if in.Operation == "" {
		return nil, toolkit.ValidationError("$.operation", "operation must not be empty", nil)
	}
	intervalMs := in.IntervalMs
	if intervalMs < 1 {
		intervalMs = 1000
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return nil, toolkit.ExecutionError("failed to load task state", map[string]any{"cause": err.Error()})
	}

	if existing, ok := s.tasks[in.Name]; ok && existing.Status == StatusRunning {
		return nil, toolkit.ValidationError("$.name", fmt.Sprintf("task %q is already running", in.Name), nil)
	}

	now := time.Now()
	id := s.nextIDLocked(in.Name)
	t := &Task{
		ID:            id,
		Name:          in.Name,
		Operation:     in.Operation,
		Args:          in.Args,
		IntervalMs:    intervalMs,
		MaxIterations: in.MaxIterations,
		Status:        StatusRunning,
		StartedAt:     now,
		UpdatedAt:     now,
		NextRunAt:     now.Add(time.Duration(intervalMs) * time.Millisecond),
		Folder:        taskFolder(s.home, id),
	}
	s.tasks[in.Name] = t

	if err := s.persistLocked(t); err != nil {
		return nil, toolkit.ExecutionError("failed to persist task", map[string]any{"cause": err.Error()})
	}

	s.scheduleLocked(t)
	return t, nil
}

// scheduleLocked arms t's timer. Caller must hold s.mu.
func (s *Scheduler) scheduleLocked(t *Task) {
	delay := time.Duration(t.IntervalMs) * time.Millisecond
	if delay < 0 {
		delay = 0
	}
	t.NextRunAt = time.Now().Add(delay)
	t.timerHandle = time.AfterFunc(delay, func() { s.fire(t.Name) })
}

// fire runs one scheduled iteration for the task named name.
func (s *Scheduler) fire(name string) {
	s.mu.Lock()
	t, ok := s.tasks[name]
	if !ok || t.Status != StatusRunning {
		s.mu.Unlock()
		return
	}
	operation, args, be, adapter := t.Operation, t.Args, s.be, s.adapter
	s.mu.Unlock()

	ctx := context.Background()
	err := adapter(ctx, be, operation, args)

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok = s.tasks[name]
	if !ok || t.Status != StatusRunning {
		return
	}

	if err != nil {
		t.Status = StatusError
		t.LastError = err.Error()
		t.StoppedAt = time.Now()
		t.UpdatedAt = t.StoppedAt
		t.timerHandle = nil
		_ = appendLog(s.home, t, "error: "+err.Error())
		_ = s.persistLocked(t)
		if s.logger != nil {
			s.logger.Warn("background task failed", "name", t.Name, "error", err)
		}
		return
	}

	t.Iterations++
	t.UpdatedAt = time.Now()

	if t.MaxIterations > 0 && t.Iterations >= t.MaxIterations {
		t.Status = StatusCompleted
		t.StoppedAt = t.UpdatedAt
		t.timerHandle = nil
		_ = appendLog(s.home, t, fmt.Sprintf("iteration=%d", t.Iterations))
		_ = appendLog(s.home, t, fmt.Sprintf("completed iterations=%d", t.Iterations))
		_ = s.persistLocked(t)
		return
	}

	_ = appendLog(s.home, t, fmt.Sprintf("iteration=%d", t.Iterations))
	_ = s.persistLocked(t)
	s.scheduleLocked(t)
}

// StopResult reports the outcome of a stop operation.
type StopResult struct {
	Stopped  bool
	NotFound bool
	Status   Status
}

// Stop halts a named task if it is running; stopping an already-stopped
// or unknown task is a no-op rather than an error.
func (s *Scheduler) Stop(name string) (*StopResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return nil, toolkit.ExecutionError("failed to load task state", map[string]any{"cause": err.Error()})
	}

	t, ok := s.tasks[name]
	if !ok {
		return &StopResult{Stopped: false, NotFound: true}, nil
	}

	if t.timerHandle != nil {
		t.timerHandle.Stop()
		t.timerHandle = nil
	}
	if t.Status != StatusCompleted && t.Status != StatusStopped {
		t.Status = StatusStopped
		t.StoppedAt = time.Now()
		t.UpdatedAt = t.StoppedAt
	}
	if err := s.persistLocked(t); err != nil {
		return nil, toolkit.ExecutionError("failed to persist task", map[string]any{"cause": err.Error()})
	}
	return &StopResult{Stopped: true, Status: t.Status}, nil
}

// StopAll stops every task.
func (s *Scheduler) StopAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	for _, t := range s.tasks {
		if t.timerHandle != nil {
			t.timerHandle.Stop()
			t.timerHandle = nil
		}
		if t.Status != StatusCompleted {
			t.Status = StatusStopped
			t.StoppedAt = time.Now()
			t.UpdatedAt = t.StoppedAt
		}
	}
	for _, t := range s.tasks {
		if err := s.persistLocked(t); err != nil {
			return err
		}
	}
	return nil
}

// List returns a snapshot of every task.
func (s *Scheduler) List() ([]PersistedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	tasks := s.allTasksLocked()
	out := make([]PersistedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ToPersisted())
	}
	return out, nil
}
