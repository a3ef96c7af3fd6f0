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

// Package scheduler implements the named, persistent background task
// registry: at-most-one-running-per-name recurring operations with
// on-disk state and crash-safe reload.
package scheduler

import "time"

// Status is the lifecycle state of a background task.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusStopped   Status = "stopped"
	StatusError     Status = "error"
)

// Task is the in-memory representation of a scheduled background
// operation. timerHandle is nil for tasks reloaded from disk until the
// next explicit start re-schedules them.
type Task struct {
	ID            string
	Name          string
	Operation     string
	Args          map[string]any
	IntervalMs    int64
	MaxIterations int64 // 0 means unbounded
	Iterations    int64
	Status        Status
	StartedAt     time.Time
	UpdatedAt     time.Time
	StoppedAt     time.Time
	LastError     string
	NextRunAt     time.Time
	Folder        string

	timerHandle *time.Timer
}

// PersistedTask is Task minus the timer handle, with timestamps
// formatted as ISO-8601 strings for tasks.json / task.json.
type PersistedTask struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Operation     string         `json:"operation"`
	Args          map[string]any `json:"args"`
	IntervalMs    int64          `json:"intervalMs"`
	MaxIterations int64          `json:"maxIterations,omitempty"`
	Iterations    int64          `json:"iterations"`
	Status        Status         `json:"status"`
	StartedAt     string         `json:"startedAt"`
	UpdatedAt     string         `json:"updatedAt"`
	StoppedAt     string         `json:"stoppedAt,omitempty"`
	LastError     string         `json:"lastError,omitempty"`
	NextRunAt     string         `json:"nextRunAt,omitempty"`
	Folder        string         `json:"folder"`
}

const isoLayout = time.RFC3339

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ToPersisted converts a runtime Task to its on-disk representation.
func (t *Task) ToPersisted() PersistedTask {
	return PersistedTask{
		ID:            t.ID,
		Name:          t.Name,
		Operation:     t.Operation,
		Args:          t.Args,
		IntervalMs:    t.IntervalMs,
		MaxIterations: t.MaxIterations,
		Iterations:    t.Iterations,
		Status:        t.Status,
		StartedAt:     formatTime(t.StartedAt),
		UpdatedAt:     formatTime(t.UpdatedAt),
		StoppedAt:     formatTime(t.StoppedAt),
		LastError:     t.LastError,
		NextRunAt:     formatTime(t.NextRunAt),
		Folder:        t.Folder,
	}
}

// FromPersisted rebuilds a runtime Task from its on-disk representation.
// The reloaded task has no timer handle: it is not auto-resumed
// regardless of its persisted status.
func FromPersisted(p PersistedTask) *Task {
	return &Task{
		ID:            p.ID,
		Name:          p.Name,
		Operation:     p.Operation,
		Args:          p.Args,
		IntervalMs:    p.IntervalMs,
		MaxIterations: p.MaxIterations,
		Iterations:    p.Iterations,
		Status:        p.Status,
		StartedAt:     parseTime(p.StartedAt),
		UpdatedAt:     parseTime(p.UpdatedAt),
		StoppedAt:     parseTime(p.StoppedAt),
		LastError:     p.LastError,
		NextRunAt:     parseTime(p.NextRunAt),
		Folder:        p.Folder,
	}
}
