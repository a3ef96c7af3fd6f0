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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ResolveHome picks the directory background task state is persisted
// under: env.TASK_STATE_FILE names a file whose parent directory
// becomes home; absent that, <$HOME>/.c64bridge.
func ResolveHome(taskStateFile, homeDir string) string {
	if taskStateFile != "" {
		return filepath.Dir(taskStateFile)
	}
	return filepath.Join(homeDir, ".c64bridge")
}

type tasksFile struct {
	Tasks []PersistedTask `json:"tasks"`
}

func tasksJSONPath(home string) string {
	return filepath.Join(home, "tasks.json")
}

func taskFolder(home, id string) string {
	return filepath.Join(home, "tasks", "background", id)
}

// loadTasksFile reads tasks.json, creating an empty one if absent.
func loadTasksFile(home string) ([]PersistedTask, error) {
	path := tasksJSONPath(home)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(home, 0o755); mkErr != nil {
			return nil, mkErr
		}
		if writeErr := writeTasksFile(home, nil); writeErr != nil {
			return nil, writeErr
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var tf tasksFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tf.Tasks, nil
}

func writeTasksFile(home string, tasks []PersistedTask) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return err
	}
	if tasks == nil {
		tasks = []PersistedTask{}
	}
	data, err := json.MarshalIndent(tasksFile{Tasks: tasks}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(tasksJSONPath(home), data, 0o644)
}

// persistTask writes tasks.json plus this task's task.json, seeding
// result.json and log.txt if they don't already exist.
func persistTask(home string, all []*Task, t *Task) error {
	persisted := make([]PersistedTask, 0, len(all))
	for _, task := range all {
		persisted = append(persisted, task.ToPersisted())
	}
	if err := writeTasksFile(home, persisted); err != nil {
		return err
	}

	folder := taskFolder(home, t.ID)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return err
	}

	mirror := t.ToPersisted()
	mirrorWithResultPath := struct {
		PersistedTask
		ResultPath string `json:"resultPath"`
	}{PersistedTask: mirror, ResultPath: filepath.Join(folder, "result.json")}
	data, err := json.MarshalIndent(mirrorWithResultPath, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(folder, "task.json"), data, 0o644); err != nil {
		return err
	}

	resultPath := filepath.Join(folder, "result.json")
	if _, err := os.Stat(resultPath); os.IsNotExist(err) {
		seed := map[string]any{
			"id":         t.ID,
			"type":       "task",
			"name":       t.Operation,
			"created":    formatTime(t.StartedAt),
			"status":     t.Status,
			"iterations": t.Iterations,
		}
		seedData, err := json.MarshalIndent(seed, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(resultPath, seedData, 0o644); err != nil {
			return err
		}
	}

	logPath := filepath.Join(folder, "log.txt")
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		if err := os.WriteFile(logPath, []byte{}, 0o644); err != nil {
			return err
		}
	}

	return nil
}

// appendLog appends a timestamped line to the task's log.txt.
func appendLog(home string, t *Task, message string) error {
	folder := taskFolder(home, t.ID)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(folder, "log.txt"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	line := fmt.Sprintf("[%s] %s\n", time.Now().UTC().Format(isoLayout), message)
	_, err = f.WriteString(line)
	return err
}
