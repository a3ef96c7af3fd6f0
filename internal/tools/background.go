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

package tools

import (
	"context"

	"github.com/c64bridge/c64bridge-mcp/internal/scheduler"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

func backgroundVariants() []toolkit.Variant {
	nameOnly := toolkit.Object(map[string]*toolkit.Schema{
		"name": toolkit.String("task name"),
	}, []string{"name"})
	return []toolkit.Variant{
		{Op: "start", Schema: toolkit.Object(map[string]*toolkit.Schema{
			"name":          toolkit.String("task name, unique while running"),
			"operation":     toolkit.String("operation to repeat: read, write, read_screen, menu_button, or a custom name"),
			"arguments":     toolkit.Any("arguments forwarded to the operation adapter"),
			"intervalMs":    toolkit.Number("milliseconds between iterations", toolkit.WithMin(1)),
			"maxIterations": toolkit.Number("stop after this many iterations; omit to run indefinitely", toolkit.WithMin(1)),
		}, []string{"name", "operation"})},
		{Op: "stop", Schema: nameOnly},
		{Op: "list", Schema: noFields},
		{Op: "stop_all", Schema: noFields},
	}
}

// BackgroundTasksModule exposes the named recurring-operation scheduler
// as one grouped tool. sched is constructed once at server start and
// shared across every invocation.
func BackgroundTasksModule(sched *scheduler.Scheduler) toolkit.Module {
	schema := toolkit.Union(backgroundVariants())

	handlers := map[string]toolkit.OpHandler{
		"start": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			name, err := requireString(args, "name")
			if err != nil {
				return nil, err
			}
			operation, err := requireString(args, "operation")
			if err != nil {
				return nil, err
			}
			var arguments map[string]any
			if raw, ok := args["arguments"].(map[string]any); ok {
				arguments = raw
			}
			in := scheduler.StartInput{
				Name:          name,
				Operation:     operation,
				Args:          arguments,
				IntervalMs:    int64(argInt(args, "intervalMs", 1000)),
				MaxIterations: int64(argInt(args, "maxIterations", 0)),
			}
			task, err := sched.Start(ctx, in)
			if err != nil {
				return nil, err
			}
			return toolkit.Text("started background task " + task.ID).WithStructured(task.ToPersisted()), nil
		},
		"stop": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			name, err := requireString(args, "name")
			if err != nil {
				return nil, err
			}
			result, err := sched.Stop(name)
			if err != nil {
				return nil, toolkit.ExecutionError("failed to stop background task", map[string]any{"cause": err.Error()})
			}
			return toolkit.Text("stop requested for " + name).WithStructured(result), nil
		},
		"list": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			tasks, err := sched.List()
			if err != nil {
				return nil, toolkit.ExecutionError("failed to list background tasks", map[string]any{"cause": err.Error()})
			}
			return toolkit.Text("listed background tasks").WithStructured(tasks), nil
		},
		"stop_all": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			if err := sched.StopAll(); err != nil {
				return nil, toolkit.ExecutionError("failed to stop all background tasks", map[string]any{"cause": err.Error()})
			}
			return toolkit.Text("all background tasks stopped"), nil
		},
	}

	return toolkit.Module{
		Name: "background_tasks",
		Tools: []*toolkit.ToolDescriptor{
			{
				Name:        "background_tasks",
				Description: "Named recurring operations against the backend: start, stop, list, stop_all.",
				Schema:      schema,
				Handler:     toolkit.GroupedTool(handlers),
			},
		},
	}
}
