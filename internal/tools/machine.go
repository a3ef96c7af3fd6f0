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

	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// noFields is the empty object schema shared by operations that take no
// payload beyond "op".
var noFields = toolkit.Object(map[string]*toolkit.Schema{}, nil)

func machineVariants() []toolkit.Variant {
	return []toolkit.Variant{
		{Op: "pause", Schema: noFields},
		{Op: "resume", Schema: noFields},
		{Op: "reset", Schema: noFields},
		{Op: "reboot", Schema: noFields},
		{Op: "poweroff", Schema: noFields},
		{Op: "menu", Schema: noFields},
	}
}

// MachineModule exposes the device's power/run-state operations as
// one grouped tool.
func MachineModule() toolkit.Module {
	variants := machineVariants()
	schema := toolkit.Union(variants)

	handlers := map[string]toolkit.OpHandler{
		"pause": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.Pause(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failure while pausing", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"resume": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.Resume(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failure while resuming", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"reset": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.Reset(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failure while resetting", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"reboot": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.Reboot(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failure while rebooting", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"poweroff": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.PowerOff(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failure while powering off", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
		"menu": func(ctx context.Context, ec *toolkit.ExecContext, args map[string]any) (*toolkit.Result, error) {
			r, err := ec.Backend.Menu(ctx)
			if err != nil {
				return nil, toolkit.ExecutionError("failure while opening menu", map[string]any{"cause": err.Error()})
			}
			return fromBackendResult(r), nil
		},
	}

	return toolkit.Module{
		Name: "machine",
		Tools: []*toolkit.ToolDescriptor{
			{
				Name:        "machine",
				Description: "Power and run-state control: pause, resume, reset, reboot, poweroff, menu.",
				Schema:      schema,
				Handler:     toolkit.GroupedTool(handlers),
			},
		},
	}
}
