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
	"strconv"

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/memoryops"
)

// OperationAdapter runs one scheduled iteration of a task's operation
// against the backend facade.
type OperationAdapter func(ctx context.Context, be backend.Facade, operation string, args map[string]any) error

// canonicalOperation normalises the read_memory/write_memory aliases to
// their short forms.
func canonicalOperation(operation string) string {
	switch operation {
	case "read_memory":
		return "read"
	case "write_memory":
		return "write"
	default:
		return operation
	}
}

// DefaultOperationAdapter implements the scheduler's built-in operation
// table. Anything outside the recognised set is treated as a permissive
// no-op success so custom task names don't hard-fail the scheduler loop.
func DefaultOperationAdapter(ctx context.Context, be backend.Facade, operation string, args map[string]any) error {
	switch canonicalOperation(operation) {
	case "read":
		address := stringArg(args, "address", "$0400")
		length := intArg(args, "length", 16)
		addr, err := memoryops.ParseAddress(address)
		if err != nil {
			return err
		}
		_, err = be.ReadMemory(ctx, uint16(addr), length)
		return err
	case "write":
		address := stringArg(args, "address", "$0400")
		bytesHex := stringArg(args, "bytes", "$00")
		addr, err := memoryops.ParseAddress(address)
		if err != nil {
			return err
		}
		data, err := memoryops.HexToBytes(bytesHex)
		if err != nil {
			return err
		}
		_, err = be.WriteMemory(ctx, uint16(addr), data)
		return err
	case "read_screen":
		_, err := be.ReadScreen(ctx)
		return err
	case "menu_button":
		_, err := be.Menu(ctx)
		return err
	default:
		return nil
	}
}

func stringArg(args map[string]any, key, def string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func intArg(args map[string]any, key string, def int) int {
	v, ok := args[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}
