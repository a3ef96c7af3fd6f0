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

// Package tools wires the Backend Facade, memory-ops, scheduler,
// config-snapshot, and filesystem-search subsystems into the tool
// catalog modules the registry exposes over the transport.
package tools

import (
	"fmt"

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/memoryops"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// fromBackendResult turns a successful facade Result into a tool result
// envelope, attaching the raw payload as structured content.
func fromBackendResult(r *backend.Result) *toolkit.Result {
	res := toolkit.Text(fmt.Sprintf("%v", r.Data))
	res = res.WithStructured(r.Data)
	if r.Details != nil {
		res = res.WithMetadata(map[string]any{"details": r.Details})
	}
	return res
}

func argString(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func argStringDefault(args map[string]any, key, def string) string {
	if s, ok := argString(args, key); ok {
		return s
	}
	return def
}

func requireString(args map[string]any, key string) (string, error) {
	s, ok := argString(args, key)
	if !ok || s == "" {
		return "", toolkit.ValidationError("$."+key, "required field missing", nil)
	}
	return s, nil
}

func argInt(args map[string]any, key string, def int) int {
	v, ok := args[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}

func argBool(args map[string]any, key string, def bool) bool {
	v, ok := args[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func argUint32(args map[string]any, key string, def uint32) uint32 {
	return uint32(argInt(args, key, int(def)))
}

// addressArg reads an address field and parses it into a uint16
// suitable for the facade's narrow memory API.
func addressArg(args map[string]any, key string) (uint16, error) {
	s, err := requireString(args, key)
	if err != nil {
		return 0, err
	}
	addr, err := memoryops.ParseAddress(s)
	if err != nil {
		return 0, toolkit.ValidationError("$."+key, err.Error(), s)
	}
	if addr > 0xFFFF {
		return 0, toolkit.ValidationError("$."+key, "address out of range", s)
	}
	return uint16(addr), nil
}

func hexArg(args map[string]any, key string) ([]byte, error) {
	s, err := requireString(args, key)
	if err != nil {
		return nil, err
	}
	data, err := memoryops.HexToBytes(memoryops.CleanHex(s))
	if err != nil {
		return nil, toolkit.ValidationError("$."+key, err.Error(), s)
	}
	return data, nil
}

func argStringSlice(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func argCategories(args map[string]any, key string) map[string]map[string]any {
	v, ok := args[key]
	if !ok {
		return nil
	}
	top, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]map[string]any, len(top))
	for cat, raw := range top {
		if m, ok := raw.(map[string]any); ok {
			out[cat] = m
		}
	}
	return out
}
