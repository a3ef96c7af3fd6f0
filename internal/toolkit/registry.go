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

package toolkit

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry holds every tool the server exposes, keyed by name. A
// duplicate registration is a programming error, not a runtime
// condition — Register panics so it fails at startup wiring, never
// mid-session.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*ToolDescriptor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*ToolDescriptor)}
}

// Register adds a single tool descriptor.
func (r *Registry) Register(d *ToolDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[d.Name]; exists {
		panic(fmt.Sprintf("toolkit: duplicate tool registration %q", d.Name))
	}
	r.tools[d.Name] = d
}

// RegisterModule registers every tool in a Module.
func (r *Registry) RegisterModule(m Module) {
	for _, d := range m.Tools {
		r.Register(d)
	}
}

// Get retrieves a descriptor by name.
func (r *Registry) Get(name string) (*ToolDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tools[name]
	return d, ok
}

// Names returns every registered tool name, sorted, for catalog listing
// and deterministic test output.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch resolves a tool by name and invokes it. Unknown tool names
// surface as a KindUnknown error so transports can still wrap a uniform
// envelope around them.
func (r *Registry) Dispatch(ctx context.Context, ec *ExecContext, name string, rawArgs any) *Result {
	correlationID := NewCorrelationID()
	if ec.Logger != nil {
		ec.Logger = ec.Logger.With("correlation_id", correlationID)
	}

	d, ok := r.Get(name)
	if !ok {
		return FromError(&Error{Kind: KindUnknown, Message: fmt.Sprintf("unknown tool %q", name)}).
			WithMetadata(map[string]any{"correlationId": correlationID})
	}
	return d.Invoke(ctx, ec, rawArgs).WithMetadata(map[string]any{"correlationId": correlationID})
}
