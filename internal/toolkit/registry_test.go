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
	"testing"

	"github.com/c64bridge/c64bridge-mcp/internal/clog"
	"github.com/c64bridge/c64bridge-mcp/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecContext() *ExecContext {
	return NewExecContext(clog.New(clog.DefaultConfig()), nil, nil,
		func() platform.Status { return platform.Status{ID: platform.Device} },
		func(platform.Status) {})
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	d := &ToolDescriptor{
		Name:   "ping",
		Schema: Object(map[string]*Schema{}, nil),
		Handler: func(ctx context.Context, ec *ExecContext, args any) (*Result, error) {
			return Text("pong"), nil
		},
	}
	r.Register(d)

	got, ok := r.Get("ping")
	require.True(t, ok)
	assert.Equal(t, "ping", got.Name)
}

func TestRegistry_DuplicateRegistrationPanics(t *testing.T) {
	r := NewRegistry()
	d := &ToolDescriptor{Name: "ping", Schema: Object(map[string]*Schema{}, nil)}
	r.Register(d)
	assert.Panics(t, func() { r.Register(d) })
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&ToolDescriptor{Name: "zeta", Schema: Object(map[string]*Schema{}, nil)})
	r.Register(&ToolDescriptor{Name: "alpha", Schema: Object(map[string]*Schema{}, nil)})
	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
}

func TestRegistry_RegisterModule(t *testing.T) {
	r := NewRegistry()
	r.RegisterModule(Module{
		Name: "machine",
		Tools: []*ToolDescriptor{
			{Name: "machine_reset", Schema: Object(map[string]*Schema{}, nil)},
			{Name: "machine_pause", Schema: Object(map[string]*Schema{}, nil)},
		},
	})
	assert.Equal(t, []string{"machine_pause", "machine_reset"}, r.Names())
}

func TestRegistry_DispatchUnknownToolStillCarriesCorrelationID(t *testing.T) {
	r := NewRegistry()
	ec := newTestExecContext()

	result := r.Dispatch(context.Background(), ec, "does_not_exist", map[string]any{})
	require.True(t, result.IsError)
	id, ok := result.Metadata["correlationId"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)
}

func TestRegistry_DispatchKnownToolMergesCorrelationID(t *testing.T) {
	r := NewRegistry()
	r.Register(&ToolDescriptor{
		Name:   "ping",
		Schema: Object(map[string]*Schema{}, nil),
		Handler: func(ctx context.Context, ec *ExecContext, args any) (*Result, error) {
			return Text("pong").WithMetadata(map[string]any{"custom": "value"}), nil
		},
	})
	ec := newTestExecContext()

	result := r.Dispatch(context.Background(), ec, "ping", map[string]any{})
	require.False(t, result.IsError)
	assert.Equal(t, "value", result.Metadata["custom"])
	id, ok := result.Metadata["correlationId"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)
}
