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
	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/clog"
	"github.com/c64bridge/c64bridge-mcp/internal/platform"
)

// Retriever is the narrow interface a RAG embeddings index would
// implement. The index itself is an external collaborator this server
// does not build; ExecContext only carries an optional handle so a
// future tool module can call it without the toolkit package depending
// on an embeddings implementation.
type Retriever interface {
	Query(query string, k int) ([]RetrievedChunk, error)
}

// RetrievedChunk is a single passage returned by a Retriever.
type RetrievedChunk struct {
	Source string
	Text   string
	Score  float64
}

// ExecContext is created fresh per tool invocation and is never shared
// across concurrent requests. It bundles everything an executor needs:
// structured logging, the backend facade, the process-wide platform
// snapshot/setter, and an optional retriever handle.
type ExecContext struct {
	Logger    *clog.Logger
	Backend   backend.Facade
	Retriever Retriever // nil unless a RAG index is wired in

	// platform carries the snapshot taken at dispatch time plus the
	// single-owner setter; reached via methods below so executors never
	// touch a package-level variable directly.
	platformStatus platform.Status
	platformSetter func(platform.Status)
}

// Platform returns the platform snapshot captured when this context was
// created.
func (c *ExecContext) Platform() platform.Status { return c.platformStatus }

// SetPlatform invokes the process-wide platform setter. Only explicit
// backend-selection code should call this in practice; it is exposed on
// the context so tests can inject a fake setter.
func (c *ExecContext) SetPlatform(s platform.Status) {
	if c.platformSetter != nil {
		c.platformSetter(s)
	}
	c.platformStatus = s
}

// NewExecContext builds an ExecContext snapshotting the current platform
// status from the given accessor.
func NewExecContext(logger *clog.Logger, be backend.Facade, retriever Retriever, getter func() platform.Status, setter func(platform.Status)) *ExecContext {
	return &ExecContext{
		Logger:         logger,
		Backend:        be,
		Retriever:      retriever,
		platformStatus: getter(),
		platformSetter: setter,
	}
}
