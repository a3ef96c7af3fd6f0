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

import "github.com/google/uuid"

// NewCorrelationID generates a fresh per-request identifier. The
// registry calls this once per Dispatch so every log line and result
// emitted for one tool invocation can be tied together, independent of
// the MCP transport's own request framing.
func NewCorrelationID() string {
	return uuid.NewString()
}
