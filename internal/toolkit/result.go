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

// Content is a single content block of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// StructuredContent carries the raw successful payload alongside the
// human-readable text block.
type StructuredContent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ErrorMetadata is the shape of metadata.error on a failed result.
type ErrorMetadata struct {
	Kind    ErrorKind `json:"kind"`
	Path    string    `json:"path,omitempty"`
	Code    string    `json:"code,omitempty"`
	Details any       `json:"details,omitempty"`
}

// Result is the uniform tool result envelope every invocation returns.
type Result struct {
	Content           []Content          `json:"content"`
	StructuredContent *StructuredContent `json:"structuredContent,omitempty"`
	Metadata          map[string]any     `json:"metadata,omitempty"`
	IsError           bool               `json:"isError,omitempty"`
}

// Text builds a successful text-only result.
func Text(text string) *Result {
	return &Result{Content: []Content{{Type: "text", Text: text}}}
}

// WithStructured attaches a structured JSON payload to a result.
func (r *Result) WithStructured(data any) *Result {
	r.StructuredContent = &StructuredContent{Type: "json", Data: data}
	return r
}

// WithMetadata merges key/value pairs into the result's metadata map.
func (r *Result) WithMetadata(kv map[string]any) *Result {
	if r.Metadata == nil {
		r.Metadata = map[string]any{}
	}
	for k, v := range kv {
		r.Metadata[k] = v
	}
	return r
}

// FromError converts any error into a failed Result, classifying it via
// AsToolError first. This is the single conversion point the dispatcher
// and every tool module funnel errors through on the way out.
func FromError(err error) *Result {
	te := AsToolError(err)
	text := te.Message
	if te.Path != "" {
		text = te.Error()
	}
	return &Result{
		Content: []Content{{Type: "text", Text: text}},
		IsError: true,
		Metadata: map[string]any{
			"error": &ErrorMetadata{
				Kind:    te.Kind,
				Path:    te.Path,
				Code:    te.Code,
				Details: te.Details,
			},
		},
	}
}
