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
	"fmt"
	"sort"
)

// Schema is both a JSON-Schema document (for advertisement over MCP) and a
// runtime validator (via Parse). Builders below compose Schemas; nothing
// in this package depends on a third-party JSON-Schema library — the
// builder/parser pair is the single source of truth for both the
// advertised shape and the runtime check, so they cannot drift apart.
type Schema struct {
	doc   map[string]any
	parse func(value any, path string) (any, error)
}

// JSONSchema returns the advertisable JSON-Schema document.
func (s *Schema) JSONSchema() map[string]any { return s.doc }

// Parse validates value against the schema, returning a *Error with
// KindValidation (carrying the offending JSON-pointer path) on failure.
func (s *Schema) Parse(value any, path string) (any, error) {
	if path == "" {
		path = "$"
	}
	return s.parse(value, path)
}

func joinPath(base, segment string) string {
	return base + "." + segment
}

func joinIndex(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

// Object builds an object schema. props maps property name -> Schema;
// required lists the property names that must be present. Unlisted
// properties are rejected; additionalProperties: false is always the
// default.
func Object(props map[string]*Schema, required []string) *Schema {
	requiredSet := make(map[string]struct{}, len(required))
	for _, r := range required {
		requiredSet[r] = struct{}{}
	}

	propsDoc := make(map[string]any, len(props))
	names := make([]string, 0, len(props))
	for name, p := range props {
		propsDoc[name] = p.doc
		names = append(names, name)
	}
	sort.Strings(names)

	doc := map[string]any{
		"type":                 "object",
		"properties":           propsDoc,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}

	return &Schema{
		doc: doc,
		parse: func(value any, path string) (any, error) {
			obj, ok := value.(map[string]any)
			if !ok {
				return nil, ValidationError(path, "expected an object", value)
			}
			for _, name := range names {
				if _, present := obj[name]; !present {
					if _, isRequired := requiredSet[name]; isRequired {
						return nil, ValidationError(joinPath(path, name), "required field missing", nil)
					}
				}
			}
			for key := range obj {
				if _, known := props[key]; !known {
					return nil, ValidationError(joinPath(path, key), "unknown field", nil)
				}
			}
			out := make(map[string]any, len(obj))
			for _, name := range names {
				v, present := obj[name]
				if !present {
					continue
				}
				parsed, err := props[name].parse(v, joinPath(path, name))
				if err != nil {
					return nil, err
				}
				out[name] = parsed
			}
			return out, nil
		},
	}
}

// StringOpt configures String.
type StringOpt func(*stringCfg)

type stringCfg struct {
	enum      []string
	minLength int
	pattern   string
}

// WithEnum restricts a string schema to a fixed set of values.
func WithEnum(values ...string) StringOpt {
	return func(c *stringCfg) { c.enum = values }
}

// WithMinLength rejects strings shorter than n.
func WithMinLength(n int) StringOpt {
	return func(c *stringCfg) { c.minLength = n }
}

// String builds a string schema.
func String(description string, opts ...StringOpt) *Schema {
	cfg := &stringCfg{}
	for _, o := range opts {
		o(cfg)
	}
	doc := map[string]any{"type": "string"}
	if description != "" {
		doc["description"] = description
	}
	if len(cfg.enum) > 0 {
		anyEnum := make([]any, len(cfg.enum))
		for i, e := range cfg.enum {
			anyEnum[i] = e
		}
		doc["enum"] = anyEnum
	}
	return &Schema{
		doc: doc,
		parse: func(value any, path string) (any, error) {
			s, ok := value.(string)
			if !ok {
				return nil, ValidationError(path, "expected a string", value)
			}
			if cfg.minLength > 0 && len(s) < cfg.minLength {
				return nil, ValidationError(path, fmt.Sprintf("must be at least %d characters", cfg.minLength), value)
			}
			if len(cfg.enum) > 0 {
				found := false
				for _, e := range cfg.enum {
					if e == s {
						found = true
						break
					}
				}
				if !found {
					return nil, ValidationError(path, fmt.Sprintf("must be one of %v", cfg.enum), value)
				}
			}
			return s, nil
		},
	}
}

// NumberOpt configures Number.
type NumberOpt func(*numberCfg)

type numberCfg struct {
	hasMin bool
	min    float64
	hasMax bool
	max    float64
}

// WithMin sets an inclusive minimum.
func WithMin(min float64) NumberOpt {
	return func(c *numberCfg) { c.hasMin, c.min = true, min }
}

// WithMax sets an inclusive maximum.
func WithMax(max float64) NumberOpt {
	return func(c *numberCfg) { c.hasMax, c.max = true, max }
}

// Number builds a numeric schema. Runtime values may be float64,
// float32, int, int32 or int64; they are normalized to float64.
func Number(description string, opts ...NumberOpt) *Schema {
	cfg := &numberCfg{}
	for _, o := range opts {
		o(cfg)
	}
	doc := map[string]any{"type": "number"}
	if description != "" {
		doc["description"] = description
	}
	if cfg.hasMin {
		doc["minimum"] = cfg.min
	}
	if cfg.hasMax {
		doc["maximum"] = cfg.max
	}
	return &Schema{
		doc: doc,
		parse: func(value any, path string) (any, error) {
			f, ok := toFloat64(value)
			if !ok {
				return nil, ValidationError(path, "expected a number", value)
			}
			if cfg.hasMin && f < cfg.min {
				return nil, ValidationError(path, fmt.Sprintf("must be >= %v", cfg.min), value)
			}
			if cfg.hasMax && f > cfg.max {
				return nil, ValidationError(path, fmt.Sprintf("must be <= %v", cfg.max), value)
			}
			return f, nil
		},
	}
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Boolean builds a boolean schema.
func Boolean(description string) *Schema {
	doc := map[string]any{"type": "boolean"}
	if description != "" {
		doc["description"] = description
	}
	return &Schema{
		doc: doc,
		parse: func(value any, path string) (any, error) {
			b, ok := value.(bool)
			if !ok {
				return nil, ValidationError(path, "expected a boolean", value)
			}
			return b, nil
		},
	}
}

// Array builds an array schema over a single item schema.
func Array(description string, items *Schema) *Schema {
	doc := map[string]any{"type": "array", "items": items.doc}
	if description != "" {
		doc["description"] = description
	}
	return &Schema{
		doc: doc,
		parse: func(value any, path string) (any, error) {
			arr, ok := value.([]any)
			if !ok {
				return nil, ValidationError(path, "expected an array", value)
			}
			out := make([]any, len(arr))
			for i, item := range arr {
				parsed, err := items.parse(item, joinIndex(path, i))
				if err != nil {
					return nil, err
				}
				out[i] = parsed
			}
			return out, nil
		},
	}
}

// Any builds a schema accepting any JSON value untouched, used for open
// "arguments" objects (e.g. background task operation payloads).
func Any(description string) *Schema {
	doc := map[string]any{"description": description}
	return &Schema{
		doc: doc,
		parse: func(value any, path string) (any, error) {
			return value, nil
		},
	}
}

// Optional returns a schema with inner's document and validator
// unchanged. def is not used: a field absent from the input stays absent
// from the parsed object, and only a field left out of the object's
// required list may be absent at all.
func Optional(inner *Schema, def any) *Schema {
	return &Schema{
		doc:   inner.doc,
		parse: inner.parse,
	}
}

// Literal builds a schema accepting exactly one string value, used as the
// discriminant branch of a grouped-tool union.
func Literal(value string) *Schema {
	return String("", WithEnum(value))
}

// Union builds a discriminated union schema keyed on the fixed property
// "op", generating both the oneOf advertisement and the runtime
// dispatcher from the same variants slice so they cannot drift.
type Variant struct {
	Op     string
	Schema *Schema // object schema WITHOUT the "op" field
}

func Union(variants []Variant) *Schema {
	oneOf := make([]any, 0, len(variants))
	byOp := make(map[string]*Schema, len(variants))
	ops := make([]string, 0, len(variants))
	for _, v := range variants {
		branch := map[string]any{
			"type": "object",
			"properties": map[string]any{
				"op": map[string]any{"type": "string", "const": v.Op},
			},
		}
		for k, pv := range v.Schema.doc["properties"].(map[string]any) {
			branch["properties"].(map[string]any)[k] = pv
		}
		req := append([]string{"op"}, stringSliceOrEmpty(v.Schema.doc["required"])...)
		branch["required"] = req
		oneOf = append(oneOf, branch)
		byOp[v.Op] = v.Schema
		ops = append(ops, v.Op)
	}
	sort.Strings(ops)

	doc := map[string]any{
		"type": "object",
		"oneOf": oneOf,
	}

	return &Schema{
		doc: doc,
		parse: func(value any, path string) (any, error) {
			obj, ok := value.(map[string]any)
			if !ok {
				return nil, ValidationError(path, "expected an object", value)
			}
			opVal, present := obj["op"]
			if !present {
				return nil, &Error{
					Kind:    KindValidation,
					Path:    joinPath(path, "op"),
					Message: "missing required field \"op\"",
					Details: map[string]any{"allowed": ops},
				}
			}
			opStr, ok := opVal.(string)
			if !ok {
				return nil, ValidationError(joinPath(path, "op"), "op must be a string", opVal)
			}
			variantSchema, known := byOp[opStr]
			if !known {
				return nil, &Error{
					Kind:    KindValidation,
					Path:    joinPath(path, "op"),
					Message: fmt.Sprintf("unknown op %q", opStr),
					Details: map[string]any{"allowed": ops},
				}
			}
			rest := make(map[string]any, len(obj)-1)
			for k, v := range obj {
				if k == "op" {
					continue
				}
				rest[k] = v
			}
			parsed, err := variantSchema.parse(rest, path)
			if err != nil {
				return nil, err
			}
			parsedObj, _ := parsed.(map[string]any)
			if parsedObj == nil {
				parsedObj = map[string]any{}
			}
			parsedObj["op"] = opStr
			return parsedObj, nil
		},
	}
}

// AllowedOps returns the sorted list of ops a union schema accepts, the
// same list Union reports as "allowed" on a missing or unknown op.
func AllowedOps(variants []Variant) []string {
	ops := make([]string, 0, len(variants))
	for _, v := range variants {
		ops = append(ops, v.Op)
	}
	sort.Strings(ops)
	return ops
}

func stringSliceOrEmpty(v any) []string {
	if v == nil {
		return nil
	}
	if s, ok := v.([]string); ok {
		return s
	}
	return nil
}
