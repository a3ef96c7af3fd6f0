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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_MissingRequiredField(t *testing.T) {
	s := Object(map[string]*Schema{
		"address": String("address"),
	}, []string{"address"})

	_, err := s.Parse(map[string]any{}, "$")
	require.Error(t, err)
	te := AsToolError(err)
	assert.Equal(t, KindValidation, te.Kind)
	assert.Equal(t, "$.address", te.Path)
}

func TestObject_UnknownFieldRejected(t *testing.T) {
	s := Object(map[string]*Schema{"address": String("")}, nil)
	_, err := s.Parse(map[string]any{"address": "1000", "bogus": true}, "$")
	require.Error(t, err)
	assert.Equal(t, "$.bogus", AsToolError(err).Path)
}

func TestObject_ParsesKnownFields(t *testing.T) {
	s := Object(map[string]*Schema{
		"address": String(""),
		"length":  Number("", WithMin(1)),
	}, []string{"address"})

	parsed, err := s.Parse(map[string]any{"address": "1000", "length": float64(16)}, "$")
	require.NoError(t, err)
	out := parsed.(map[string]any)
	assert.Equal(t, "1000", out["address"])
	assert.Equal(t, float64(16), out["length"])
}

func TestString_Enum(t *testing.T) {
	s := String("", WithEnum("hex", "binary"))
	_, err := s.Parse("hex", "$")
	require.NoError(t, err)

	_, err = s.Parse("bogus", "$")
	require.Error(t, err)
}

func TestNumber_MinMax(t *testing.T) {
	s := Number("", WithMin(1), WithMax(10))
	_, err := s.Parse(float64(0), "$")
	assert.Error(t, err)

	_, err = s.Parse(float64(11), "$")
	assert.Error(t, err)

	v, err := s.Parse(float64(5), "$")
	require.NoError(t, err)
	assert.Equal(t, float64(5), v)
}

func TestUnion_DispatchesByOp(t *testing.T) {
	u := Union([]Variant{
		{Op: "pause", Schema: Object(map[string]*Schema{}, nil)},
		{Op: "write", Schema: Object(map[string]*Schema{"bytes": String("")}, []string{"bytes"})},
	})

	parsed, err := u.Parse(map[string]any{"op": "write", "bytes": "ff"}, "$")
	require.NoError(t, err)
	out := parsed.(map[string]any)
	assert.Equal(t, "write", out["op"])
	assert.Equal(t, "ff", out["bytes"])
}

func TestUnion_UnknownOp(t *testing.T) {
	u := Union([]Variant{{Op: "pause", Schema: Object(map[string]*Schema{}, nil)}})
	_, err := u.Parse(map[string]any{"op": "bogus"}, "$")
	require.Error(t, err)
	assert.Equal(t, "$.op", AsToolError(err).Path)
}

func TestUnion_MissingOp(t *testing.T) {
	u := Union([]Variant{{Op: "pause", Schema: Object(map[string]*Schema{}, nil)}})
	_, err := u.Parse(map[string]any{}, "$")
	require.Error(t, err)
	assert.Equal(t, "$.op", AsToolError(err).Path)
}
