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

package memoryops

import (
	"context"
	"fmt"

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
	"github.com/c64bridge/c64bridge-mcp/internal/clog"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// Mismatch records a pre-write comparison failure at one byte offset.
type Mismatch struct {
	Offset   int    `json:"offset"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// Diff records a post-write verification failure at one byte offset.
type Diff struct {
	Offset   int    `json:"offset"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// VerifyAndWriteInput is the validated argument shape for the
// verify-and-write operation.
type VerifyAndWriteInput struct {
	Address         string
	Bytes           []byte
	Expected        []byte
	HasExpected     bool
	Mask            []byte
	AbortOnMismatch bool
}

// VerifyAndWriteOutput is what the caller reports back in metadata on
// success.
type VerifyAndWriteOutput struct {
	Wrote    string `json:"wrote"`
	PreRead  string `json:"preRead"`
	PostRead string `json:"postRead"`
}

// resumeGuard issues resume exactly once regardless of how the calling
// function returns, logging (never surfacing) any resume failure so a
// paused machine is never left stuck.
func resumeGuard(ctx context.Context, be backend.Facade, logger *clog.Logger) func() {
	return func() {
		if _, err := be.Resume(ctx); err != nil {
			logger.Warn("resume after pause failed", "error", err)
		}
	}
}

// VerifyAndWrite runs the pause -> read -> compare/mask -> write ->
// read-back -> resume sequence, guaranteeing the resume fires even if a
// step in the middle fails.
func VerifyAndWrite(ctx context.Context, ec *toolkit.ExecContext, in VerifyAndWriteInput) (*VerifyAndWriteOutput, error) {
	addr, err := ParseAddress(in.Address)
	if err != nil {
		return nil, toolkit.ValidationError("$.address", err.Error(), nil)
	}

	pauseResult, err := ec.Backend.Pause(ctx)
	if err != nil {
		return nil, toolkit.ExecutionError("failure while pausing", map[string]any{"cause": err.Error()})
	}
	if pauseResult == nil || !pauseResult.Success {
		return nil, toolkit.ExecutionError("failure while pausing", nil)
	}
	defer resumeGuard(ctx, ec.Backend, ec.Logger)()

	readLen := len(in.Bytes)
	if len(in.Expected) > readLen {
		readLen = len(in.Expected)
	}
	if readLen == 0 {
		readLen = 1
	}

	preReadResult, err := ec.Backend.ReadMemory(ctx, uint16(addr), readLen)
	if err != nil {
		return nil, toolkit.ExecutionError("failed to read memory before write", map[string]any{"cause": err.Error()})
	}
	preRead, err := resultBytes(preReadResult)
	if err != nil {
		return nil, toolkit.ExecutionError("unexpected pre-read payload shape", map[string]any{"cause": err.Error()})
	}

	if in.HasExpected {
		mask := in.Mask
		mismatches := compareWithMask(preRead, in.Expected, mask)
		if len(mismatches) > 0 && in.AbortOnMismatch {
			return nil, toolkit.ExecutionError("pre-write verification mismatch", map[string]any{
				"mismatches": mismatches,
				"address":    BytesToHex([]byte{byte(addr >> 8), byte(addr)}),
			})
		}
	}

	writeResult, err := ec.Backend.WriteMemory(ctx, uint16(addr), in.Bytes)
	if err != nil {
		return nil, toolkit.ExecutionError("failed to write memory", map[string]any{"cause": err.Error()})
	}
	if writeResult != nil && !writeResult.Success {
		return nil, toolkit.ExecutionError("device rejected write", writeResult.Details)
	}

	postReadResult, err := ec.Backend.ReadMemory(ctx, uint16(addr), len(in.Bytes))
	if err != nil {
		return nil, toolkit.ExecutionError("failed to read memory back after write", map[string]any{"cause": err.Error()})
	}
	postRead, err := resultBytes(postReadResult)
	if err != nil {
		return nil, toolkit.ExecutionError("unexpected post-read payload shape", map[string]any{"cause": err.Error()})
	}

	diffs := diffBytes(postRead, in.Bytes)
	if len(diffs) > 0 {
		return nil, toolkit.ExecutionError("post-write verification failed", map[string]any{
			"address": BytesToHex([]byte{byte(addr >> 8), byte(addr)}),
			"diffs":   diffs,
		})
	}

	return &VerifyAndWriteOutput{
		Wrote:    BytesToHex(in.Bytes),
		PreRead:  BytesToHex(preRead),
		PostRead: BytesToHex(postRead),
	}, nil
}

func resultBytes(r *backend.Result) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("nil result")
	}
	switch v := r.Data.(type) {
	case []byte:
		return v, nil
	case string:
		return HexToBytes(v)
	default:
		return nil, fmt.Errorf("cannot interpret %T as bytes", r.Data)
	}
}

func compareWithMask(actual, expected, mask []byte) []Mismatch {
	var mismatches []Mismatch
	for i := 0; i < len(expected) && i < len(actual); i++ {
		m := byte(0xFF)
		if i < len(mask) {
			m = mask[i]
		}
		if (actual[i] & m) != (expected[i] & m) {
			mismatches = append(mismatches, Mismatch{
				Offset:   i,
				Expected: BytesToHex([]byte{expected[i]}),
				Actual:   BytesToHex([]byte{actual[i]}),
			})
		}
	}
	return mismatches
}

func diffBytes(actual, wanted []byte) []Diff {
	var diffs []Diff
	for i := range wanted {
		if i >= len(actual) || actual[i] != wanted[i] {
			var actualByte byte
			if i < len(actual) {
				actualByte = actual[i]
			}
			diffs = append(diffs, Diff{
				Offset:   i,
				Expected: BytesToHex([]byte{wanted[i]}),
				Actual:   BytesToHex([]byte{actualByte}),
			})
		}
	}
	return diffs
}
