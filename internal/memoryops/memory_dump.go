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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// DumpFormat selects the on-disk encoding of a memory dump.
type DumpFormat string

const (
	FormatHex    DumpFormat = "hex"
	FormatBinary DumpFormat = "binary"
)

// MemoryDumpInput is the validated argument shape for the memory-dump
// operation.
type MemoryDumpInput struct {
	Address         string
	Length          int
	OutputPath      string
	Format          DumpFormat
	ChunkSize       int
	PauseDuringRead bool
	Retries         int
}

// Manifest is the sidecar JSON document written alongside every dump.
type Manifest struct {
	Address   string     `json:"address"`
	Length    int        `json:"length"`
	ChunkSize int        `json:"chunkSize"`
	Format    DumpFormat `json:"format"`
	Checksum  string     `json:"checksum"`
	OutputPath string    `json:"outputPath"`
	CreatedAt string     `json:"createdAt"`
}

const addressSpaceEnd = 0x10000

// MemoryDump reads length bytes from address in chunkSize pieces,
// writes them to outputPath in the requested format, and writes a
// SHA-256 manifest alongside it.
func MemoryDump(ctx context.Context, ec *toolkit.ExecContext, in MemoryDumpInput) (*Manifest, error) {
	addr, err := ParseAddress(in.Address)
	if err != nil {
		return nil, toolkit.ValidationError("$.address", err.Error(), nil)
	}

	paused := false
	if in.PauseDuringRead {
		result, err := ec.Backend.Pause(ctx)
		if err != nil {
			return nil, toolkit.ExecutionError("failure while pausing", map[string]any{"cause": err.Error()})
		}
		if result == nil || !result.Success {
			return nil, toolkit.ExecutionError("failure while pausing", nil)
		}
		paused = true
	}
	if paused {
		defer resumeGuard(ctx, ec.Backend, ec.Logger)()
	}

	buf := make([]byte, 0, in.Length)
	remaining := in.Length
	cursor := addr
	for remaining > 0 {
		chunkLen := in.ChunkSize
		if chunkLen > remaining {
			chunkLen = remaining
		}
		chunkEnd := cursor + uint32(chunkLen)
		if chunkEnd > addressSpaceEnd {
			return nil, toolkit.ExecutionError("wrap past end of address space", map[string]any{
				"address": fmt.Sprintf("$%04X", cursor),
				"length":  chunkLen,
			})
		}

		chunk, err := readChunkWithRetries(ctx, ec, uint16(cursor), chunkLen, in.Retries)
		if err != nil {
			return nil, toolkit.ExecutionError("failed to read memory chunk", map[string]any{
				"address": fmt.Sprintf("$%04X", cursor),
				"cause":   err.Error(),
			})
		}
		buf = append(buf, chunk...)
		cursor += uint32(chunkLen)
		remaining -= chunkLen
	}

	if err := writeDumpFile(in.OutputPath, in.Format, buf); err != nil {
		return nil, toolkit.ExecutionError("failed to write dump output", map[string]any{"cause": err.Error()})
	}

	sum := sha256.Sum256(buf)
	manifest := &Manifest{
		Address:    fmt.Sprintf("$%04X", addr),
		Length:     in.Length,
		ChunkSize:  in.ChunkSize,
		Format:     in.Format,
		Checksum:   strings.ToUpper(hex.EncodeToString(sum[:])),
		OutputPath: in.OutputPath,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, toolkit.ExecutionError("failed to encode manifest", map[string]any{"cause": err.Error()})
	}
	if err := os.WriteFile(in.OutputPath+".json", manifestBytes, 0o644); err != nil {
		return nil, toolkit.ExecutionError("failed to write manifest", map[string]any{"cause": err.Error()})
	}

	return manifest, nil
}

func readChunkWithRetries(ctx context.Context, ec *toolkit.ExecContext, address uint16, length int, retries int) ([]byte, error) {
	attempts := retries + 1
	var lastErr error
	for i := 0; i < attempts; i++ {
		result, err := ec.Backend.ReadMemory(ctx, address, length)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := resultBytes(result)
		if err != nil {
			lastErr = err
			continue
		}
		return data, nil
	}
	return nil, lastErr
}

func writeDumpFile(path string, format DumpFormat, data []byte) error {
	if format == FormatBinary {
		return os.WriteFile(path, data, 0o644)
	}
	text := strings.ToUpper(hex.EncodeToString(data))
	return os.WriteFile(path, []byte(text), 0o644)
}
