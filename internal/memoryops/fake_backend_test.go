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

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
)

// fakeFacade is a minimal backend.Facade stub for memory-operation tests.
// Every method not explicitly wired returns an unsupported error so
// accidental calls fail loudly.
type fakeFacade struct {
	pauseFail  bool
	resumeFail bool
	pauseCalls  int
	resumeCalls int

	reads     [][]byte // sequential ReadMemory results
	readCalls int
	readErr   error

	writeErr error
}

func (f *fakeFacade) Name() string { return "fake" }

func (f *fakeFacade) Pause(ctx context.Context) (*backend.Result, error) {
	f.pauseCalls++
	if f.pauseFail {
		return &backend.Result{Success: false}, nil
	}
	return &backend.Result{Success: true}, nil
}

func (f *fakeFacade) Resume(ctx context.Context) (*backend.Result, error) {
	f.resumeCalls++
	if f.resumeFail {
		return nil, errFake("resume failed")
	}
	return &backend.Result{Success: true}, nil
}

func (f *fakeFacade) ReadMemory(ctx context.Context, address uint16, length int) (*backend.Result, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	idx := f.readCalls
	f.readCalls++
	if idx >= len(f.reads) {
		return &backend.Result{Success: true, Data: make([]byte, length)}, nil
	}
	return &backend.Result{Success: true, Data: f.reads[idx]}, nil
}

func (f *fakeFacade) WriteMemory(ctx context.Context, address uint16, data []byte) (*backend.Result, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &backend.Result{Success: true}, nil
}

type errFake string

func (e errFake) Error() string { return string(e) }

func unsupportedErr() (*backend.Result, error) {
	return nil, &backend.UnsupportedError{Backend: "fake", Operation: "unused"}
}

func (f *fakeFacade) Reset(ctx context.Context) (*backend.Result, error)    { return unsupportedErr() }
func (f *fakeFacade) Reboot(ctx context.Context) (*backend.Result, error)   { return unsupportedErr() }
func (f *fakeFacade) PowerOff(ctx context.Context) (*backend.Result, error) { return unsupportedErr() }
func (f *fakeFacade) Menu(ctx context.Context) (*backend.Result, error)     { return unsupportedErr() }

func (f *fakeFacade) ReadScreen(ctx context.Context) (*backend.Result, error) { return unsupportedErr() }
func (f *fakeFacade) DebugRegRead(ctx context.Context, reg string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) DebugRegWrite(ctx context.Context, reg string, value uint32) (*backend.Result, error) {
	return unsupportedErr()
}

func (f *fakeFacade) LoadPRG(ctx context.Context, data []byte) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) RunPRG(ctx context.Context, data []byte) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) RunCRT(ctx context.Context, data []byte) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) RunPRGFile(ctx context.Context, path string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) SIDPlayFile(ctx context.Context, path string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) SIDPlayAttachment(ctx context.Context, data []byte) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) ModPlayFile(ctx context.Context, path string) (*backend.Result, error) {
	return unsupportedErr()
}

func (f *fakeFacade) ListDrives(ctx context.Context) (*backend.Result, error) { return unsupportedErr() }
func (f *fakeFacade) MountDrive(ctx context.Context, drive string, image []byte, mode string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) RemoveDrive(ctx context.Context, drive string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) ResetDrive(ctx context.Context, drive string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) DriveOn(ctx context.Context, drive string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) DriveOff(ctx context.Context, drive string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) SetDriveMode(ctx context.Context, drive, mode string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) LoadDriveROM(ctx context.Context, drive string, rom []byte) (*backend.Result, error) {
	return unsupportedErr()
}

func (f *fakeFacade) StartStream(ctx context.Context, kind string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) StopStream(ctx context.Context, kind string) (*backend.Result, error) {
	return unsupportedErr()
}

func (f *fakeFacade) ListConfigCategories(ctx context.Context) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) GetConfigCategory(ctx context.Context, category string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) SetConfigItem(ctx context.Context, category, item string, value any) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) BatchUpdateConfig(ctx context.Context, categories map[string]map[string]any) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) LoadFlash(ctx context.Context) (*backend.Result, error)  { return unsupportedErr() }
func (f *fakeFacade) SaveFlash(ctx context.Context) (*backend.Result, error)  { return unsupportedErr() }
func (f *fakeFacade) ResetConfigDefaults(ctx context.Context) (*backend.Result, error) {
	return unsupportedErr()
}

func (f *fakeFacade) FileInfo(ctx context.Context, path string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) CreateD64(ctx context.Context, path string, tracks int) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) CreateD71(ctx context.Context, path string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) CreateD81(ctx context.Context, path string) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) CreateDNP(ctx context.Context, path string, blocks int) (*backend.Result, error) {
	return unsupportedErr()
}
func (f *fakeFacade) ListPaths(ctx context.Context, root string, recursive bool) (*backend.Result, error) {
	return unsupportedErr()
}

func (f *fakeFacade) Version(ctx context.Context) (*backend.Result, error) { return unsupportedErr() }
func (f *fakeFacade) Info(ctx context.Context) (*backend.Result, error)    { return unsupportedErr() }
