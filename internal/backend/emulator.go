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

package backend

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// DefaultEmulatorRunTimeout is how long RunPRG waits for the spawned
// emulator before killing it, absent EMULATOR_RUN_TIMEOUT_MS.
const DefaultEmulatorRunTimeout = 10 * time.Second

// MinEmulatorRunTimeout is the floor applied to any configured timeout.
const MinEmulatorRunTimeout = 1 * time.Second

// EmulatorBackend spawns and controls a VICE-style emulator binary. It
// only implements program execution: every other facade method reports
// an *UnsupportedError so callers always see a uniform execution error
// rather than a missing method.
type EmulatorBackend struct {
	executable string
	runTimeout time.Duration

	mu      sync.Mutex
	tempDir string
}

// NewEmulatorBackend builds a backend bound to a resolved emulator
// executable path.
func NewEmulatorBackend(executable string, runTimeout time.Duration) *EmulatorBackend {
	if runTimeout < MinEmulatorRunTimeout {
		runTimeout = MinEmulatorRunTimeout
	}
	return &EmulatorBackend{executable: executable, runTimeout: runTimeout}
}

// ResolveEmulatorExecutable finds the emulator binary: an explicit
// configured path first, falling back to a PATH lookup by name.
func ResolveEmulatorExecutable(configuredPath, name string) (string, error) {
	if configuredPath != "" {
		if _, err := os.Stat(configuredPath); err != nil {
			return "", fmt.Errorf("configured emulator path %q: %w", configuredPath, err)
		}
		return configuredPath, nil
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("emulator %q not found on PATH: %w", name, err)
	}
	return path, nil
}

// EmulatorRunTimeoutFromEnv reads EMULATOR_RUN_TIMEOUT_MS, falling back to
// DefaultEmulatorRunTimeout when unset or invalid.
func EmulatorRunTimeoutFromEnv(raw string) time.Duration {
	if raw == "" {
		return DefaultEmulatorRunTimeout
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return DefaultEmulatorRunTimeout
	}
	timeout := time.Duration(ms) * time.Millisecond
	if timeout < MinEmulatorRunTimeout {
		timeout = MinEmulatorRunTimeout
	}
	return timeout
}

func (e *EmulatorBackend) Name() string { return "emulator" }

func unsupported(op string) (*Result, error) {
	return nil, &UnsupportedError{Backend: "emulator", Operation: op}
}

// RunPRG writes the program to a temp file and spawns the emulator with
// -silent -warp -autostart, killing it after the configured run timeout.
func (e *EmulatorBackend) RunPRG(ctx context.Context, data []byte) (*Result, error) {
	dir, err := e.ensureTempDir()
	if err != nil {
		return nil, err
	}
	file, err := os.CreateTemp(dir, "c64bridge-*.prg")
	if err != nil {
		return nil, fmt.Errorf("creating temp program file: %w", err)
	}
	path := file.Name()
	if _, err := file.Write(data); err != nil {
		file.Close()
		return nil, fmt.Errorf("writing temp program file: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, e.runTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.executable, "-silent", "-warp", "-autostart", path)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting emulator: %w", err)
	}
	err = cmd.Wait()
	if runCtx.Err() == context.DeadlineExceeded {
		return &Result{Success: true, Data: map[string]any{
			"path":    path,
			"timeout": e.runTimeout.String(),
			"killed":  true,
		}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("emulator exited: %w", err)
	}
	return &Result{Success: true, Data: map[string]any{"path": path, "killed": false}}, nil
}

func (e *EmulatorBackend) ensureTempDir() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tempDir != "" {
		return e.tempDir, nil
	}
	dir, err := os.MkdirTemp("", "c64bridge-emulator-")
	if err != nil {
		return "", err
	}
	e.tempDir = dir
	return dir, nil
}

// Version and Info return a canned descriptor: the emulator has no REST
// introspection endpoint, but callers still expect a uniform response.
func (e *EmulatorBackend) Version(ctx context.Context) (*Result, error) {
	return &Result{Success: true, Data: map[string]any{
		"backend":    "emulator",
		"executable": filepath.Base(e.executable),
	}}, nil
}

func (e *EmulatorBackend) Info(ctx context.Context) (*Result, error) {
	return &Result{Success: true, Data: map[string]any{
		"backend":     "emulator",
		"executable":  e.executable,
		"run_timeout": e.runTimeout.String(),
	}}, nil
}

// Every other facade method is structurally unsupported by the emulator
// backend.

func (e *EmulatorBackend) Pause(ctx context.Context) (*Result, error)    { return unsupported("pause") }
func (e *EmulatorBackend) Resume(ctx context.Context) (*Result, error)   { return unsupported("resume") }
func (e *EmulatorBackend) Reset(ctx context.Context) (*Result, error)    { return unsupported("reset") }
func (e *EmulatorBackend) Reboot(ctx context.Context) (*Result, error)   { return unsupported("reboot") }
func (e *EmulatorBackend) PowerOff(ctx context.Context) (*Result, error) { return unsupported("poweroff") }
func (e *EmulatorBackend) Menu(ctx context.Context) (*Result, error)     { return unsupported("menu") }

func (e *EmulatorBackend) ReadMemory(ctx context.Context, address uint16, length int) (*Result, error) {
	return unsupported("read_memory")
}
func (e *EmulatorBackend) WriteMemory(ctx context.Context, address uint16, data []byte) (*Result, error) {
	return unsupported("write_memory")
}
func (e *EmulatorBackend) ReadScreen(ctx context.Context) (*Result, error) { return unsupported("read_screen") }
func (e *EmulatorBackend) DebugRegRead(ctx context.Context, reg string) (*Result, error) {
	return unsupported("debug_reg_read")
}
func (e *EmulatorBackend) DebugRegWrite(ctx context.Context, reg string, value uint32) (*Result, error) {
	return unsupported("debug_reg_write")
}

func (e *EmulatorBackend) LoadPRG(ctx context.Context, data []byte) (*Result, error) {
	return unsupported("load_prg")
}
func (e *EmulatorBackend) RunCRT(ctx context.Context, data []byte) (*Result, error) {
	return unsupported("run_crt")
}
func (e *EmulatorBackend) RunPRGFile(ctx context.Context, path string) (*Result, error) {
	return unsupported("run_prg_file")
}
func (e *EmulatorBackend) SIDPlayFile(ctx context.Context, path string) (*Result, error) {
	return unsupported("sidplay_file")
}
func (e *EmulatorBackend) SIDPlayAttachment(ctx context.Context, data []byte) (*Result, error) {
	return unsupported("sidplay_attachment")
}
func (e *EmulatorBackend) ModPlayFile(ctx context.Context, path string) (*Result, error) {
	return unsupported("modplay_file")
}

func (e *EmulatorBackend) ListDrives(ctx context.Context) (*Result, error) { return unsupported("list_drives") }
func (e *EmulatorBackend) MountDrive(ctx context.Context, drive string, image []byte, mode string) (*Result, error) {
	return unsupported("mount_drive")
}
func (e *EmulatorBackend) RemoveDrive(ctx context.Context, drive string) (*Result, error) {
	return unsupported("remove_drive")
}
func (e *EmulatorBackend) ResetDrive(ctx context.Context, drive string) (*Result, error) {
	return unsupported("reset_drive")
}
func (e *EmulatorBackend) DriveOn(ctx context.Context, drive string) (*Result, error) {
	return unsupported("drive_on")
}
func (e *EmulatorBackend) DriveOff(ctx context.Context, drive string) (*Result, error) {
	return unsupported("drive_off")
}
func (e *EmulatorBackend) SetDriveMode(ctx context.Context, drive, mode string) (*Result, error) {
	return unsupported("set_drive_mode")
}
func (e *EmulatorBackend) LoadDriveROM(ctx context.Context, drive string, rom []byte) (*Result, error) {
	return unsupported("load_drive_rom")
}

func (e *EmulatorBackend) StartStream(ctx context.Context, kind string) (*Result, error) {
	return unsupported("start_stream")
}
func (e *EmulatorBackend) StopStream(ctx context.Context, kind string) (*Result, error) {
	return unsupported("stop_stream")
}

func (e *EmulatorBackend) ListConfigCategories(ctx context.Context) (*Result, error) {
	return unsupported("list_config_categories")
}
func (e *EmulatorBackend) GetConfigCategory(ctx context.Context, category string) (*Result, error) {
	return unsupported("get_config_category")
}
func (e *EmulatorBackend) SetConfigItem(ctx context.Context, category, item string, value any) (*Result, error) {
	return unsupported("set_config_item")
}
func (e *EmulatorBackend) BatchUpdateConfig(ctx context.Context, categories map[string]map[string]any) (*Result, error) {
	return unsupported("batch_update_config")
}
func (e *EmulatorBackend) LoadFlash(ctx context.Context) (*Result, error)  { return unsupported("load_flash") }
func (e *EmulatorBackend) SaveFlash(ctx context.Context) (*Result, error)  { return unsupported("save_flash") }
func (e *EmulatorBackend) ResetConfigDefaults(ctx context.Context) (*Result, error) {
	return unsupported("reset_config_defaults")
}

func (e *EmulatorBackend) FileInfo(ctx context.Context, path string) (*Result, error) {
	return unsupported("file_info")
}
func (e *EmulatorBackend) CreateD64(ctx context.Context, path string, tracks int) (*Result, error) {
	return unsupported("create_d64")
}
func (e *EmulatorBackend) CreateD71(ctx context.Context, path string) (*Result, error) {
	return unsupported("create_d71")
}
func (e *EmulatorBackend) CreateD81(ctx context.Context, path string) (*Result, error) {
	return unsupported("create_d81")
}
func (e *EmulatorBackend) CreateDNP(ctx context.Context, path string, blocks int) (*Result, error) {
	return unsupported("create_dnp")
}
func (e *EmulatorBackend) ListPaths(ctx context.Context, root string, recursive bool) (*Result, error) {
	return unsupported("list_paths")
}
