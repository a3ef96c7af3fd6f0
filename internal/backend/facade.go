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

// Package backend defines the capability interface over the Commodore 64
// Ultimate target and its two implementations: a device REST client and
// a VICE-style emulator spawn-and-control backend.
package backend

import (
	"context"
	"fmt"
)

// Result is the uniform shape every facade operation returns on success.
// Operations that are structurally impossible for a given backend return
// an *UnsupportedError instead of a Result.
type Result struct {
	Success bool
	Data    any
	Details any
}

// UnsupportedError marks an operation a backend cannot perform at all.
// Modelling it as an explicit failure rather than a missing method
// means callers always see a uniform execution error.
type UnsupportedError struct {
	Backend   string
	Operation string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s backend does not support %q", e.Backend, e.Operation)
}

// Facade is the capability interface every tool module calls through,
// grouped by area: machine, memory, programs, drives, streams, configs,
// files, and meta.
type Facade interface {
	// machine
	Pause(ctx context.Context) (*Result, error)
	Resume(ctx context.Context) (*Result, error)
	Reset(ctx context.Context) (*Result, error)
	Reboot(ctx context.Context) (*Result, error)
	PowerOff(ctx context.Context) (*Result, error)
	Menu(ctx context.Context) (*Result, error)

	// memory
	ReadMemory(ctx context.Context, address uint16, length int) (*Result, error)
	WriteMemory(ctx context.Context, address uint16, data []byte) (*Result, error)
	ReadScreen(ctx context.Context) (*Result, error)
	DebugRegRead(ctx context.Context, reg string) (*Result, error)
	DebugRegWrite(ctx context.Context, reg string, value uint32) (*Result, error)

	// programs
	LoadPRG(ctx context.Context, data []byte) (*Result, error)
	RunPRG(ctx context.Context, data []byte) (*Result, error)
	RunCRT(ctx context.Context, data []byte) (*Result, error)
	RunPRGFile(ctx context.Context, path string) (*Result, error)
	SIDPlayFile(ctx context.Context, path string) (*Result, error)
	SIDPlayAttachment(ctx context.Context, data []byte) (*Result, error)
	ModPlayFile(ctx context.Context, path string) (*Result, error)

	// drives
	ListDrives(ctx context.Context) (*Result, error)
	MountDrive(ctx context.Context, drive string, image []byte, mode string) (*Result, error)
	RemoveDrive(ctx context.Context, drive string) (*Result, error)
	ResetDrive(ctx context.Context, drive string) (*Result, error)
	DriveOn(ctx context.Context, drive string) (*Result, error)
	DriveOff(ctx context.Context, drive string) (*Result, error)
	SetDriveMode(ctx context.Context, drive, mode string) (*Result, error)
	LoadDriveROM(ctx context.Context, drive string, rom []byte) (*Result, error)

	// streams
	StartStream(ctx context.Context, kind string) (*Result, error)
	StopStream(ctx context.Context, kind string) (*Result, error)

	// configs
	ListConfigCategories(ctx context.Context) (*Result, error)
	GetConfigCategory(ctx context.Context, category string) (*Result, error)
	SetConfigItem(ctx context.Context, category, item string, value any) (*Result, error)
	BatchUpdateConfig(ctx context.Context, categories map[string]map[string]any) (*Result, error)
	LoadFlash(ctx context.Context) (*Result, error)
	SaveFlash(ctx context.Context) (*Result, error)
	ResetConfigDefaults(ctx context.Context) (*Result, error)

	// files
	FileInfo(ctx context.Context, path string) (*Result, error)
	CreateD64(ctx context.Context, path string, tracks int) (*Result, error)
	CreateD71(ctx context.Context, path string) (*Result, error)
	CreateD81(ctx context.Context, path string) (*Result, error)
	CreateDNP(ctx context.Context, path string, blocks int) (*Result, error)
	ListPaths(ctx context.Context, root string, recursive bool) (*Result, error)

	// meta
	Version(ctx context.Context) (*Result, error)
	Info(ctx context.Context) (*Result, error)

	// Name identifies which concrete backend is behind the facade, for
	// logging and platform-status details.
	Name() string
}
