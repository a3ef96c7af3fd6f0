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
	"time"
)

// ProbeTimeout is how long selection waits for a device to answer before
// falling back to the emulator.
const ProbeTimeout = 1500 * time.Millisecond

// SelectionConfig carries everything the 7-rule backend selection order
// needs to see: explicit caller overrides, the MODE environment value,
// and whichever config sections are present.
type SelectionConfig struct {
	ExplicitBaseURL string // caller-supplied baseUrl, highest priority
	Mode            string // MODE env var: "device", "emulator", or ""

	HasDeviceConfig   bool
	Device            DeviceConfig
	HasEmulatorConfig bool
	EmulatorPath      string
	EmulatorName      string
	RunTimeout        time.Duration
}

// Selection is the resolved outcome: which backend kind was chosen and
// why, plus enough detail to construct it.
type Selection struct {
	Kind   string // "device" or "emulator"
	Reason string
	BaseURL string // set when Kind == "device"
}

// Select walks a fixed priority order to decide which backend to use:
//  1. explicit caller base URL        -> device
//  2. MODE=device                     -> device
//  3. MODE=emulator                   -> emulator
//  4. config has device section only  -> device
//  5. config has emulator section only -> emulator
//  6. config has both sections        -> device
//  7. no config at all                -> probe a default device URL,
//     falling back to emulator if unreachable
func Select(ctx context.Context, cfg SelectionConfig) (Selection, error) {
	if cfg.ExplicitBaseURL != "" {
		return Selection{Kind: "device", Reason: "explicit base URL", BaseURL: cfg.ExplicitBaseURL}, nil
	}
	if cfg.Mode == "device" {
		url, err := resolveConfiguredOrDefaultBaseURL(cfg)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Kind: "device", Reason: "MODE=device", BaseURL: url}, nil
	}
	if cfg.Mode == "emulator" {
		return Selection{Kind: "emulator", Reason: "MODE=emulator"}, nil
	}
	if cfg.HasDeviceConfig && !cfg.HasEmulatorConfig {
		url, err := BuildBaseURL(cfg.Device)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Kind: "device", Reason: "device config present", BaseURL: url}, nil
	}
	if cfg.HasEmulatorConfig && !cfg.HasDeviceConfig {
		return Selection{Kind: "emulator", Reason: "emulator config present"}, nil
	}
	if cfg.HasDeviceConfig && cfg.HasEmulatorConfig {
		url, err := BuildBaseURL(cfg.Device)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Kind: "device", Reason: "both configs present, device preferred", BaseURL: url}, nil
	}

	url, err := BuildBaseURL(DeviceConfig{Hostname: "localhost", Port: 80})
	if err != nil {
		return Selection{}, err
	}
	if Probe(ctx, url, ProbeTimeout) {
		return Selection{Kind: "device", Reason: "no config, device reachable at default address", BaseURL: url}, nil
	}
	return Selection{Kind: "emulator", Reason: "no config, device unreachable, falling back"}, nil
}

func resolveConfiguredOrDefaultBaseURL(cfg SelectionConfig) (string, error) {
	if cfg.HasDeviceConfig {
		return BuildBaseURL(cfg.Device)
	}
	return BuildBaseURL(DeviceConfig{Hostname: "localhost", Port: 80})
}

// Build constructs the concrete Facade for a Selection.
func Build(sel Selection, cfg SelectionConfig, opts ...DeviceOption) (Facade, error) {
	switch sel.Kind {
	case "device":
		return NewDeviceBackend(sel.BaseURL, opts...), nil
	case "emulator":
		exe, err := ResolveEmulatorExecutable(cfg.EmulatorPath, cfg.EmulatorName)
		if err != nil {
			return nil, err
		}
		return NewEmulatorBackend(exe, cfg.RunTimeout), nil
	default:
		return nil, fmt.Errorf("unknown backend selection kind %q", sel.Kind)
	}
}
