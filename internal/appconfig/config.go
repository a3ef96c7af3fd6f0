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

// Package appconfig loads the bridge's JSON configuration file and
// exposes it in the shape internal/backend's selector expects.
package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c64bridge/c64bridge-mcp/internal/backend"
)

// DeviceSection is the "device" object of the configuration file.
type DeviceSection struct {
	BaseURL  string `json:"baseUrl,omitempty"`
	Host     string `json:"host,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	Port     int    `json:"port,omitempty"`
}

// EmulatorSection is the "emulator" object of the configuration file.
type EmulatorSection struct {
	Exe string `json:"exe,omitempty"`
}

// Config is the full decoded configuration file.
type Config struct {
	Device   *DeviceSection   `json:"device,omitempty"`
	Emulator *EmulatorSection `json:"emulator,omitempty"`
}

// Locate resolves the configuration file path: env.CONFIG_FILE, then
// repo-root .c64bridge.json, then <$HOME>/.c64bridge.json. It returns
// "" when none of those exist — absence is not an error, only an
// unreadable file that claims to exist is.
func Locate() string {
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		return p
	}
	if wd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(wd, ".c64bridge.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".c64bridge.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Load reads and decodes the configuration file at path. A path that
// does not exist yields a zero-value Config with no error — only an
// existing-but-unreadable or malformed file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &cfg, nil
}

// SelectionConfig adapts a decoded Config into the shape
// backend.Select expects, folding in explicitBaseURL (a caller
// preference that always wins over anything in the config file).
func (c *Config) SelectionConfig(explicitBaseURL string) backend.SelectionConfig {
	sel := backend.SelectionConfig{
		ExplicitBaseURL: explicitBaseURL,
		Mode:            os.Getenv("MODE"),
		RunTimeout:      backend.EmulatorRunTimeoutFromEnv(os.Getenv("EMULATOR_RUN_TIMEOUT_MS")),
	}
	if c.Device != nil {
		sel.HasDeviceConfig = true
		sel.Device = backend.DeviceConfig{
			BaseURL:  c.Device.BaseURL,
			Host:     c.Device.Host,
			Hostname: c.Device.Hostname,
			Port:     c.Device.Port,
		}
	}
	if c.Emulator != nil {
		sel.HasEmulatorConfig = true
		sel.EmulatorPath = c.Emulator.Exe
		sel.EmulatorName = "x64sc"
	}
	return sel
}
