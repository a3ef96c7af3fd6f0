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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// octetStreamThreshold is the write size at or above which the device
// backend switches from form-encoded to raw octet-stream POST bodies.
const octetStreamThreshold = 128

// DefaultHTTPTimeout is the default per-request timeout for the device
// REST client.
const DefaultHTTPTimeout = 10 * time.Second

// DeviceBackend talks to a real Ultimate device over its REST API,
// expressed directly against net/http since no generated client for
// that API ships in this module.
type DeviceBackend struct {
	baseURL string
	client  *http.Client

	// limiter throttles outbound calls so a misbehaving background task
	// (intervals as low as 1ms are allowed) cannot saturate the
	// device's REST endpoint. nil means unthrottled.
	limiter *rate.Limiter
}

// DeviceOption configures a DeviceBackend.
type DeviceOption func(*DeviceBackend)

// WithRateLimit caps outbound device calls to r per second with burst b.
func WithRateLimit(r float64, b int) DeviceOption {
	return func(d *DeviceBackend) {
		d.limiter = rate.NewLimiter(rate.Limit(r), b)
	}
}

// WithHTTPTimeout overrides the default 10s client timeout.
func WithHTTPTimeout(timeout time.Duration) DeviceOption {
	return func(d *DeviceBackend) {
		d.client.Timeout = timeout
	}
}

// NewDeviceBackend constructs a backend bound to baseURL (already fully
// resolved by BuildBaseURL).
func NewDeviceBackend(baseURL string, opts ...DeviceOption) *DeviceBackend {
	d := &DeviceBackend{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *DeviceBackend) Name() string { return "device" }

func (d *DeviceBackend) wait(ctx context.Context) error {
	if d.limiter == nil {
		return nil
	}
	return d.limiter.Wait(ctx)
}

// FormatAddress renders an address as zero-padded uppercase 4 hex
// digits, no prefix.
func FormatAddress(addr uint16) string {
	return fmt.Sprintf("%04X", addr)
}

func (d *DeviceBackend) url(path string, query url.Values) string {
	u := d.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (d *DeviceBackend) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (int, http.Header, []byte, error) {
	if err := d.wait(ctx); err != nil {
		return 0, nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, d.url(path, query), body)
	if err != nil {
		return 0, nil, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, resp.Header, nil, err
	}
	return resp.StatusCode, resp.Header, data, nil
}

func resultFromStatus(status int, data []byte, parsedData any) (*Result, error) {
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("device returned HTTP %d: %s", status, string(data))
	}
	return &Result{Success: true, Data: parsedData}, nil
}

func (d *DeviceBackend) simplePost(ctx context.Context, path string) (*Result, error) {
	status, _, data, err := d.do(ctx, http.MethodPost, path, nil, "", nil)
	if err != nil {
		return nil, err
	}
	return resultFromStatus(status, data, string(data))
}

func (d *DeviceBackend) simpleGetJSON(ctx context.Context, path string, query url.Values) (*Result, error) {
	status, _, data, err := d.do(ctx, http.MethodGet, path, query, "", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("device returned HTTP %d: %s", status, string(data))
	}
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		parsed = string(data)
	}
	return &Result{Success: true, Data: parsed}, nil
}

// --- machine ---

func (d *DeviceBackend) Pause(ctx context.Context) (*Result, error)    { return d.simplePost(ctx, "/v1/machine:pause") }
func (d *DeviceBackend) Resume(ctx context.Context) (*Result, error)   { return d.simplePost(ctx, "/v1/machine:resume") }
func (d *DeviceBackend) Reset(ctx context.Context) (*Result, error)    { return d.simplePost(ctx, "/v1/machine:reset") }
func (d *DeviceBackend) Reboot(ctx context.Context) (*Result, error)   { return d.simplePost(ctx, "/v1/machine:reboot") }
func (d *DeviceBackend) PowerOff(ctx context.Context) (*Result, error) { return d.simplePost(ctx, "/v1/machine:poweroff") }
func (d *DeviceBackend) Menu(ctx context.Context) (*Result, error)     { return d.simplePost(ctx, "/v1/machine:menu_button") }

// --- memory ---

func (d *DeviceBackend) ReadMemory(ctx context.Context, address uint16, length int) (*Result, error) {
	query := url.Values{
		"address": {"$" + FormatAddress(address)},
		"length":  {strconv.Itoa(length)},
	}
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url("/v1/memory", query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/octet-stream, application/json;q=0.5")
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("device returned HTTP %d: %s", resp.StatusCode, string(data))
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var payload struct {
			Data string `json:"data"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decoding json memory response: %w", err)
		}
		raw, err := decodeHexPayload(payload.Data)
		if err != nil {
			return nil, err
		}
		return &Result{Success: true, Data: raw}, nil
	}
	return &Result{Success: true, Data: data}, nil
}

func decodeHexPayload(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "$")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex payload")
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		var b int
		if _, err := fmt.Sscanf(s[i*2:i*2+2], "%02X", &b); err != nil {
			return nil, err
		}
		out[i] = byte(b)
	}
	return out, nil
}

func (d *DeviceBackend) WriteMemory(ctx context.Context, address uint16, data []byte) (*Result, error) {
	query := url.Values{"address": {"$" + FormatAddress(address)}}
	if len(data) < octetStreamThreshold {
		form := url.Values{"data": {fmt.Sprintf("%X", data)}}
		status, _, respBody, err := d.do(ctx, http.MethodPut, "/v1/memory", query, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		return resultFromStatus(status, respBody, nil)
	}
	status, _, respBody, err := d.do(ctx, http.MethodPost, "/v1/memory", query, "application/octet-stream", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return resultFromStatus(status, respBody, nil)
}

func (d *DeviceBackend) ReadScreen(ctx context.Context) (*Result, error) {
	return d.simpleGetJSON(ctx, "/v1/screen", nil)
}

func (d *DeviceBackend) DebugRegRead(ctx context.Context, reg string) (*Result, error) {
	return d.simpleGetJSON(ctx, "/v1/debug/reg", url.Values{"reg": {reg}})
}

func (d *DeviceBackend) DebugRegWrite(ctx context.Context, reg string, value uint32) (*Result, error) {
	query := url.Values{"reg": {reg}, "value": {fmt.Sprintf("%d", value)}}
	status, _, data, err := d.do(ctx, http.MethodPut, "/v1/debug/reg", query, "", nil)
	if err != nil {
		return nil, err
	}
	return resultFromStatus(status, data, nil)
}

// --- programs ---

func (d *DeviceBackend) postBinary(ctx context.Context, path string, data []byte, query url.Values) (*Result, error) {
	status, _, respBody, err := d.do(ctx, http.MethodPost, path, query, "application/octet-stream", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return resultFromStatus(status, respBody, nil)
}

func (d *DeviceBackend) LoadPRG(ctx context.Context, data []byte) (*Result, error) {
	return d.postBinary(ctx, "/v1/runners:load_prg", data, nil)
}
func (d *DeviceBackend) RunPRG(ctx context.Context, data []byte) (*Result, error) {
	return d.postBinary(ctx, "/v1/runners:run_prg", data, nil)
}
func (d *DeviceBackend) RunCRT(ctx context.Context, data []byte) (*Result, error) {
	return d.postBinary(ctx, "/v1/runners:run_crt", data, nil)
}
func (d *DeviceBackend) RunPRGFile(ctx context.Context, path string) (*Result, error) {
	return d.simplePostQuery(ctx, "/v1/runners:run_prg_file", url.Values{"file": {path}})
}
func (d *DeviceBackend) SIDPlayFile(ctx context.Context, path string) (*Result, error) {
	return d.simplePostQuery(ctx, "/v1/runners:sidplay_file", url.Values{"file": {path}})
}
func (d *DeviceBackend) SIDPlayAttachment(ctx context.Context, data []byte) (*Result, error) {
	return d.postBinary(ctx, "/v1/runners:sidplay_attachment", data, nil)
}
func (d *DeviceBackend) ModPlayFile(ctx context.Context, path string) (*Result, error) {
	return d.simplePostQuery(ctx, "/v1/runners:modplay_file", url.Values{"file": {path}})
}

func (d *DeviceBackend) simplePostQuery(ctx context.Context, path string, query url.Values) (*Result, error) {
	status, _, data, err := d.do(ctx, http.MethodPost, path, query, "", nil)
	if err != nil {
		return nil, err
	}
	return resultFromStatus(status, data, string(data))
}

// --- drives ---

func (d *DeviceBackend) ListDrives(ctx context.Context) (*Result, error) {
	return d.simpleGetJSON(ctx, "/v1/drives", nil)
}
func (d *DeviceBackend) MountDrive(ctx context.Context, drive string, image []byte, mode string) (*Result, error) {
	query := url.Values{"mode": {mode}}
	return d.postBinary(ctx, "/v1/drives/"+url.PathEscape(drive)+":mount", image, query)
}
func (d *DeviceBackend) RemoveDrive(ctx context.Context, drive string) (*Result, error) {
	return d.simplePut(ctx, "/v1/drives/"+url.PathEscape(drive)+":remove")
}
func (d *DeviceBackend) ResetDrive(ctx context.Context, drive string) (*Result, error) {
	return d.simplePut(ctx, "/v1/drives/"+url.PathEscape(drive)+":reset")
}
func (d *DeviceBackend) DriveOn(ctx context.Context, drive string) (*Result, error) {
	return d.simplePut(ctx, "/v1/drives/"+url.PathEscape(drive)+":on")
}
func (d *DeviceBackend) DriveOff(ctx context.Context, drive string) (*Result, error) {
	return d.simplePut(ctx, "/v1/drives/"+url.PathEscape(drive)+":off")
}
func (d *DeviceBackend) SetDriveMode(ctx context.Context, drive, mode string) (*Result, error) {
	status, _, data, err := d.do(ctx, http.MethodPut, "/v1/drives/"+url.PathEscape(drive)+"/mode", url.Values{"mode": {mode}}, "", nil)
	if err != nil {
		return nil, err
	}
	return resultFromStatus(status, data, nil)
}
func (d *DeviceBackend) LoadDriveROM(ctx context.Context, drive string, rom []byte) (*Result, error) {
	return d.postBinary(ctx, "/v1/drives/"+url.PathEscape(drive)+":load_rom", rom, nil)
}

func (d *DeviceBackend) simplePut(ctx context.Context, path string) (*Result, error) {
	status, _, data, err := d.do(ctx, http.MethodPut, path, nil, "", nil)
	if err != nil {
		return nil, err
	}
	return resultFromStatus(status, data, nil)
}

// --- streams ---

func (d *DeviceBackend) StartStream(ctx context.Context, kind string) (*Result, error) {
	return d.simplePut(ctx, "/v1/streams/"+url.PathEscape(kind)+":start")
}
func (d *DeviceBackend) StopStream(ctx context.Context, kind string) (*Result, error) {
	return d.simplePut(ctx, "/v1/streams/"+url.PathEscape(kind)+":stop")
}

// --- configs ---

func (d *DeviceBackend) ListConfigCategories(ctx context.Context) (*Result, error) {
	return d.simpleGetJSON(ctx, "/v1/configs/categories", nil)
}
func (d *DeviceBackend) GetConfigCategory(ctx context.Context, category string) (*Result, error) {
	return d.simpleGetJSON(ctx, "/v1/configs/"+url.PathEscape(category), nil)
}
func (d *DeviceBackend) SetConfigItem(ctx context.Context, category, item string, value any) (*Result, error) {
	body, err := json.Marshal(map[string]any{item: value})
	if err != nil {
		return nil, err
	}
	status, _, data, err := d.do(ctx, http.MethodPut, "/v1/configs/"+url.PathEscape(category), nil, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return resultFromStatus(status, data, nil)
}
func (d *DeviceBackend) BatchUpdateConfig(ctx context.Context, categories map[string]map[string]any) (*Result, error) {
	body, err := json.Marshal(categories)
	if err != nil {
		return nil, err
	}
	status, _, data, err := d.do(ctx, http.MethodPut, "/v1/configs", nil, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return resultFromStatus(status, data, nil)
}
func (d *DeviceBackend) LoadFlash(ctx context.Context) (*Result, error) {
	return d.simplePut(ctx, "/v1/configs:load_flash")
}
func (d *DeviceBackend) SaveFlash(ctx context.Context) (*Result, error) {
	return d.simplePut(ctx, "/v1/configs:save_flash")
}
func (d *DeviceBackend) ResetConfigDefaults(ctx context.Context) (*Result, error) {
	return d.simplePut(ctx, "/v1/configs:reset_defaults")
}

// --- files ---

func (d *DeviceBackend) FileInfo(ctx context.Context, path string) (*Result, error) {
	return d.simpleGetJSON(ctx, "/v1/files/info", url.Values{"path": {path}})
}
func (d *DeviceBackend) CreateD64(ctx context.Context, path string, tracks int) (*Result, error) {
	return d.simplePostQuery(ctx, "/v1/files:create_d64", url.Values{"path": {path}, "tracks": {strconv.Itoa(tracks)}})
}
func (d *DeviceBackend) CreateD71(ctx context.Context, path string) (*Result, error) {
	return d.simplePostQuery(ctx, "/v1/files:create_d71", url.Values{"path": {path}})
}
func (d *DeviceBackend) CreateD81(ctx context.Context, path string) (*Result, error) {
	return d.simplePostQuery(ctx, "/v1/files:create_d81", url.Values{"path": {path}})
}
func (d *DeviceBackend) CreateDNP(ctx context.Context, path string, blocks int) (*Result, error) {
	return d.simplePostQuery(ctx, "/v1/files:create_dnp", url.Values{"path": {path}, "blocks": {strconv.Itoa(blocks)}})
}
func (d *DeviceBackend) ListPaths(ctx context.Context, root string, recursive bool) (*Result, error) {
	return d.simpleGetJSON(ctx, "/v1/files", url.Values{"root": {root}, "recursive": {strconv.FormatBool(recursive)}})
}

// --- meta ---

func (d *DeviceBackend) Version(ctx context.Context) (*Result, error) { return d.simpleGetJSON(ctx, "/v1/version", nil) }
func (d *DeviceBackend) Info(ctx context.Context) (*Result, error)    { return d.simpleGetJSON(ctx, "/v1/info", nil) }

// Probe issues a lightweight GET against baseURL, accepting any 2xx-4xx
// status as "reachable", within the given timeout. Callers use a short
// timeout (around 1.5s) when probing during backend selection and a
// longer one (around 2s) for a general reachability check.
func Probe(ctx context.Context, baseURL string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}
