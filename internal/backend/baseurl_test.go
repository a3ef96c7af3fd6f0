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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBaseURL_ExplicitBaseURL(t *testing.T) {
	url, err := BuildBaseURL(DeviceConfig{BaseURL: "http://10.0.0.5/"})
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5", url)
}

func TestBuildBaseURL_BareHostGetsHTTPScheme(t *testing.T) {
	url, err := BuildBaseURL(DeviceConfig{BaseURL: "10.0.0.5:8080"})
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8080", url)
}

func TestBuildBaseURL_HostnamePortDefault80Omitted(t *testing.T) {
	url, err := BuildBaseURL(DeviceConfig{Hostname: "ultimate.local", Port: 80})
	require.NoError(t, err)
	assert.Equal(t, "http://ultimate.local", url)
}

func TestBuildBaseURL_HostnamePortNonDefault(t *testing.T) {
	url, err := BuildBaseURL(DeviceConfig{Hostname: "ultimate.local", Port: 8080})
	require.NoError(t, err)
	assert.Equal(t, "http://ultimate.local:8080", url)
}

func TestBuildBaseURL_IPv6HostnameBracketed(t *testing.T) {
	url, err := BuildBaseURL(DeviceConfig{Hostname: "fe80::1", Port: 80})
	require.NoError(t, err)
	assert.Equal(t, "http://[fe80::1]", url)
}

func TestBuildBaseURL_ExplicitHostWins(t *testing.T) {
	url, err := BuildBaseURL(DeviceConfig{Host: "10.0.0.9:1234", Hostname: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.9:1234", url)
}

func TestBuildBaseURL_NoneConfiguredErrors(t *testing.T) {
	_, err := BuildBaseURL(DeviceConfig{})
	assert.Error(t, err)
}
