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
	"fmt"
	"net"
	"strings"
)

// DeviceConfig is the subset of configuration relevant to resolving a
// device base URL: either a full baseUrl, or a host[:port] pair, or a
// bare hostname plus a separate port.
type DeviceConfig struct {
	BaseURL  string
	Host     string
	Hostname string
	Port     int
}

// BuildBaseURL resolves cfg down to a single fully-qualified base URL,
// defaulting to the http scheme. For the hostname+port form it brackets
// IPv6 hostnames and omits an explicit default port 80. A baseUrl or
// host value is used as given apart from the default scheme (and, for
// baseUrl, a trimmed trailing slash): an IPv6 literal in it is not
// bracketed and a ":80" in it is not removed.
func BuildBaseURL(cfg DeviceConfig) (string, error) {
	if cfg.BaseURL != "" {
		if strings.Contains(cfg.BaseURL, "://") {
			return strings.TrimSuffix(cfg.BaseURL, "/"), nil
		}
		return "http://" + strings.TrimSuffix(cfg.BaseURL, "/"), nil
	}

	host := cfg.Host
	if host == "" {
		if cfg.Hostname == "" {
			return "", fmt.Errorf("no baseUrl, host, or hostname configured for device backend")
		}
		host = joinHostPort(cfg.Hostname, cfg.Port)
	}
	return "http://" + host, nil
}

// joinHostPort bracket-escapes IPv6 literals (via net.JoinHostPort) and
// omits the default HTTP port 80.
func joinHostPort(hostname string, port int) string {
	if port == 0 || port == 80 {
		if strings.Contains(hostname, ":") && !strings.HasPrefix(hostname, "[") {
			return "[" + hostname + "]"
		}
		return hostname
	}
	return net.JoinHostPort(hostname, fmt.Sprintf("%d", port))
}
