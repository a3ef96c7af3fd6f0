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

// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for tool dispatch.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ToolMetrics collects per-tool call counts and latencies.
type ToolMetrics struct {
	callsTotal *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewToolMetrics registers the tool-call metrics with the default
// Prometheus registry.
func NewToolMetrics() *ToolMetrics {
	return &ToolMetrics{
		callsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "c64bridge_tool_calls_total",
			Help: "Total number of tool invocations.",
		}, []string{"tool", "op", "status"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "c64bridge_tool_call_duration_seconds",
			Help:    "Duration of tool invocations in seconds.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"tool", "op", "status"}),
	}
}

// Observe records one completed call.
func (m *ToolMetrics) Observe(tool, op, status string, d time.Duration) {
	m.callsTotal.WithLabelValues(tool, op, status).Inc()
	m.duration.WithLabelValues(tool, op, status).Observe(d.Seconds())
}
