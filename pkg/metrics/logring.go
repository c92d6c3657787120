// Copyright 2024 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	LogRingEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ringo",
			Subsystem: "logring",
			Name:      "entries",
			Help:      "The number of log entries currently retained",
		}, []string{"name"})
	LogRingCapacity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ringo",
			Subsystem: "logring",
			Name:      "capacity",
			Help:      "The retention capacity of the ring",
		}, []string{"name"})
	LogRingWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ringo",
			Subsystem: "logring",
			Name:      "written_total",
			Help:      "The number of log entries written to the ring",
		}, []string{"name"})
	LogRingEvictedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ringo",
			Subsystem: "logring",
			Name:      "evicted_total",
			Help:      "The number of log entries evicted or dropped by the ring",
		}, []string{"name"})
)

func InitLogRingMetrics(registry *prometheus.Registry) {
	registry.MustRegister(LogRingEntries)
	registry.MustRegister(LogRingCapacity)
	registry.MustRegister(LogRingWrittenTotal)
	registry.MustRegister(LogRingEvictedTotal)
}
