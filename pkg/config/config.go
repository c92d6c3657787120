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

package config

import (
	"fmt"
	"os"

	"github.com/flowbehappy/ringo/pkg/apperror"
	"github.com/sugawarayuuta/sonnet"
)

// Container variants the benchmark can drive.
const (
	VariantRing     = "ring"
	VariantDequeBuf = "dequebuf"
)

const (
	defaultCapacity = 4096
	defaultOps      = 1000000
)

// BenchConfig describes one benchmark workload.
type BenchConfig struct {
	// Variant selects the container under test, "ring" or "dequebuf".
	Variant string `json:"variant"`
	// Capacity is the bound of the container.
	Capacity int `json:"capacity"`
	// Ops is the number of operations the workload performs.
	Ops int `json:"ops"`
	// PayloadBytes is the size of the extra payload carried by each element.
	PayloadBytes int `json:"payload_bytes"`
	// Pooled runs the ring variant with the pooled storage allocator.
	Pooled bool `json:"pooled"`
	// Seed drives the push and pop mix of the workload.
	Seed int64 `json:"seed"`
}

func NewDefaultBenchConfig() *BenchConfig {
	return &BenchConfig{
		Variant:      VariantRing,
		Capacity:     defaultCapacity,
		Ops:          defaultOps,
		PayloadBytes: 0,
		Pooled:       false,
		Seed:         1,
	}
}

// Validate checks that the configuration describes a runnable workload.
func (c *BenchConfig) Validate() error {
	if c.Variant != VariantRing && c.Variant != VariantDequeBuf {
		return apperror.ErrInvalidConfig.GenWithStackByArgs(fmt.Sprintf("unknown variant %q", c.Variant))
	}
	if c.Capacity < 0 {
		return apperror.ErrInvalidConfig.GenWithStackByArgs("capacity must be non-negative")
	}
	if c.Ops <= 0 {
		return apperror.ErrInvalidConfig.GenWithStackByArgs("ops must be positive")
	}
	if c.PayloadBytes < 0 {
		return apperror.ErrInvalidConfig.GenWithStackByArgs("payload bytes must be non-negative")
	}
	if c.Pooled && c.Variant != VariantRing {
		return apperror.ErrInvalidConfig.GenWithStackByArgs("the pooled allocator only applies to the ring variant")
	}
	return nil
}

// LoadBenchConfig reads a benchmark configuration file. Fields absent from
// the file keep their default values.
func LoadBenchConfig(path string) (*BenchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperror.ErrLoadConfigFile.Wrap(err).GenWithStackByArgs(path)
	}
	cfg := NewDefaultBenchConfig()
	if err := sonnet.Unmarshal(data, cfg); err != nil {
		return nil, apperror.ErrLoadConfigFile.Wrap(err).GenWithStackByArgs(path)
	}
	return cfg, nil
}
