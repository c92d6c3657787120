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

package bench

import (
	"math/rand"
	"time"

	"github.com/flowbehappy/ringo/alloc"
	"github.com/flowbehappy/ringo/dequebuf"
	"github.com/flowbehappy/ringo/pkg/config"
	"github.com/flowbehappy/ringo/ringbuf"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"
)

// The workload releases and rebuilds the container this often, so that the
// storage allocation path is part of what gets measured.
const rebuildEvery = 1 << 16

// benchOptions defines flags for the `bench` command.
type benchOptions struct {
	cfg        *config.BenchConfig
	configPath string
	jsonOutput bool
}

// newBenchOptions creates new benchOptions for the `bench` command.
func newBenchOptions() *benchOptions {
	return &benchOptions{cfg: config.NewDefaultBenchConfig()}
}

// addFlags binds the workload flags to the `bench` command.
func (o *benchOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.cfg.Variant, "variant", o.cfg.Variant, "Container to benchmark, ring or dequebuf")
	cmd.Flags().IntVar(&o.cfg.Capacity, "capacity", o.cfg.Capacity, "Capacity of the container")
	cmd.Flags().IntVar(&o.cfg.Ops, "ops", o.cfg.Ops, "Number of operations to run")
	cmd.Flags().IntVar(&o.cfg.PayloadBytes, "payload-bytes", o.cfg.PayloadBytes, "Extra payload bytes carried by each element")
	cmd.Flags().BoolVar(&o.cfg.Pooled, "pooled", o.cfg.Pooled, "Use the pooled storage allocator for the ring variant")
	cmd.Flags().Int64Var(&o.cfg.Seed, "seed", o.cfg.Seed, "Seed of the push and pop mix")
	cmd.Flags().BoolVar(&o.jsonOutput, "json", false, "Print the report as JSON")
	cmd.Flags().StringVar(&o.configPath, "config", "", "Path of the benchmark configuration file")
	cmd.Flags().Lookup("config").Hidden = true
}

// complete adapts from the command line args and the optional configuration
// file to a validated workload.
func (o *benchOptions) complete(cmd *cobra.Command) error {
	if o.configPath != "" {
		fileCfg, err := config.LoadBenchConfig(o.configPath)
		if err != nil {
			return err
		}
		// Flags given on the command line win over the file.
		if !cmd.Flags().Changed("variant") {
			o.cfg.Variant = fileCfg.Variant
		}
		if !cmd.Flags().Changed("capacity") {
			o.cfg.Capacity = fileCfg.Capacity
		}
		if !cmd.Flags().Changed("ops") {
			o.cfg.Ops = fileCfg.Ops
		}
		if !cmd.Flags().Changed("payload-bytes") {
			o.cfg.PayloadBytes = fileCfg.PayloadBytes
		}
		if !cmd.Flags().Changed("pooled") {
			o.cfg.Pooled = fileCfg.Pooled
		}
		if !cmd.Flags().Changed("seed") {
			o.cfg.Seed = fileCfg.Seed
		}
	}
	return o.cfg.Validate()
}

// run runs the `bench` command.
func (o *benchOptions) run(cmd *cobra.Command) error {
	cfg := o.cfg
	log.Info("starting benchmark",
		zap.String("variant", cfg.Variant),
		zap.Int("capacity", cfg.Capacity),
		zap.Int("ops", cfg.Ops),
		zap.Int("payload-bytes", cfg.PayloadBytes),
		zap.Bool("pooled", cfg.Pooled))

	var rep *report
	switch cfg.Variant {
	case config.VariantRing:
		rep = runRing(cfg)
	case config.VariantDequeBuf:
		rep = runDequeBuf(cfg)
	}
	log.Info("benchmark finished",
		zap.Float64("ns-per-op", rep.NsPerOp),
		zap.Float64("ops-per-sec", rep.OpsPerSec))

	if o.jsonOutput {
		data, err := sonnet.Marshal(rep)
		if err != nil {
			return errors.Trace(err)
		}
		cmd.Println(string(data))
		return nil
	}
	cmd.Printf("variant: %s\n", rep.Variant)
	cmd.Printf("capacity: %d\n", rep.Capacity)
	cmd.Printf("ops: %d\n", rep.Ops)
	cmd.Printf("elapsed: %.1fms\n", rep.ElapsedMs)
	cmd.Printf("ns/op: %.1f\n", rep.NsPerOp)
	cmd.Printf("ops/sec: %.0f\n", rep.OpsPerSec)
	if rep.Pooled {
		cmd.Printf("pool hits/misses: %d/%d\n", rep.PoolHits, rep.PoolMisses)
	}
	return nil
}

// NewCmdBench creates the `bench` command.
func NewCmdBench() *cobra.Command {
	o := newBenchOptions()

	command := &cobra.Command{
		Use:   "bench",
		Short: "Run a push/pop workload against a bounded container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.complete(cmd); err != nil {
				return err
			}
			return o.run(cmd)
		},
	}
	o.addFlags(command)

	return command
}

// report is the measured result of one workload run.
type report struct {
	Variant      string  `json:"variant"`
	Capacity     int     `json:"capacity"`
	Ops          int     `json:"ops"`
	PayloadBytes int     `json:"payload_bytes"`
	Pooled       bool    `json:"pooled"`
	ElapsedMs    float64 `json:"elapsed_ms"`
	NsPerOp      float64 `json:"ns_per_op"`
	OpsPerSec    float64 `json:"ops_per_sec"`
	FinalLen     int     `json:"final_len"`
	PoolHits     int64   `json:"pool_hits,omitempty"`
	PoolMisses   int64   `json:"pool_misses,omitempty"`
}

type benchElem struct {
	seq     uint64
	payload []byte
}

func newReport(cfg *config.BenchConfig, elapsed time.Duration, finalLen int) *report {
	return &report{
		Variant:      cfg.Variant,
		Capacity:     cfg.Capacity,
		Ops:          cfg.Ops,
		PayloadBytes: cfg.PayloadBytes,
		Pooled:       cfg.Pooled,
		ElapsedMs:    float64(elapsed.Nanoseconds()) / 1e6,
		NsPerOp:      float64(elapsed.Nanoseconds()) / float64(cfg.Ops),
		OpsPerSec:    float64(cfg.Ops) / elapsed.Seconds(),
		FinalLen:     finalLen,
	}
}

func runRing(cfg *config.BenchConfig) *report {
	var allocator alloc.Allocator[benchElem]
	var pool *alloc.Pooled[benchElem]
	if cfg.Pooled {
		pool = alloc.NewPooled[benchElem](cfg.Capacity+1, 4)
		allocator = pool
	}

	r := rand.New(rand.NewSource(cfg.Seed))
	rb := ringbuf.NewWithAllocator(cfg.Capacity, allocator)
	start := time.Now()
	var seq uint64
	for i := 0; i < cfg.Ops; i++ {
		if i > 0 && i%rebuildEvery == 0 {
			rb.Release()
			rb = ringbuf.NewWithAllocator(cfg.Capacity, allocator)
		}
		roll := r.Intn(10)
		switch {
		case roll < 3:
			rb.PushBack(benchElem{seq: seq, payload: newPayload(cfg.PayloadBytes)})
			seq++
		case roll < 6:
			rb.PushFront(benchElem{seq: seq, payload: newPayload(cfg.PayloadBytes)})
			seq++
		case roll < 8:
			rb.PopFront()
		default:
			rb.PopBack()
		}
	}
	elapsed := time.Since(start)

	rep := newReport(cfg, elapsed, rb.Len())
	if pool != nil {
		rep.PoolHits = pool.Hits()
		rep.PoolMisses = pool.Misses()
	}
	return rep
}

func runDequeBuf(cfg *config.BenchConfig) *report {
	r := rand.New(rand.NewSource(cfg.Seed))
	buf := dequebuf.New[benchElem](cfg.Capacity)
	start := time.Now()
	var seq uint64
	for i := 0; i < cfg.Ops; i++ {
		if i > 0 && i%rebuildEvery == 0 {
			buf = dequebuf.New[benchElem](cfg.Capacity)
		}
		roll := r.Intn(10)
		switch {
		case roll < 3:
			buf.PushBack(benchElem{seq: seq, payload: newPayload(cfg.PayloadBytes)})
			seq++
		case roll < 6:
			buf.PushFront(benchElem{seq: seq, payload: newPayload(cfg.PayloadBytes)})
			seq++
		case roll < 8:
			buf.PopFront()
		default:
			buf.PopBack()
		}
	}
	elapsed := time.Since(start)

	return newReport(cfg, elapsed, buf.Len())
}

func newPayload(n int) []byte {
	if n == 0 {
		return nil
	}
	return make([]byte, n)
}
