// Package logring provides a bounded in-memory sink for zap log entries.
//
// A Core keeps the most recent entries in a fixed-capacity ring buffer:
// once the buffer is full, every new entry evicts the oldest one. Attach
// it to an existing logger to keep a cheap tail of recent logs around for
// crash reports or debug endpoints, without unbounded memory growth.
package logring

import (
	"sync"

	"github.com/flowbehappy/ringo/pkg/metrics"
	"github.com/flowbehappy/ringo/ringbuf"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggedEntry is a single entry retained by a Core, with the fields of the
// write and of all parent With calls flattened into Context.
type LoggedEntry struct {
	zapcore.Entry
	Context []zapcore.Field
}

// ContextMap returns the context fields rendered as a plain map. It is
// mainly useful in tests and debug dumps.
func (e LoggedEntry) ContextMap() map[string]interface{} {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range e.Context {
		f.AddTo(enc)
	}
	return enc.Fields
}

// buffer is the retention state shared by a Core and all its With clones.
type buffer struct {
	mu sync.Mutex
	rb *ringbuf.RingBuf[LoggedEntry]

	written atomic.Int64
	evicted atomic.Int64

	entriesGauge prometheus.Gauge
	writtenTotal prometheus.Counter
	evictedTotal prometheus.Counter
}

// Core is a zapcore.Core that retains the most recent entries it accepts.
// All methods are safe for concurrent use.
type Core struct {
	zapcore.LevelEnabler
	buf     *buffer
	context []zapcore.Field
}

// NewCore creates a Core retaining at most capacity entries at or above
// the given level. Metrics are reported under the name "global".
func NewCore(capacity int, enab zapcore.LevelEnabler) *Core {
	return NewNamedCore("global", capacity, enab)
}

// NewNamedCore is like NewCore but reports metrics under the given name.
func NewNamedCore(name string, capacity int, enab zapcore.LevelEnabler) *Core {
	buf := &buffer{
		rb: ringbuf.New[LoggedEntry](capacity),

		entriesGauge: metrics.LogRingEntries.WithLabelValues(name),
		writtenTotal: metrics.LogRingWrittenTotal.WithLabelValues(name),
		evictedTotal: metrics.LogRingEvictedTotal.WithLabelValues(name),
	}
	metrics.LogRingCapacity.WithLabelValues(name).Set(float64(capacity))
	return &Core{
		LevelEnabler: enab,
		buf:          buf,
	}
}

// With clones the Core with the extra context fields. The clone shares the
// retention buffer with its parent.
func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	context := make([]zapcore.Field, 0, len(c.context)+len(fields))
	context = append(context, c.context...)
	context = append(context, fields...)
	return &Core{
		LevelEnabler: c.LevelEnabler,
		buf:          c.buf,
		context:      context,
	}
}

func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.context)+len(fields))
	all = append(all, c.context...)
	all = append(all, fields...)

	buf := c.buf
	buf.mu.Lock()
	if buf.rb.Cap() == 0 || buf.rb.IsFull() {
		// The new entry displaces an old one, or is dropped outright when
		// the ring has no capacity at all. Both count as an eviction.
		buf.evicted.Inc()
		buf.evictedTotal.Inc()
	}
	buf.rb.PushBack(LoggedEntry{Entry: ent, Context: all})
	buf.entriesGauge.Set(float64(buf.rb.Len()))
	buf.mu.Unlock()

	buf.written.Inc()
	buf.writtenTotal.Inc()
	return nil
}

func (c *Core) Sync() error { return nil }

// Len returns the number of entries currently retained.
func (c *Core) Len() int {
	c.buf.mu.Lock()
	defer c.buf.mu.Unlock()
	return c.buf.rb.Len()
}

// Cap returns the retention capacity.
func (c *Core) Cap() int {
	c.buf.mu.Lock()
	defer c.buf.mu.Unlock()
	return c.buf.rb.Cap()
}

// Written returns the total number of entries accepted by Write.
func (c *Core) Written() int64 { return c.buf.written.Load() }

// Evicted returns the total number of entries displaced or dropped because
// the ring was full.
func (c *Core) Evicted() int64 { return c.buf.evicted.Load() }

// All returns a copy of the retained entries, oldest first.
func (c *Core) All() []LoggedEntry {
	c.buf.mu.Lock()
	defer c.buf.mu.Unlock()
	return c.buf.rb.Slice()
}

// TakeAll returns the retained entries, oldest first, and empties the ring.
func (c *Core) TakeAll() []LoggedEntry {
	c.buf.mu.Lock()
	defer c.buf.mu.Unlock()
	out := c.buf.rb.Slice()
	c.buf.rb.Clear()
	c.buf.entriesGauge.Set(0)
	return out
}

// Attach returns a logger that writes to both the logger's own cores and
// this Core.
func (c *Core) Attach(lg *zap.Logger) *zap.Logger {
	return lg.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, c)
	}))
}
