package logring

import (
	"sync"
	"testing"

	"github.com/flowbehappy/ringo/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestCoreCapacityBound(t *testing.T) {
	core := NewNamedCore("t-capacity", 3, zapcore.InfoLevel)
	logger := zap.New(core)

	logger.Info("a")
	logger.Info("b")
	logger.Info("c")
	logger.Info("d")
	logger.Info("e")

	require.Equal(t, 3, core.Len())
	require.Equal(t, 3, core.Cap())
	require.Equal(t, int64(5), core.Written())
	require.Equal(t, int64(2), core.Evicted())

	entries := core.All()
	require.Len(t, entries, 3)
	require.Equal(t, "c", entries[0].Message)
	require.Equal(t, "d", entries[1].Message)
	require.Equal(t, "e", entries[2].Message)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
}

func TestCoreWith(t *testing.T) {
	core := NewNamedCore("t-with", 4, zapcore.DebugLevel)
	logger := zap.New(core)

	child := logger.With(zap.String("component", "store"))
	child.Info("open", zap.Int("files", 3))
	logger.Info("plain")

	entries := core.All()
	require.Len(t, entries, 2)

	m := entries[0].ContextMap()
	require.Equal(t, "store", m["component"])
	require.Equal(t, int64(3), m["files"])

	// The parent logger must not pick up the child's context.
	require.Empty(t, entries[1].Context)
}

func TestCoreLevelFiltering(t *testing.T) {
	core := NewNamedCore("t-levels", 4, zapcore.InfoLevel)
	logger := zap.New(core)

	logger.Debug("dropped")
	logger.Info("kept")
	logger.Warn("kept too")

	entries := core.All()
	require.Len(t, entries, 2)
	require.Equal(t, "kept", entries[0].Message)
	require.Equal(t, "kept too", entries[1].Message)
}

func TestCoreTakeAll(t *testing.T) {
	core := NewNamedCore("t-takeall", 4, zapcore.InfoLevel)
	logger := zap.New(core)

	logger.Info("a")
	logger.Info("b")
	logger.Info("c")

	entries := core.TakeAll()
	require.Len(t, entries, 3)
	require.Equal(t, 0, core.Len())
	require.Empty(t, core.All())
	require.Empty(t, core.TakeAll())

	// Draining does not rewind the write counters.
	require.Equal(t, int64(3), core.Written())
}

func TestCoreZeroCapacity(t *testing.T) {
	core := NewNamedCore("t-zero", 0, zapcore.InfoLevel)
	logger := zap.New(core)

	logger.Info("a")
	logger.Info("b")

	require.Equal(t, 0, core.Len())
	require.Empty(t, core.All())
	require.Equal(t, int64(2), core.Written())
	require.Equal(t, int64(2), core.Evicted())
}

func TestCoreAttach(t *testing.T) {
	base := NewNamedCore("t-attach-base", 8, zapcore.InfoLevel)
	tail := NewNamedCore("t-attach-tail", 8, zapcore.InfoLevel)

	logger := tail.Attach(zap.New(base))
	logger.Info("hello")

	require.Equal(t, 1, base.Len())
	require.Equal(t, 1, tail.Len())
	require.Equal(t, "hello", tail.All()[0].Message)
}

func TestCoreMetrics(t *testing.T) {
	core := NewNamedCore("t-metrics", 2, zapcore.InfoLevel)
	logger := zap.New(core)

	logger.Info("a")
	logger.Info("b")
	logger.Info("c")

	require.Equal(t, float64(2), testutil.ToFloat64(metrics.LogRingCapacity.WithLabelValues("t-metrics")))
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.LogRingEntries.WithLabelValues("t-metrics")))
	require.Equal(t, float64(3), testutil.ToFloat64(metrics.LogRingWrittenTotal.WithLabelValues("t-metrics")))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.LogRingEvictedTotal.WithLabelValues("t-metrics")))
}

func TestCoreConcurrent(t *testing.T) {
	core := NewNamedCore("t-concurrent", 64, zapcore.InfoLevel)
	logger := zap.New(core)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				logger.Info("event", zap.Int("worker", g), zap.Int("seq", i))
			}
		}(g)
	}
	wg.Wait()

	require.Equal(t, 64, core.Len())
	require.Equal(t, int64(1600), core.Written())
	require.Equal(t, core.Written()-int64(core.Len()), core.Evicted())
}
