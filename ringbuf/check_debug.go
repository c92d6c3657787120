//go:build debug

package ringbuf

import (
	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/flowbehappy/ringo/alloc"
)

// In debug builds the unchecked paths verify their preconditions and panic on
// violations instead of reading stale slots.

func sameSnapshot[T any](it Iter[T], b *RingBuf[T]) bool {
	if it.capacity != b.Cap() || it.head != b.head || len(it.data) != len(b.data) {
		return false
	}
	return len(it.data) == 0 || &it.data[0] == &b.data[0]
}

func checkIndex[T any](b *RingBuf[T], i int) {
	if i < 0 || i >= b.length {
		log.Panic("ring buffer index out of range",
			zap.Int("index", i), zap.Int("length", b.length))
	}
}

func checkDeref[T any](it Iter[T]) {
	if it.pos < 0 || it.pos >= it.capacity {
		log.Panic("ring buffer iterator is not dereferenceable",
			zap.Int("pos", it.pos), zap.Int("capacity", it.capacity))
	}
}

func checkPair[T any](a, b Iter[T]) {
	if len(a.data) != len(b.data) ||
		(len(a.data) > 0 && &a.data[0] != &b.data[0]) {
		log.Panic("ring buffer iterators belong to different buffers")
	}
}

func checkErase[T any](b *RingBuf[T], first, last Iter[T]) {
	if !sameSnapshot(first, b) || !sameSnapshot(last, b) {
		log.Panic("erase with an iterator from another buffer or generation")
	}
	if first.pos < 0 || first.pos > last.pos || last.pos > b.length {
		log.Panic("erase range out of order",
			zap.Int("first", first.pos), zap.Int("last", last.pos),
			zap.Int("length", b.length))
	}
}

func checkSwap[T any](a, b *RingBuf[T]) {
	if a.allocConfig().PropagateOnSwap || b.allocConfig().PropagateOnSwap {
		return
	}
	if !alloc.Equal(a.allocator, b.allocator) {
		log.Panic("swap between unequal allocators that do not propagate")
	}
}
