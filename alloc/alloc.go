// Package alloc abstracts backing-array and element lifecycle management for
// the containers in this module. An Allocator hands out and reclaims backing
// slices and constructs or destroys individual slots, so containers can run on
// the plain heap, on a recycling pool, or on an instrumented wrapper without
// changing their own code.
package alloc

import (
	"reflect"
)

// Config carries an allocator's assignment and swap behavior. Go has no
// compile-time allocator traits, so containers consult these flags at runtime
// when copying, moving or swapping buffers that carry different allocators.
type Config struct {
	// PropagateOnCopy makes copy assignment adopt the source's allocator.
	PropagateOnCopy bool
	// PropagateOnMove makes move assignment take the source's allocator
	// along with its storage.
	PropagateOnMove bool
	// PropagateOnSwap exchanges the allocators together with the storage.
	PropagateOnSwap bool
	// AlwaysEqual marks allocators whose instances are interchangeable with
	// every other instance of the same type. Storage from one may be
	// released through another.
	AlwaysEqual bool
}

type Option func(*Config)

func WithPropagateOnCopy(enabled bool) Option {
	return func(c *Config) { c.PropagateOnCopy = enabled }
}

func WithPropagateOnMove(enabled bool) Option {
	return func(c *Config) { c.PropagateOnMove = enabled }
}

func WithPropagateOnSwap(enabled bool) Option {
	return func(c *Config) { c.PropagateOnSwap = enabled }
}

// Allocator manages backing arrays and element slots for a container.
// Implementations are not safe for concurrent use unless documented otherwise.
type Allocator[T any] interface {
	// Allocate returns a backing array of n slots.
	Allocate(n int) []T
	// Deallocate returns a backing array obtained from Allocate.
	Deallocate(s []T)
	// Construct places v into an unoccupied slot.
	Construct(slot *T, v T)
	// Destroy clears an occupied slot so the GC can reclaim its payload.
	Destroy(slot *T)
	Config() Config
}

// Equal reports whether storage allocated through a may be released through b
// and vice versa. A nil Allocator stands for the default Heap. AlwaysEqual
// makes instances interchangeable only within one implementation type; two
// distinct types never share storage even when both claim it.
func Equal[T any](a, b Allocator[T]) bool {
	if a == nil {
		a = Heap[T]{}
	}
	if b == nil {
		b = Heap[T]{}
	}
	if a == b {
		return true
	}
	if !a.Config().AlwaysEqual || !b.Config().AlwaysEqual {
		return false
	}
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}

// Heap is the default allocator: plain make, reclamation left to the GC.
type Heap[T any] struct{}

func (Heap[T]) Allocate(n int) []T { return make([]T, n) }

func (Heap[T]) Deallocate([]T) {}

func (Heap[T]) Construct(slot *T, v T) { *slot = v }

func (Heap[T]) Destroy(slot *T) {
	var zero T
	*slot = zero
}

func (Heap[T]) Config() Config { return Config{AlwaysEqual: true} }
