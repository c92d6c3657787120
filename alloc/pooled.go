package alloc

import (
	"github.com/eapache/queue"
)

// Pooled recycles backing arrays of a single length through a FIFO free list.
// Arrays of any other length fall through to the plain heap and are never
// pooled. Each Pooled instance owns its free list, so two instances compare
// unequal; by default the instance travels with its storage on move and swap
// but not on copy.
type Pooled[T any] struct {
	sliceLen int
	maxFree  int
	free     *queue.Queue
	cfg      Config

	hits   int64
	misses int64
}

// NewPooled creates a pool for backing arrays of sliceLen slots, keeping at
// most maxFree of them around.
func NewPooled[T any](sliceLen, maxFree int, opts ...Option) *Pooled[T] {
	if sliceLen < 1 || maxFree < 1 {
		panic("pooled allocator needs a positive slice length and free bound")
	}
	cfg := Config{
		PropagateOnMove: true,
		PropagateOnSwap: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pooled[T]{
		sliceLen: sliceLen,
		maxFree:  maxFree,
		free:     queue.New(),
		cfg:      cfg,
	}
}

func (p *Pooled[T]) Allocate(n int) []T {
	if n == p.sliceLen && p.free.Length() > 0 {
		p.hits++
		return p.free.Remove().([]T)
	}
	p.misses++
	return make([]T, n)
}

func (p *Pooled[T]) Deallocate(s []T) {
	if len(s) != p.sliceLen || p.free.Length() >= p.maxFree {
		return
	}
	// A pooled array must not pin the payloads of its previous owner.
	var zero T
	for i := range s {
		s[i] = zero
	}
	p.free.Add(s)
}

func (p *Pooled[T]) Construct(slot *T, v T) { *slot = v }

func (p *Pooled[T]) Destroy(slot *T) {
	var zero T
	*slot = zero
}

func (p *Pooled[T]) Config() Config { return p.cfg }

// FreeLen returns the number of arrays currently parked in the free list.
func (p *Pooled[T]) FreeLen() int { return p.free.Length() }

// Hits and Misses report how often Allocate was served from the free list.
func (p *Pooled[T]) Hits() int64 { return p.hits }

func (p *Pooled[T]) Misses() int64 { return p.misses }
