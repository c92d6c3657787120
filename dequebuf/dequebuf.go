// Package dequebuf provides a ring buffer built on the block deque. Every
// operation delegates to the deque or walks it outright, which keeps the code
// short enough to review at a glance; the tests use it as the reference
// behavior for the efficient implementation in package ringbuf. Unlike that
// one, its capacity can be changed after construction.
package dequebuf

import (
	"github.com/flowbehappy/ringo/deque"
	"github.com/flowbehappy/ringo/pkg/apperror"
)

const blockWidth = 32

// Buf keeps the newest Cap() values pushed into it, in order.
type Buf[T any] struct {
	dq       *deque.Deque[T]
	capacity int
}

func New[T any](capacity int) *Buf[T] {
	if capacity < 0 {
		panic("ring buffer capacity must be non-negative")
	}
	return &Buf[T]{
		dq:       deque.NewDeque[T](blockWidth, 0),
		capacity: capacity,
	}
}

func (b *Buf[T]) Len() int { return b.dq.Length() }

func (b *Buf[T]) Cap() int { return b.capacity }

func (b *Buf[T]) IsEmpty() bool { return b.dq.Length() == 0 }

func (b *Buf[T]) IsFull() bool { return b.dq.Length() == b.capacity }

func (b *Buf[T]) Front() (T, bool) { return b.dq.Front() }

func (b *Buf[T]) Back() (T, bool) { return b.dq.Back() }

func (b *Buf[T]) FrontRef() (*T, bool) { return b.dq.FrontRef() }

func (b *Buf[T]) BackRef() (*T, bool) { return b.dq.BackRef() }

// PushBack appends v, evicting the front element first when the buffer is
// full. It returns a pointer to the stored slot or nil for capacity 0.
func (b *Buf[T]) PushBack(v T) *T {
	if b.capacity == 0 {
		return nil
	}
	if b.dq.Length() == b.capacity {
		b.dq.PopFront()
	}
	b.dq.PushBack(v)
	p, _ := b.dq.BackRef()
	return p
}

// PushFront prepends v, evicting the back element first when the buffer is
// full.
func (b *Buf[T]) PushFront(v T) *T {
	if b.capacity == 0 {
		return nil
	}
	if b.dq.Length() == b.capacity {
		b.dq.PopBack()
	}
	b.dq.PushFront(v)
	p, _ := b.dq.FrontRef()
	return p
}

func (b *Buf[T]) PopFront() (T, bool) { return b.dq.PopFront() }

func (b *Buf[T]) PopBack() (T, bool) { return b.dq.PopBack() }

func (b *Buf[T]) Clear() {
	for b.dq.Length() > 0 {
		b.dq.PopFront()
	}
}

// At returns the element at logical index i by walking from the front.
func (b *Buf[T]) At(i int) (T, error) {
	if i < 0 || i >= b.dq.Length() {
		var zero T
		return zero, apperror.ErrIndexOutOfRange.GenWithStackByArgs(i, b.dq.Length())
	}
	itr := b.dq.ForwardIterator()
	for skip := 0; skip < i; skip++ {
		itr.Next()
	}
	v, _ := itr.Next()
	return v, nil
}

// Slice returns the elements front to back, nil when empty.
func (b *Buf[T]) Slice() []T {
	if b.dq.Length() == 0 {
		return nil
	}
	out := make([]T, 0, b.dq.Length())
	itr := b.dq.ForwardIterator()
	for v, ok := itr.Next(); ok; v, ok = itr.Next() {
		out = append(out, v)
	}
	return out
}

// EraseRange removes the elements at logical indexes [first, last) by
// draining the deque and pushing the survivors back. Slow, but obviously
// correct.
func (b *Buf[T]) EraseRange(first, last int) error {
	length := b.dq.Length()
	if first < 0 || first > last || last > length {
		return apperror.ErrInvalidRange.GenWithStackByArgs(first, last, length)
	}
	if first == last {
		return nil
	}
	kept := make([]T, 0, length-(last-first))
	for i := 0; i < length; i++ {
		v, _ := b.dq.PopFront()
		if i < first || i >= last {
			kept = append(kept, v)
		}
	}
	for _, v := range kept {
		b.dq.PushBack(v)
	}
	return nil
}

// SetCapacity changes the capacity at runtime. Shrinking drops the oldest
// elements until the buffer fits.
func (b *Buf[T]) SetCapacity(capacity int) {
	if capacity < 0 {
		panic("ring buffer capacity must be non-negative")
	}
	for b.dq.Length() > capacity {
		b.dq.PopFront()
	}
	b.capacity = capacity
}

func (b *Buf[T]) Clone() *Buf[T] {
	out := New[T](b.capacity)
	itr := b.dq.ForwardIterator()
	for v, ok := itr.Next(); ok; v, ok = itr.Next() {
		out.dq.PushBack(v)
	}
	return out
}

func (b *Buf[T]) ForwardIterator() *deque.ForwardIter[T] {
	return b.dq.ForwardIterator()
}

func (b *Buf[T]) BackwardIterator() *deque.BackwardIter[T] {
	return b.dq.BackwardIterator()
}
