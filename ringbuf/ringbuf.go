// Package ringbuf provides a fixed-capacity, double-ended ring buffer that
// evicts its oldest element when a push finds it full. A buffer is owned by
// one goroutine at a time: there is no internal locking, callers that share a
// buffer wrap it in their own mutex.
package ringbuf

import (
	"github.com/flowbehappy/ringo/alloc"
	"github.com/flowbehappy/ringo/pkg/apperror"
)

// RingBuf keeps the newest Cap() values pushed into it, in order. The backing
// array holds one slot more than the capacity so that an empty and a full
// buffer never look alike. The zero value is a usable buffer with capacity 0,
// which swallows every push.
type RingBuf[T any] struct {
	data []T // len(data) == capacity+1, nil only for the zero value

	// head is the physical index of the logical front element, tail the
	// physical index one past the logical back. tail == wrap(head+length).
	head   int
	tail   int
	length int

	allocator alloc.Allocator[T] // nil means plain make and GC reclamation
}

// New creates a buffer that keeps the newest capacity elements.
func New[T any](capacity int) *RingBuf[T] {
	return NewWithAllocator[T](capacity, nil)
}

// NewWithAllocator creates a buffer whose backing array and element slots are
// managed by a.
func NewWithAllocator[T any](capacity int, a alloc.Allocator[T]) *RingBuf[T] {
	if capacity < 0 {
		panic("ring buffer capacity must be non-negative")
	}
	b := &RingBuf[T]{allocator: a}
	b.data = b.allocate(capacity + 1)
	return b
}

// wrap maps a physical position that ran past the backing array back into it.
// Valid for 0 <= i < 2*(capacity+1); a single conditional subtraction, not %.
func wrap(capacity, i int) int {
	if i <= capacity {
		return i
	}
	return i - capacity - 1
}

func inc(capacity, i int) int {
	if i < capacity {
		return i + 1
	}
	return 0
}

func dec(capacity, i int) int {
	if i > 0 {
		return i - 1
	}
	return capacity
}

func (b *RingBuf[T]) allocate(n int) []T {
	if b.allocator == nil {
		return make([]T, n)
	}
	return b.allocator.Allocate(n)
}

func (b *RingBuf[T]) deallocate(s []T) {
	if b.allocator != nil {
		b.allocator.Deallocate(s)
	}
}

func (b *RingBuf[T]) construct(slot *T, v T) {
	if b.allocator == nil {
		*slot = v
		return
	}
	b.allocator.Construct(slot, v)
}

func (b *RingBuf[T]) destroy(slot *T) {
	if b.allocator == nil {
		var zero T
		*slot = zero
		return
	}
	b.allocator.Destroy(slot)
}

func (b *RingBuf[T]) allocConfig() alloc.Config {
	if b.allocator == nil {
		return alloc.Heap[T]{}.Config()
	}
	return b.allocator.Config()
}

// Allocator returns the allocator the buffer was created with, nil for the
// default heap.
func (b *RingBuf[T]) Allocator() alloc.Allocator[T] { return b.allocator }

func (b *RingBuf[T]) Cap() int {
	if len(b.data) == 0 {
		return 0
	}
	return len(b.data) - 1
}

func (b *RingBuf[T]) Len() int { return b.length }

func (b *RingBuf[T]) IsEmpty() bool { return b.length == 0 }

func (b *RingBuf[T]) IsFull() bool { return b.length == b.Cap() }

// At returns the element at logical index i, 0 being the front.
func (b *RingBuf[T]) At(i int) (T, error) {
	if i < 0 || i >= b.length {
		var zero T
		return zero, apperror.ErrIndexOutOfRange.GenWithStackByArgs(i, b.length)
	}
	return b.data[wrap(b.Cap(), b.head+i)], nil
}

// RefAt is At returning a pointer into the buffer. The pointer is valid until
// the next mutation.
func (b *RingBuf[T]) RefAt(i int) (*T, error) {
	if i < 0 || i >= b.length {
		return nil, apperror.ErrIndexOutOfRange.GenWithStackByArgs(i, b.length)
	}
	return &b.data[wrap(b.Cap(), b.head+i)], nil
}

// MustAt is At without the bounds check. An index outside [0, Len()) reads
// whatever slot the ring arithmetic lands on; builds with the debug tag panic
// instead.
func (b *RingBuf[T]) MustAt(i int) T {
	checkIndex(b, i)
	return b.data[wrap(b.Cap(), b.head+i)]
}

// MustRefAt is RefAt without the bounds check.
func (b *RingBuf[T]) MustRefAt(i int) *T {
	checkIndex(b, i)
	return &b.data[wrap(b.Cap(), b.head+i)]
}

func (b *RingBuf[T]) Front() (T, bool) {
	if b.length == 0 {
		var zero T
		return zero, false
	}
	return b.data[b.head], true
}

func (b *RingBuf[T]) FrontRef() (*T, bool) {
	if b.length == 0 {
		return nil, false
	}
	return &b.data[b.head], true
}

func (b *RingBuf[T]) Back() (T, bool) {
	if b.length == 0 {
		var zero T
		return zero, false
	}
	return b.data[dec(b.Cap(), b.tail)], true
}

func (b *RingBuf[T]) BackRef() (*T, bool) {
	if b.length == 0 {
		return nil, false
	}
	return &b.data[dec(b.Cap(), b.tail)], true
}

// PushBack appends v, evicting the front element first when the buffer is
// full. It returns a pointer to the stored slot, valid until the next
// mutation, or nil for a capacity-0 buffer. An eviction is not undone if the
// caller ignores the returned slot.
func (b *RingBuf[T]) PushBack(v T) *T {
	capacity := b.Cap()
	if capacity == 0 {
		return nil
	}
	if b.length == capacity {
		b.PopFront()
	}
	slot := &b.data[b.tail]
	b.construct(slot, v)
	b.tail = inc(capacity, b.tail)
	b.length++
	return slot
}

// PushFront prepends v, evicting the back element first when the buffer is
// full. The cursor moves only after construction succeeds; a panicking
// Construct leaves head and length untouched.
func (b *RingBuf[T]) PushFront(v T) *T {
	capacity := b.Cap()
	if capacity == 0 {
		return nil
	}
	if b.length == capacity {
		b.PopBack()
	}
	slot := &b.data[dec(capacity, b.head)]
	b.construct(slot, v)
	b.head = dec(capacity, b.head)
	b.length++
	return slot
}

// PopFront removes and returns the front element. The vacated slot is zeroed
// so the GC can reclaim its payload.
func (b *RingBuf[T]) PopFront() (T, bool) {
	if b.length == 0 {
		var zero T
		return zero, false
	}
	slot := &b.data[b.head]
	v := *slot
	b.destroy(slot)
	b.head = inc(b.Cap(), b.head)
	b.length--
	return v, true
}

// PopBack removes and returns the back element.
func (b *RingBuf[T]) PopBack() (T, bool) {
	if b.length == 0 {
		var zero T
		return zero, false
	}
	b.tail = dec(b.Cap(), b.tail)
	slot := &b.data[b.tail]
	v := *slot
	b.destroy(slot)
	b.length--
	return v, true
}

// Clear removes every element. Capacity and backing array are kept.
func (b *RingBuf[T]) Clear() {
	for b.length > 0 {
		b.PopFront()
	}
}

// Erase removes [first, last) and returns an iterator to the element that
// followed the range. The shorter of the two blocks around the gap is shifted
// over it, so the cost is O(min(elements before, elements after)). Iterators
// minted before the call are invalid afterwards.
func (b *RingBuf[T]) Erase(first, last Iter[T]) Iter[T] {
	checkErase(b, first, last)
	from, to := first.pos, last.pos
	count := to - from
	if count <= 0 {
		return last
	}
	leading, trailing := from, b.length-to
	capacity := b.Cap()
	if trailing <= leading {
		// Shift the trailing block left onto the gap, then drop the
		// leftover tail slots.
		for i := 0; i < trailing; i++ {
			b.data[wrap(capacity, b.head+from+i)] = b.data[wrap(capacity, b.head+to+i)]
		}
		for i := 0; i < count; i++ {
			b.PopBack()
		}
	} else {
		// Shift the leading block right onto the gap, back to front,
		// then drop the leftover head slots.
		for i := 1; i <= leading; i++ {
			b.data[wrap(capacity, b.head+to-i)] = b.data[wrap(capacity, b.head+from-i)]
		}
		for i := 0; i < count; i++ {
			b.PopFront()
		}
	}
	return b.iterAt(leading)
}

// EraseOne removes the element at pos.
func (b *RingBuf[T]) EraseOne(pos Iter[T]) Iter[T] {
	return b.Erase(pos, pos.Add(1))
}

// Swap exchanges the contents of the two buffers in O(1). When allocators are
// attached, at least one side must propagate on swap or both must compare
// equal; allocators that propagate travel with their storage.
func (b *RingBuf[T]) Swap(other *RingBuf[T]) {
	if b == other {
		return
	}
	checkSwap(b, other)
	propagate := b.allocConfig().PropagateOnSwap || other.allocConfig().PropagateOnSwap
	b.data, other.data = other.data, b.data
	b.head, other.head = other.head, b.head
	b.tail, other.tail = other.tail, b.tail
	b.length, other.length = other.length, b.length
	if propagate {
		b.allocator, other.allocator = other.allocator, b.allocator
	}
}

// Clone returns a deep copy sharing the allocator instance.
func (b *RingBuf[T]) Clone() *RingBuf[T] {
	return b.CloneWithAllocator(b.allocator)
}

// CloneWithAllocator returns a deep copy whose storage is managed by a.
func (b *RingBuf[T]) CloneWithAllocator(a alloc.Allocator[T]) *RingBuf[T] {
	out := NewWithAllocator[T](b.Cap(), a)
	capacity := b.Cap()
	for i := 0; i < b.length; i++ {
		out.PushBack(b.data[wrap(capacity, b.head+i)])
	}
	return out
}

// resetStorage returns the backing array to the current allocator, installs a,
// and allocates fresh storage for the given capacity.
func (b *RingBuf[T]) resetStorage(a alloc.Allocator[T], capacity int) {
	if b.data != nil {
		b.deallocate(b.data)
	}
	b.allocator = a
	b.head, b.tail, b.length = 0, 0, 0
	b.data = nil
	b.data = b.allocate(capacity + 1)
}

// CopyFrom makes b an element-wise copy of src, adopting src's capacity and,
// when src's allocator propagates on copy, its allocator as well.
func (b *RingBuf[T]) CopyFrom(src *RingBuf[T]) {
	if b == src {
		return
	}
	b.Clear()
	if src.allocConfig().PropagateOnCopy && !alloc.Equal(b.allocator, src.allocator) {
		b.resetStorage(src.allocator, src.Cap())
	} else if b.Cap() != src.Cap() {
		b.resetStorage(b.allocator, src.Cap())
	}
	capacity := src.Cap()
	for i := 0; i < src.length; i++ {
		b.PushBack(src.data[wrap(capacity, src.head+i)])
	}
}

// MoveFrom transfers src's contents into b. When src's allocator propagates
// on move, or the two allocators compare equal, the representation moves
// wholesale and src is left released; otherwise the elements move one by one
// and src is left empty with its storage intact.
func (b *RingBuf[T]) MoveFrom(src *RingBuf[T]) {
	if b == src {
		return
	}
	if src.allocConfig().PropagateOnMove || alloc.Equal(b.allocator, src.allocator) {
		b.Clear()
		if b.data != nil {
			b.deallocate(b.data)
		}
		if src.allocConfig().PropagateOnMove {
			b.allocator = src.allocator
		}
		b.data, b.head, b.tail, b.length = src.data, src.head, src.tail, src.length
		src.data, src.head, src.tail, src.length = nil, 0, 0, 0
		return
	}
	b.Clear()
	if b.Cap() != src.Cap() {
		b.resetStorage(b.allocator, src.Cap())
	}
	for {
		v, ok := src.PopFront()
		if !ok {
			break
		}
		b.PushBack(v)
	}
}

// Release clears the buffer and returns the backing array to the allocator,
// leaving a capacity-0 buffer that still remembers its allocator.
func (b *RingBuf[T]) Release() {
	b.Clear()
	if b.data != nil {
		b.deallocate(b.data)
		b.data = nil
	}
	b.head, b.tail = 0, 0
}

// Slice returns the elements front to back in a freshly allocated slice, nil
// when empty.
func (b *RingBuf[T]) Slice() []T {
	if b.length == 0 {
		return nil
	}
	out := make([]T, b.length)
	Copy(out, b.Begin(), b.End())
	return out
}
