package ringbuf

import (
	"golang.org/x/exp/constraints"
)

// Iter is a random-access position in a buffer. It is a value: moving it
// returns a new Iter and never touches the buffer. An Iter snapshots the
// backing array and ring offset it was minted from, so any mutation of the
// buffer invalidates it.
//
// All arithmetic and comparisons work on the logical index alone, where 0 is
// the front of the buffer.
type Iter[T any] struct {
	data     []T
	capacity int
	head     int
	pos      int
}

// Begin returns an iterator on the front element; for an empty buffer it
// equals End.
func (b *RingBuf[T]) Begin() Iter[T] { return b.iterAt(0) }

// End returns the iterator one past the back element. It is not
// dereferenceable.
func (b *RingBuf[T]) End() Iter[T] { return b.iterAt(b.length) }

func (b *RingBuf[T]) iterAt(pos int) Iter[T] {
	return Iter[T]{data: b.data, capacity: b.Cap(), head: b.head, pos: pos}
}

func (it Iter[T]) slot() *T {
	return &it.data[wrap(it.capacity, it.head+it.pos)]
}

// Get returns the element under the iterator.
func (it Iter[T]) Get() T {
	checkDeref(it)
	return *it.slot()
}

// Ref returns a pointer to the element under the iterator, valid until the
// next mutation of the buffer.
func (it Iter[T]) Ref() *T {
	checkDeref(it)
	return it.slot()
}

// Set overwrites the element under the iterator.
func (it Iter[T]) Set(v T) {
	checkDeref(it)
	*it.slot() = v
}

func (it Iter[T]) Add(n int) Iter[T] {
	it.pos += n
	return it
}

func (it Iter[T]) Sub(n int) Iter[T] {
	it.pos -= n
	return it
}

func (it Iter[T]) Next() Iter[T] { return it.Add(1) }

func (it Iter[T]) Prev() Iter[T] { return it.Sub(1) }

// Diff returns the distance it - o in elements.
func (it Iter[T]) Diff(o Iter[T]) int {
	checkPair(it, o)
	return it.pos - o.pos
}

func (it Iter[T]) Equal(o Iter[T]) bool {
	checkPair(it, o)
	return it.pos == o.pos
}

func (it Iter[T]) Less(o Iter[T]) bool {
	checkPair(it, o)
	return it.pos < o.pos
}

// Compare returns -1, 0 or 1 by iterator order.
func (it Iter[T]) Compare(o Iter[T]) int {
	checkPair(it, o)
	switch {
	case it.pos < o.pos:
		return -1
	case it.pos > o.pos:
		return 1
	}
	return 0
}

// ForwardIter walks a snapshot of a buffer front to back.
type ForwardIter[T any] struct {
	data     []T
	capacity int
	head     int
	length   int
	pos      int
}

func (b *RingBuf[T]) ForwardIterator() *ForwardIter[T] {
	return &ForwardIter[T]{data: b.data, capacity: b.Cap(), head: b.head, length: b.length}
}

func (it *ForwardIter[T]) Next() (T, bool) {
	if it.pos >= it.length {
		var zero T
		return zero, false
	}
	v := it.data[wrap(it.capacity, it.head+it.pos)]
	it.pos++
	return v, true
}

// BackwardIter walks a snapshot of a buffer back to front.
type BackwardIter[T any] struct {
	data     []T
	capacity int
	head     int
	pos      int
}

func (b *RingBuf[T]) BackwardIterator() *BackwardIter[T] {
	return &BackwardIter[T]{data: b.data, capacity: b.Cap(), head: b.head, pos: b.length - 1}
}

func (it *BackwardIter[T]) Next() (T, bool) {
	if it.pos < 0 {
		var zero T
		return zero, false
	}
	v := it.data[wrap(it.capacity, it.head+it.pos)]
	it.pos--
	return v, true
}

// Segments returns the elements of [first, last) as at most two in-order
// subslices of the backing array: the run up to the physical end of the
// array, then the wrapped remainder. The second slice is nil when the range
// is physically contiguous.
func Segments[T any](first, last Iter[T]) (a, b []T) {
	checkPair(first, last)
	n := last.pos - first.pos
	if n <= 0 {
		return nil, nil
	}
	start := wrap(first.capacity, first.head+first.pos)
	stop := wrap(first.capacity, first.head+last.pos)
	if start < stop {
		return first.data[start:stop], nil
	}
	if stop == 0 {
		return first.data[start:], nil
	}
	return first.data[start:], first.data[:stop]
}

// Copy copies [first, last) into dst, stopping at whichever runs out first,
// and returns the number of elements copied. A wrapped range costs two copy
// calls, a contiguous one costs one.
func Copy[T any](dst []T, first, last Iter[T]) int {
	a, b := Segments(first, last)
	n := copy(dst, a)
	n += copy(dst[n:], b)
	return n
}

// EqualFunc reports whether the two buffers hold equal elements in the same
// order, compared by eq. Capacities are not compared.
func EqualFunc[T any](a, b *RingBuf[T], eq func(x, y T) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	ai, bi := a.Begin(), b.Begin()
	for i := 0; i < a.Len(); i++ {
		if !eq(ai.Get(), bi.Get()) {
			return false
		}
		ai, bi = ai.Next(), bi.Next()
	}
	return true
}

// Compare orders two buffers lexicographically element by element, shorter
// prefix first.
func Compare[T constraints.Ordered](a, b *RingBuf[T]) int {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	ai, bi := a.Begin(), b.Begin()
	for i := 0; i < n; i++ {
		av, bv := ai.Get(), bi.Get()
		switch {
		case av < bv:
			return -1
		case bv < av:
			return 1
		}
		ai, bi = ai.Next(), bi.Next()
	}
	switch {
	case a.Len() < b.Len():
		return -1
	case a.Len() > b.Len():
		return 1
	}
	return 0
}
