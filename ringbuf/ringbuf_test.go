package ringbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowbehappy/ringo/alloc"
	"github.com/flowbehappy/ringo/pkg/apperror"
)

func TestRingBufBasic(t *testing.T) {
	rb := New[int](3)
	assert.Equal(t, 3, rb.Cap())
	assert.Equal(t, 0, rb.Len())
	assert.True(t, rb.IsEmpty())
	assert.False(t, rb.IsFull())

	rb.PushBack(1)
	rb.PushBack(2)
	rb.PushBack(3)
	assert.True(t, rb.IsFull())

	{
		item, ok := rb.Front()
		assert.Equal(t, true, ok)
		assert.Equal(t, 1, item)
	}

	rb.PushBack(4)

	{
		item, ok := rb.Front()
		assert.Equal(t, true, ok)
		assert.Equal(t, 2, item)
	}

	{
		item, ok := rb.Back()
		assert.Equal(t, true, ok)
		assert.Equal(t, 4, item)
	}

	rb.PushBack(5)
	rb.PushBack(6)
	rb.PushBack(7)
	rb.PushBack(8)

	assert.True(t, rb.IsFull())
	assert.Equal(t, []int{6, 7, 8}, rb.Slice())

	{
		item, ok := rb.PopFront()
		assert.Equal(t, true, ok)
		assert.Equal(t, 6, item)
	}
	{
		item, ok := rb.PopFront()
		assert.Equal(t, true, ok)
		assert.Equal(t, 7, item)
	}
	{
		item, ok := rb.PopFront()
		assert.Equal(t, true, ok)
		assert.Equal(t, 8, item)
	}
	{
		item, ok := rb.PopFront()
		assert.Equal(t, false, ok)
		assert.Equal(t, 0, item)
	}
	assert.True(t, rb.IsEmpty())

	rb.PushBack(1)
	rb.PushBack(2)
	assert.Equal(t, 2, rb.Len())
	rb.PushBack(3)
	rb.PushBack(4)

	{
		itr := rb.ForwardIterator()
		items := make([]int, 0)
		for item, ok := itr.Next(); ok; item, ok = itr.Next() {
			items = append(items, item)
		}
		assert.Equal(t, []int{2, 3, 4}, items)
	}

	{
		itr := rb.BackwardIterator()
		items := make([]int, 0)
		for item, ok := itr.Next(); ok; item, ok = itr.Next() {
			items = append(items, item)
		}
		assert.Equal(t, []int{4, 3, 2}, items)
	}

	{
		item, ok := rb.PopBack()
		assert.Equal(t, true, ok)
		assert.Equal(t, 4, item)
		item, ok = rb.PopBack()
		assert.Equal(t, true, ok)
		assert.Equal(t, 3, item)
		item, ok = rb.PopBack()
		assert.Equal(t, true, ok)
		assert.Equal(t, 2, item)
		_, ok = rb.PopBack()
		assert.Equal(t, false, ok)
	}
}

func TestRingBufPushFrontOverFull(t *testing.T) {
	rb := New[int](3)

	rb.PushBack(1)
	rb.PushBack(2)
	rb.PushBack(3)
	rb.PushBack(4)
	rb.PushBack(5)
	assert.Equal(t, []int{3, 4, 5}, rb.Slice())

	// A front push over a full buffer rolls the back off.
	rb.PushFront(6)
	rb.PushFront(7)
	assert.Equal(t, []int{7, 6, 3}, rb.Slice())

	{
		itr := rb.BackwardIterator()
		items := make([]int, 0)
		for item, ok := itr.Next(); ok; item, ok = itr.Next() {
			items = append(items, item)
		}
		assert.Equal(t, []int{3, 6, 7}, items)
	}
}

func TestRingBufEviction(t *testing.T) {
	rb := New[int](3)
	for _, v := range []int{4, 6, 8, 10, 12} {
		rb.PushBack(v)
	}
	assert.Equal(t, 3, rb.Len())
	assert.Equal(t, []int{8, 10, 12}, rb.Slice())

	front, ok := rb.Front()
	assert.True(t, ok)
	assert.Equal(t, 8, front)
	back, ok := rb.Back()
	assert.True(t, ok)
	assert.Equal(t, 12, back)
}

func TestRingBufDoubleEnded(t *testing.T) {
	rb := New[int](3)

	rb.PushFront(1)
	rb.PushBack(2)
	rb.PushFront(3)
	assert.Equal(t, []int{3, 1, 2}, rb.Slice())

	// Full from here on: every push drops one from the opposite end.
	rb.PushBack(4)
	assert.Equal(t, []int{1, 2, 4}, rb.Slice())
	rb.PushFront(5)
	assert.Equal(t, []int{5, 1, 2}, rb.Slice())

	item, ok := rb.PopFront()
	assert.True(t, ok)
	assert.Equal(t, 5, item)
	item, ok = rb.PopBack()
	assert.True(t, ok)
	assert.Equal(t, 2, item)

	assert.Equal(t, 1, rb.Len())
	front, _ := rb.Front()
	back, _ := rb.Back()
	assert.Equal(t, 1, front)
	assert.Equal(t, 1, back)
}

func TestRingBufInReverse(t *testing.T) {
	rb := New[int](2)
	for i := 0; i < 4; i++ {
		rb.PushFront(i)
	}
	assert.Equal(t, []int{3, 2}, rb.Slice())
}

func TestRingBufZeroCapacity(t *testing.T) {
	zero := func(rb *RingBuf[int]) {
		assert.Equal(t, 0, rb.Cap())
		assert.True(t, rb.IsEmpty())

		assert.Nil(t, rb.PushBack(1))
		assert.Nil(t, rb.PushFront(2))
		assert.Equal(t, 0, rb.Len())

		_, ok := rb.Front()
		assert.False(t, ok)
		_, ok = rb.PopFront()
		assert.False(t, ok)
		_, ok = rb.PopBack()
		assert.False(t, ok)

		assert.Nil(t, rb.Slice())
		assert.True(t, rb.Begin().Equal(rb.End()))

		rb.Clear()
		assert.Equal(t, 0, rb.Len())
	}

	zero(New[int](0))

	// The zero value behaves the same without ever allocating.
	var rb RingBuf[int]
	zero(&rb)
}

func TestRingBufAt(t *testing.T) {
	rb := New[int](3)
	rb.PushBack(1)
	rb.PushBack(2)

	v, err := rb.At(0)
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = rb.At(1)
	assert.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = rb.At(2)
	assert.Error(t, err)
	assert.True(t, apperror.ErrIndexOutOfRange.Equal(err))
	_, err = rb.At(-1)
	assert.True(t, apperror.ErrIndexOutOfRange.Equal(err))

	p, err := rb.RefAt(1)
	assert.NoError(t, err)
	*p = 20
	assert.Equal(t, []int{1, 20}, rb.Slice())
	_, err = rb.RefAt(5)
	assert.True(t, apperror.ErrIndexOutOfRange.Equal(err))

	assert.Equal(t, 1, rb.MustAt(0))
	assert.Equal(t, 20, rb.MustAt(1))
	*rb.MustRefAt(0) = 10
	assert.Equal(t, 10, rb.MustAt(0))
}

func TestRingBufRefs(t *testing.T) {
	rb := New[int](4)
	rb.PushBack(1)
	rb.PushBack(2)
	rb.PushBack(3)

	p, ok := rb.FrontRef()
	assert.True(t, ok)
	*p = 10
	q, ok := rb.BackRef()
	assert.True(t, ok)
	*q = 30
	assert.Equal(t, []int{10, 2, 30}, rb.Slice())

	// The slot returned by a push stays writable until the next mutation.
	s := rb.PushBack(4)
	*s = 44
	assert.Equal(t, 44, rb.MustAt(3))

	empty := New[int](2)
	_, ok = empty.FrontRef()
	assert.False(t, ok)
	_, ok = empty.BackRef()
	assert.False(t, ok)
}

func TestRingBufPushOverFullKeepsEviction(t *testing.T) {
	rb := New[string](2)
	rb.PushBack("a")
	rb.PushBack("b")

	// The eviction that makes room is permanent, whatever the caller does
	// with the returned slot.
	slot := rb.PushBack("c")
	assert.NotNil(t, slot)
	assert.Equal(t, 2, rb.Len())
	assert.Equal(t, []string{"b", "c"}, rb.Slice())

	front, _ := rb.Front()
	assert.Equal(t, "b", front)
}

// failingAllocator refuses to construct one marker value.
type failingAllocator struct {
	reject int
}

func (a *failingAllocator) Allocate(n int) []int { return make([]int, n) }

func (a *failingAllocator) Deallocate([]int) {}

func (a *failingAllocator) Construct(slot *int, v int) {
	if v == a.reject {
		panic("rejected value")
	}
	*slot = v
}

func (a *failingAllocator) Destroy(slot *int) { *slot = 0 }

func (a *failingAllocator) Config() alloc.Config { return alloc.Config{} }

func TestRingBufFailedConstruct(t *testing.T) {
	// A panicking Construct must leave the cursors where they were: the
	// eviction that made room stays, the surviving element stays reachable
	// and the buffer remains usable.

	// Test PushBack
	{
		rb := NewWithAllocator[int](2, &failingAllocator{reject: 99})
		rb.PushBack(7)
		rb.PushBack(8)

		assert.Panics(t, func() { rb.PushBack(99) })
		assert.Equal(t, 1, rb.Len())
		front, ok := rb.Front()
		assert.True(t, ok)
		assert.Equal(t, 8, front)
		assert.Equal(t, []int{8}, rb.Slice())

		rb.PushBack(9)
		assert.Equal(t, []int{8, 9}, rb.Slice())
	}

	// Test PushFront
	{
		rb := NewWithAllocator[int](2, &failingAllocator{reject: 99})
		rb.PushBack(7)
		rb.PushBack(8)

		assert.Panics(t, func() { rb.PushFront(99) })
		assert.Equal(t, 1, rb.Len())
		front, ok := rb.Front()
		assert.True(t, ok)
		assert.Equal(t, 7, front)
		back, ok := rb.Back()
		assert.True(t, ok)
		assert.Equal(t, 7, back)
		assert.Equal(t, []int{7}, rb.Slice())

		rb.PushFront(6)
		assert.Equal(t, []int{6, 7}, rb.Slice())
	}
}

func TestRingBufClear(t *testing.T) {
	rb := New[int](3)
	rb.PushBack(1)
	rb.PushBack(2)
	rb.PushBack(3)
	rb.PushBack(4)

	rb.Clear()
	assert.Equal(t, 0, rb.Len())
	assert.Equal(t, 3, rb.Cap())
	_, ok := rb.Front()
	assert.False(t, ok)

	rb.Clear()
	assert.Equal(t, 0, rb.Len())

	rb.PushBack(9)
	assert.Equal(t, []int{9}, rb.Slice())
}

func TestRingBufCloneIndependence(t *testing.T) {
	rb := New[int](3)
	for i := 0; i <= 3; i++ {
		rb.PushBack(i)
	}
	assert.Equal(t, []int{1, 2, 3}, rb.Slice())

	cl := rb.Clone()
	assert.Equal(t, rb.Cap(), cl.Cap())
	assert.Equal(t, []int{1, 2, 3}, cl.Slice())
	assert.True(t, EqualFunc(rb, cl, func(x, y int) bool { return x == y }))

	rb.PushBack(9)
	cl.PopFront()
	assert.Equal(t, []int{2, 3, 9}, rb.Slice())
	assert.Equal(t, []int{2, 3}, cl.Slice())
	assert.False(t, EqualFunc(rb, cl, func(x, y int) bool { return x == y }))

	empty := New[int](5)
	cl2 := empty.Clone()
	assert.Equal(t, 5, cl2.Cap())
	assert.Equal(t, 0, cl2.Len())
}

func TestRingBufCopyFrom(t *testing.T) {
	src := New[int](5)
	for i := 1; i <= 5; i++ {
		src.PushBack(i)
	}

	dst := New[int](2)
	dst.PushBack(42)
	dst.CopyFrom(src)
	assert.Equal(t, 5, dst.Cap())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, dst.Slice())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, src.Slice())

	dst.CopyFrom(dst)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, dst.Slice())
}

func TestRingBufMoveFrom(t *testing.T) {
	src := New[int](3)
	src.PushBack(1)
	src.PushBack(2)
	src.PushBack(3)

	dst := New[int](1)
	dst.MoveFrom(src)
	assert.Equal(t, 3, dst.Cap())
	assert.Equal(t, []int{1, 2, 3}, dst.Slice())
	// Equal allocators let the storage move wholesale; src is left released.
	assert.Equal(t, 0, src.Cap())
	assert.Equal(t, 0, src.Len())

	dst.MoveFrom(dst)
	assert.Equal(t, []int{1, 2, 3}, dst.Slice())
}

func TestRingBufSwap(t *testing.T) {
	b1 := New[int](2)
	b1.PushBack(1)
	b1.PushBack(2)
	b2 := New[int](4)
	b2.PushBack(7)
	b2.PushBack(8)
	b2.PushBack(9)

	b1.Swap(b2)
	assert.Equal(t, 4, b1.Cap())
	assert.Equal(t, []int{7, 8, 9}, b1.Slice())
	assert.Equal(t, 2, b2.Cap())
	assert.Equal(t, []int{1, 2}, b2.Slice())

	b1.Swap(b1)
	assert.Equal(t, []int{7, 8, 9}, b1.Slice())
}

func TestRingBufCompare(t *testing.T) {
	mk := func(vals ...int) *RingBuf[int] {
		rb := New[int](len(vals) + 1)
		for _, v := range vals {
			rb.PushBack(v)
		}
		return rb
	}

	assert.Equal(t, 0, Compare(mk(1, 2, 3), mk(1, 2, 3)))
	assert.Equal(t, -1, Compare(mk(1, 2, 3), mk(1, 2, 4)))
	assert.Equal(t, 1, Compare(mk(1, 2, 4), mk(1, 2, 3)))
	assert.Equal(t, -1, Compare(mk(1, 2), mk(1, 2, 3)))
	assert.Equal(t, 1, Compare(mk(1, 2, 3), mk(1, 2)))
	assert.Equal(t, 0, Compare(mk(), mk()))

	// Capacity plays no part in element comparison.
	big := New[int](100)
	big.PushBack(1)
	small := New[int](1)
	small.PushBack(1)
	assert.Equal(t, 0, Compare(big, small))
	assert.True(t, EqualFunc(big, small, func(x, y int) bool { return x == y }))
}

func TestRingBufAllocatorLifecycle(t *testing.T) {
	counting := alloc.NewCounting[int](nil)
	rb := NewWithAllocator[int](3, counting)
	assert.Equal(t, int64(1), counting.Stats().TotalAllocs)
	assert.Equal(t, int64(4), counting.Stats().CurrentSlots)

	for i := 0; i < 5; i++ {
		rb.PushBack(i)
	}
	assert.Equal(t, int64(5), counting.Stats().Constructs)
	assert.Equal(t, int64(2), counting.Stats().Destroys)
	assert.Equal(t, int64(3), counting.Stats().Live())

	rb.Clear()
	assert.Equal(t, counting.Stats().Constructs, counting.Stats().Destroys)

	rb.Release()
	assert.Equal(t, int64(1), counting.Stats().TotalFrees)
	assert.Equal(t, int64(0), counting.Stats().CurrentSlots)
	assert.Equal(t, 0, rb.Cap())
	assert.Nil(t, rb.PushBack(1))
}

func TestRingBufReleasePooled(t *testing.T) {
	pool := alloc.NewPooled[int](4, 2)

	rb := NewWithAllocator[int](3, pool)
	rb.PushBack(1)
	rb.PushBack(2)
	rb.Release()
	assert.Equal(t, 1, pool.FreeLen())

	// The next buffer of the same capacity reuses the parked array.
	rb2 := NewWithAllocator[int](3, pool)
	assert.Equal(t, int64(1), pool.Hits())
	rb2.PushBack(7)
	assert.Equal(t, []int{7}, rb2.Slice())
}

func TestRingBufAllocatorPropagation(t *testing.T) {
	{
		// Copy assignment adopts the source allocator when it propagates.
		src := NewWithAllocator[int](3, alloc.NewCounting[int](nil, alloc.WithPropagateOnCopy(true)))
		src.PushBack(1)
		dst := New[int](3)
		dst.CopyFrom(src)
		assert.Equal(t, src.Allocator(), dst.Allocator())
		assert.Equal(t, []int{1}, dst.Slice())
	}

	{
		// Without propagation the destination keeps its own allocator.
		src := NewWithAllocator[int](3, alloc.NewCounting[int](nil))
		src.PushBack(1)
		own := alloc.NewCounting[int](nil)
		dst := NewWithAllocator[int](3, own)
		dst.CopyFrom(src)
		assert.Equal(t, alloc.Allocator[int](own), dst.Allocator())
		assert.Equal(t, []int{1}, dst.Slice())
	}

	{
		// Unequal allocators that do not propagate on move force the
		// element-wise path: the source keeps its storage, empty.
		src := NewWithAllocator[int](3, alloc.NewCounting[int](nil))
		src.PushBack(1)
		src.PushBack(2)
		dst := NewWithAllocator[int](3, alloc.NewCounting[int](nil))
		dst.MoveFrom(src)
		assert.Equal(t, []int{1, 2}, dst.Slice())
		assert.Equal(t, 0, src.Len())
		assert.Equal(t, 3, src.Cap())
	}

	{
		// A pooled allocator travels with its storage on move.
		pool := alloc.NewPooled[int](4, 2)
		src := NewWithAllocator[int](3, pool)
		src.PushBack(9)
		dst := New[int](3)
		dst.MoveFrom(src)
		assert.Equal(t, alloc.Allocator[int](pool), dst.Allocator())
		assert.Equal(t, []int{9}, dst.Slice())
		assert.Equal(t, 0, src.Cap())
	}

	{
		// And on swap.
		pool := alloc.NewPooled[int](3, 2)
		a := NewWithAllocator[int](2, pool)
		a.PushBack(1)
		b := New[int](2)
		b.PushBack(7)
		a.Swap(b)
		assert.Equal(t, []int{7}, a.Slice())
		assert.Equal(t, []int{1}, b.Slice())
		assert.Equal(t, alloc.Allocator[int](pool), b.Allocator())
		assert.Nil(t, a.Allocator())
	}
}
