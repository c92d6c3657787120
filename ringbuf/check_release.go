//go:build !debug

package ringbuf

// No-op precondition hooks for regular builds. The debug build tag swaps in
// panicking versions.

func checkIndex[T any](b *RingBuf[T], i int) {}

func checkDeref[T any](it Iter[T]) {}

func checkPair[T any](a, b Iter[T]) {}

func checkErase[T any](b *RingBuf[T], first, last Iter[T]) {}

func checkSwap[T any](a, b *RingBuf[T]) {}
