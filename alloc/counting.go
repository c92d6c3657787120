package alloc

// Stats records the lifecycle traffic seen by a Counting allocator.
type Stats struct {
	TotalAllocs  int64
	TotalFrees   int64
	Constructs   int64
	Destroys     int64
	CurrentSlots int64
	PeakSlots    int64
}

// Live returns the number of constructed slots not yet destroyed.
func (s Stats) Live() int64 { return s.Constructs - s.Destroys }

// Counting wraps another allocator and records lifecycle statistics. Two
// Counting instances never compare equal, which makes it useful for observing
// the element-wise copy and move paths in tests.
type Counting[T any] struct {
	inner Allocator[T]
	cfg   Config
	stats Stats
}

func NewCounting[T any](inner Allocator[T], opts ...Option) *Counting[T] {
	if inner == nil {
		inner = Heap[T]{}
	}
	cfg := inner.Config()
	cfg.AlwaysEqual = false
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Counting[T]{inner: inner, cfg: cfg}
}

func (c *Counting[T]) Allocate(n int) []T {
	c.stats.TotalAllocs++
	c.stats.CurrentSlots += int64(n)
	if c.stats.CurrentSlots > c.stats.PeakSlots {
		c.stats.PeakSlots = c.stats.CurrentSlots
	}
	return c.inner.Allocate(n)
}

func (c *Counting[T]) Deallocate(s []T) {
	c.stats.TotalFrees++
	c.stats.CurrentSlots -= int64(len(s))
	c.inner.Deallocate(s)
}

func (c *Counting[T]) Construct(slot *T, v T) {
	c.stats.Constructs++
	c.inner.Construct(slot, v)
}

func (c *Counting[T]) Destroy(slot *T) {
	c.stats.Destroys++
	c.inner.Destroy(slot)
}

func (c *Counting[T]) Config() Config { return c.cfg }

func (c *Counting[T]) Stats() Stats { return c.stats }

// ResetStats clears the counters. Outstanding slot accounting is kept.
func (c *Counting[T]) ResetStats() {
	current, peak := c.stats.CurrentSlots, c.stats.PeakSlots
	c.stats = Stats{CurrentSlots: current, PeakSlots: peak}
}
