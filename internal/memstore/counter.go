package memstore

import (
	"context"
	"sync"
)

type Counter struct {
	mu     sync.Mutex
	counts map[int]int
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[int]int)}
}

// Adjust ignores shows that were never seeded.
func (c *Counter) Adjust(ctx context.Context, showID int, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.counts[showID]
	if !ok {
		return nil
	}

	c.counts[showID] = max(current+delta, 0)
	return nil
}

func (c *Counter) Get(ctx context.Context, showID int) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.counts[showID]
	return n, ok, nil
}

func (c *Counter) Seed(ctx context.Context, showID int, available int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[showID] = available
	return nil
}
