package store

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Counter decorates a Store and records every handle it hands out and takes
// back. Handles acquired through Counter must be released through it.
type Counter struct {
	inner    Store
	mu       sync.Mutex
	live     map[Handle]struct{}
	acquired int
	released int
	errs     []error
}

// NewCounter returns a Counter over s.
func NewCounter(s Store) *Counter {
	return &Counter{inner: s, live: make(map[Handle]struct{})}
}

func (c *Counter) Store(v any) Handle {
	h := c.inner.Store(v)
	c.acquire(h)

	return h
}

func (c *Counter) Borrow(h Handle) (any, bool) { return c.inner.Borrow(h) }

func (c *Counter) Release(h Handle) error {
	c.mu.Lock()

	if _, ok := c.live[h]; !ok {
		err := ErrUnknownHandle.With(handleAttr(h), slog.String("via", "counter"))
		c.errs = append(c.errs, err)
		c.mu.Unlock()

		return err
	}

	delete(c.live, h)
	c.released++
	c.mu.Unlock()

	return c.inner.Release(h)
}

func (c *Counter) Call(fn Handle, args ...Handle) (Handle, error) {
	h, err := c.inner.Call(fn, args...)
	if err == nil {
		c.acquire(h)
	}

	return h, err
}

func (c *Counter) acquire(h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.live[h] = struct{}{}
	c.acquired++
}

// Acquired returns the number of handles handed out.
func (c *Counter) Acquired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.acquired
}

// Released returns the number of handles taken back.
func (c *Counter) Released() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.released
}

// Live returns the handles acquired through c and not yet released, in
// ascending order.
func (c *Counter) Live() []Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Sorted(maps.Keys(c.live))
}

// Errors returns every invalid release observed, such as a double release.
func (c *Counter) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.errs)
}

// Mark returns a snapshot of the live handles that [Counter.Since] compares
// against.
func (c *Counter) Mark() map[Handle]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.live)
}

// Since returns the handles that are live now but were not in mark.
func (c *Counter) Since(mark map[Handle]struct{}) []Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	var hs []Handle

	for h := range c.live {
		if _, ok := mark[h]; !ok {
			hs = append(hs, h)
		}
	}

	slices.Sort(hs)

	return hs
}
