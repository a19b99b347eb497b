package store

import (
	"errors"
	"slices"
	"testing"
)

func TestCounterBalance(t *testing.T) {
	c := NewCounter(NewRegistry())
	id := c.Store(Func(func(args ...any) (any, error) { return args[0], nil }))
	mark := c.Mark()

	a := c.Store("a")

	b, err := c.Call(id, a)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}

	if got := c.Since(mark); !slices.Equal(got, []Handle{a, b}) {
		t.Errorf("Since = %v, want [%v %v]", got, a, b)
	}

	_ = c.Release(a)
	_ = c.Release(b)

	if got := c.Since(mark); len(got) != 0 {
		t.Errorf("Since after release = %v", got)
	}

	if c.Acquired() != 3 || c.Released() != 2 {
		t.Errorf("acquired/released = %d/%d, want 3/2", c.Acquired(), c.Released())
	}

	if got := c.Live(); !slices.Equal(got, []Handle{id}) {
		t.Errorf("Live = %v, want [%v]", got, id)
	}
}

func TestCounterRecordsDoubleRelease(t *testing.T) {
	c := NewCounter(NewRegistry())
	h := c.Store(1)

	_ = c.Release(h)

	if err := c.Release(h); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("double Release = %v", err)
	}

	if len(c.Errors()) != 1 {
		t.Errorf("Errors() = %v, want one entry", c.Errors())
	}
}

func TestCounterFailedCallAcquiresNothing(t *testing.T) {
	c := NewCounter(NewRegistry())
	notFunc := c.Store("x")

	if _, err := c.Call(notFunc); err == nil {
		t.Fatal("Call on a string succeeded")
	}

	if c.Acquired() != 1 {
		t.Errorf("Acquired = %d, want 1", c.Acquired())
	}
}
