package parser

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/ardnew/lom/store"
)

func mustPanic(t *testing.T, target error, f func()) {
	t.Helper()

	defer func() {
		t.Helper()

		r := recover()
		if r == nil {
			t.Fatalf("no panic, want %v", target)
		}

		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("panic %v, want %v", r, target)
		}
	}()

	f()
}

func TestRefcountLifecycle(t *testing.T) {
	rt, c := newTestRuntime(t)

	a := rt.Literal("a")
	p := rt.Pair(a, a)

	if a.Refs() != 3 {
		t.Fatalf("shared child refs = %d, want 3", a.Refs())
	}

	m := rt.Map(p, fn(rt, func(args ...any) (any, error) { return args[0], nil }))
	p.Unref()

	if rt.Live() != 3 {
		t.Fatalf("Live = %d, want 3", rt.Live())
	}

	a.Unref()
	m.Unref()

	if rt.Live() != 0 || a.Refs() != 0 || p.Refs() != 0 {
		t.Errorf("after release: live=%d a=%d p=%d", rt.Live(), a.Refs(), p.Refs())
	}

	if live := c.Live(); len(live) != 0 {
		t.Errorf("callback handles still live: %v", live)
	}

	mustPanic(t, ErrReleased, func() { a.Ref() })
	mustPanic(t, ErrReleased, func() { a.Unref() })

	if _, _, ok := Parse(a, "a"); ok {
		t.Error("parse of a released node succeeded")
	}
}

func TestConstructionMisuse(t *testing.T) {
	rt, c := newTestRuntime(t)
	other, _ := newTestRuntime(t)

	foreign := other.Literal("x")
	defer foreign.Unref()

	a := rt.Literal("a")

	mustPanic(t, ErrNilNode, func() { rt.OneOrMore(nil) })
	mustPanic(t, ErrForeignNode, func() { rt.ZeroOrMore(foreign) })
	mustPanic(t, ErrForeignNode, func() { rt.Wrap(foreign) })

	// A bad second child must not leave a reference on the first.
	mustPanic(t, ErrNilNode, func() { rt.Pair(a, nil) })
	mustPanic(t, ErrForeignNode, func() { rt.OrElse(a, foreign) })

	if a.Refs() != 1 || foreign.Refs() != 1 {
		t.Errorf("refs after failed construction: a=%d foreign=%d, want 1", a.Refs(), foreign.Refs())
	}

	p := rt.Wrap(a)
	defer p.Close()

	if err := rt.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if !rt.Closed() {
		t.Fatal("Closed() = false after Close")
	}

	mustPanic(t, ErrClosed, func() { rt.Literal("a") })

	// The wrapper must not store a callback it cannot hand to a node.
	before := c.Acquired()

	mustPanic(t, ErrClosed, func() {
		p.Map(store.Func(func(args ...any) (any, error) { return args[0], nil }))
	})

	if got := c.Acquired(); got != before {
		t.Errorf("acquired %d handles on a closed runtime", got-before)
	}
}

func TestWrapperClose(t *testing.T) {
	rt, c := newTestRuntime(t)

	foo := rt.Wrap(rt.Literal("foo"))
	upper := foo.Map(store.Func(func(args ...any) (any, error) {
		return args[0].(string) + "!", nil
	}))

	if foo.Node().Refs() != 2 {
		t.Fatalf("refs = %d, want 2", foo.Node().Refs())
	}

	if got := upper.String(); got != "<Parser:map>" {
		t.Errorf("String() = %q", got)
	}

	foo.Close()
	foo.Close()

	if !foo.Closed() || foo.Node() != nil {
		t.Error("wrapper still open after Close")
	}

	if v, rest, ok := upper.Parse("foobar"); !ok || v != "foo!" || rest != "bar" {
		t.Errorf("Parse = (%v, %q, %v)", v, rest, ok)
	}

	if _, rest, ok := foo.Parse("foobar"); ok || rest != "foobar" {
		t.Errorf("closed Parse = (%q, %v)", rest, ok)
	}

	mustPanic(t, ErrReleased, func() { foo.OneOrMore() })

	upper.Close()

	if rt.Live() != 0 {
		t.Errorf("Live = %d, want 0", rt.Live())
	}

	if live := c.Live(); len(live) != 0 {
		t.Errorf("handles still live: %v", live)
	}
}

func TestWrapperCombinators(t *testing.T) {
	rt, c := newTestRuntime(t)

	a := rt.Wrap(rt.Literal("a"))
	b := rt.Wrap(rt.Literal("b"))
	sep := rt.Wrap(rt.Literal(","))

	item := a.OrElse(b)
	tail := sep.DropFor(item)
	tails := tail.ZeroOrMore()
	list := item.Pair(tails)
	ab := a.Pair(b)
	abs := ab.OneOrMore()
	even := abs.Pred(store.Func(func(args ...any) (any, error) {
		return len(args[0].([]any))%2 == 0, nil
	}))
	next := a.AndThen(store.Func(func(...any) (any, error) { return b, nil }))
	first := a.TakeAfter(b)

	tests := []struct {
		name  string
		p     *Parser
		input string
		value any
		rest  string
		ok    bool
	}{
		{"list", list, "a,b,a;", []any{"a", []any{"b", "a"}}, ";", true},
		{"even", even, "ababx", []any{[]any{"a", "b"}, []any{"a", "b"}}, "x", true},
		{"odd", even, "abx", nil, "abx", false},
		{"and_then", next, "abc", "b", "c", true},
		{"take_after", first, "abc", "a", "c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, rest, ok := tt.p.Parse(tt.input)
			if ok != tt.ok || rest != tt.rest {
				t.Fatalf("Parse = (%#v, %q, %v)", v, rest, ok)
			}

			if ok && !equalValue(v, tt.value) {
				t.Errorf("value = %#v, want %#v", v, tt.value)
			}
		})
	}

	// Closing the wrappers in construction order leaves every node to the
	// last wrapper that holds it.
	for _, p := range []*Parser{a, b, sep, item, tail, tails, list, ab, abs, even, next, first} {
		p.Close()

		if !p.Closed() {
			t.Fatalf("%v still open after Close", p)
		}
	}

	released(t, rt, c)
}

func equalValue(a, b any) bool {
	as, aok := a.([]any)
	bs, bok := b.([]any)

	if !aok || !bok {
		return a == b
	}

	if len(as) != len(bs) {
		return false
	}

	for i := range as {
		if !equalValue(as[i], bs[i]) {
			return false
		}
	}

	return true
}

func TestWrapperCollected(t *testing.T) {
	rt, c := newTestRuntime(t)

	func() {
		p := rt.Wrap(rt.Literal("gone"))
		_ = p.Map(store.Func(func(args ...any) (any, error) { return args[0], nil }))
	}()

	deadline := time.Now().Add(2 * time.Second)
	for rt.Pending() < 2 && time.Now().Before(deadline) {
		runtime.GC()
		time.Sleep(time.Millisecond)
	}

	if rt.Pending() < 2 {
		t.Skipf("cleanups pending = %d, collector did not run them", rt.Pending())
	}

	if n := rt.Collect(); n != 2 {
		t.Errorf("Collect = %d, want 2", n)
	}

	if rt.Live() != 0 {
		t.Errorf("Live = %d, want 0", rt.Live())
	}

	if live := c.Live(); len(live) != 0 {
		t.Errorf("handles still live: %v", live)
	}
}

func TestCallbackMayCloseWrapper(t *testing.T) {
	rt, _ := newTestRuntime(t)

	var self *Parser

	self = rt.Wrap(rt.Literal("a")).Map(store.Func(func(args ...any) (any, error) {
		self.Close()

		return args[0], nil
	}))

	if v, _, ok := self.Parse("a"); !ok || v != "a" {
		t.Errorf("Parse = (%v, %v)", v, ok)
	}

	rt.Collect()

	// Only the intermediate literal wrapper may still hold a node.
	if rt.Live() > 1 {
		t.Errorf("Live = %d, want at most 1", rt.Live())
	}
}
