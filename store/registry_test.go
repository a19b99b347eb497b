package store

import (
	"errors"
	"io"
	"slices"
	"testing"
)

func TestRegistryStoreBorrowRelease(t *testing.T) {
	r := NewRegistry()

	a := r.Store("a")
	b := r.Store("a")

	if a == b {
		t.Fatalf("equal values share handle %v", a)
	}

	if !a.Valid() || NoRef.Valid() {
		t.Fatalf("Valid: a=%v noref=%v", a.Valid(), NoRef.Valid())
	}

	if v, ok := r.Borrow(a); !ok || v != "a" {
		t.Fatalf("Borrow(a) = %v, %v", v, ok)
	}

	if err := r.Release(a); err != nil {
		t.Fatalf("Release(a): %v", err)
	}

	if _, ok := r.Borrow(a); ok {
		t.Error("Borrow after Release succeeded")
	}

	if err := r.Release(a); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("double Release = %v, want ErrUnknownHandle", err)
	}

	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryStoresNil(t *testing.T) {
	r := NewRegistry()
	h := r.Store(nil)

	v, ok := r.Borrow(h)
	if !ok || v != nil {
		t.Errorf("Borrow(nil handle) = %v, %v", v, ok)
	}
}

func TestRegistryCall(t *testing.T) {
	r := NewRegistry()

	concat := r.Store(Func(func(args ...any) (any, error) {
		s := ""
		for _, a := range args {
			s += a.(string)
		}

		return s, nil
	}))
	x, y := r.Store("x"), r.Store("y")

	h, err := r.Call(concat, x, y)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}

	if v, _ := r.Borrow(h); v != "xy" {
		t.Errorf("result = %v, want xy", v)
	}

	// Arguments stay owned by the caller.
	if _, ok := r.Borrow(x); !ok {
		t.Error("Call released an argument handle")
	}
}

func TestRegistryCallFailures(t *testing.T) {
	r := NewRegistry()

	failing := r.Store(Func(func(...any) (any, error) { return nil, io.ErrUnexpectedEOF }))
	panicking := r.Store(func(...any) any { panic("boom") })
	notFunc := r.Store(42)

	tests := []struct {
		name string
		fn   Handle
		args []Handle
		want error
	}{
		{"error", failing, nil, ErrCallback},
		{"panic", panicking, nil, ErrCallback},
		{"not callable", notFunc, nil, ErrNotCallable},
		{"unknown fn", Handle(999), nil, ErrUnknownHandle},
		{"unknown arg", failing, []Handle{998}, ErrUnknownHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := r.Len()

			h, err := r.Call(tt.fn, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Call error = %v, want %v", err, tt.want)
			}

			if h != NoRef || r.Len() != before {
				t.Errorf("failed Call acquired %v (len %d -> %d)", h, before, r.Len())
			}
		})
	}

	if _, err := r.Call(failing); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("callback cause not wrapped: %v", err)
	}
}

func TestRegistryClose(t *testing.T) {
	r := NewRegistry()
	fn := r.Store(Func(func(...any) (any, error) { return 1, nil }))

	if err := r.Close(); !errors.Is(err, ErrLeaked) {
		t.Errorf("Close with live handle = %v, want ErrLeaked", err)
	}

	if err := r.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}

	if _, err := r.Call(fn); !errors.Is(err, ErrClosed) {
		t.Errorf("Call after Close = %v, want ErrClosed", err)
	}
}

func TestRegistryHandlesSorted(t *testing.T) {
	r := NewRegistry()

	var want []Handle
	for i := range 5 {
		want = append(want, r.Store(i))
	}

	_ = r.Release(want[2])
	want = slices.Delete(want, 2, 3)

	if got := r.Handles(); !slices.Equal(got, want) {
		t.Errorf("Handles() = %v, want %v", got, want)
	}
}

func TestTake(t *testing.T) {
	r := NewRegistry()
	h := r.Store("v")

	v, err := Take(r, h)
	if err != nil || v != "v" {
		t.Fatalf("Take = %v, %v", v, err)
	}

	if r.Len() != 0 {
		t.Errorf("Take left %d handles", r.Len())
	}

	if _, err := Take(r, h); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("Take released handle = %v", err)
	}
}
