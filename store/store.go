package store

import "strconv"

// Handle refers to one value in a Store. The zero Handle, [NoRef], refers to
// nothing.
type Handle uint64

// NoRef is the absence of a value.
const NoRef Handle = 0

// Valid reports whether h may refer to a value.
func (h Handle) Valid() bool { return h != NoRef }

func (h Handle) String() string {
	if h == NoRef {
		return "noref"
	}

	return "#" + strconv.FormatUint(uint64(h), 10)
}

// Store is the value store seen by parsers.
//
// Store acquires a new handle for v; the caller owns it. Borrow reads the
// value behind h without taking ownership. Release gives up ownership of h;
// releasing an unknown or already released handle is an error. Call invokes
// the callable value behind fn with the values behind args and stores the
// result under a new handle owned by the caller. The argument handles remain
// owned by the caller.
type Store interface {
	Store(v any) Handle
	Borrow(h Handle) (any, bool)
	Release(h Handle) error
	Call(fn Handle, args ...Handle) (Handle, error)
}

// Callable is a value that a Store can invoke.
type Callable interface {
	Call(args ...any) (any, error)
}

// Func adapts an ordinary function to [Callable].
type Func func(args ...any) (any, error)

// Call calls f(args...).
func (f Func) Call(args ...any) (any, error) { return f(args...) }

// Take borrows the value behind h and releases h.
func Take(s Store, h Handle) (any, error) {
	v, ok := s.Borrow(h)
	if !ok {
		return nil, ErrUnknownHandle.With(handleAttr(h))
	}

	return v, s.Release(h)
}
