package parser

import "github.com/ardnew/lom/pkg"

var (
	ErrReleased    = pkg.NewError("parser node already released")
	ErrForeignNode = pkg.NewError("parser node belongs to another runtime")
	ErrNilNode     = pkg.NewError("nil parser node")
	ErrNotParser   = pkg.NewError("callback did not return a parser")
	ErrNotPair     = pkg.NewError("custom parser did not return a (value, rest) pair")
	ErrTooDeep     = pkg.NewError("maximum parse depth exceeded")
	ErrClosed      = pkg.NewError("parser runtime is closed")
)
