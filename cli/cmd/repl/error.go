package repl

import "github.com/ardnew/lom/pkg"

var (
	ErrOutOfBounds  = pkg.NewError("index out of range")
	ErrEditDeclined = pkg.NewError("decline edit")
	ErrNoGrammar    = pkg.NewError("no grammar loaded")
)
