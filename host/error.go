package host

import "github.com/ardnew/lom/pkg"

var (
	ErrCompile     = pkg.NewError("compile callback")
	ErrEvaluate    = pkg.NewError("evaluate callback")
	ErrUnknownRule = pkg.NewError("unknown rule")
	ErrNoResolver  = pkg.NewError("no rule resolver")
	ErrEmptySource = pkg.NewError("empty callback source")
)
