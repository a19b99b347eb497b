package grammar

import "github.com/ardnew/lom/pkg"

var (
	ErrRead            = pkg.NewError("read grammar")
	ErrDecode          = pkg.NewError("decode grammar")
	ErrSyntax          = pkg.NewError("invalid grammar node")
	ErrDuplicateRule   = pkg.NewError("duplicate rule")
	ErrUnknownRule     = pkg.NewError("unknown rule")
	ErrNoRules         = pkg.NewError("grammar defines no rules")
	ErrIncludeNotFound = pkg.NewError("include not found")
	ErrBuild           = pkg.NewError("build rule")
	ErrClosed          = pkg.NewError("grammar is closed")
	ErrSeqShape        = pkg.NewError("malformed sequence value")
)
