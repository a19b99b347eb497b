package cli

import "github.com/ardnew/lom/pkg"

var (
	ErrMkdir  = pkg.NewError("create directory")
	ErrConfig = pkg.NewError("read configuration")
)
