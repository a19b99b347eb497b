package store

import (
	"log/slog"

	"github.com/ardnew/lom/pkg"
)

var (
	ErrUnknownHandle = pkg.NewError("unknown value handle")
	ErrNotCallable   = pkg.NewError("value is not callable")
	ErrCallback      = pkg.NewError("callback failed")
	ErrClosed        = pkg.NewError("value store is closed")
	ErrLeaked        = pkg.NewError("value handles leaked")
)

func handleAttr(h Handle) slog.Attr {
	return slog.String("handle", h.String())
}
