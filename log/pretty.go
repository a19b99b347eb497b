package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Palette used by the pretty handlers. fatih/color drops the escape codes
// when the process is not attached to a terminal or NO_COLOR is set.
//
//nolint:gochecknoglobals
var (
	keyColor    = color.New(color.FgHiBlack)
	stringColor = color.New(color.FgCyan)
	numberColor = color.New(color.FgYellow)
	trueColor   = color.New(color.FgGreen)
	falseColor  = color.New(color.FgRed)
	timeColor   = color.New(color.FgBlue)
	levelColor  = map[slog.Level]*color.Color{
		slog.LevelError: color.New(color.FgRed, color.Bold),
		slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
		slog.LevelInfo:  color.New(color.FgGreen, color.Bold),
		slog.LevelDebug: color.New(color.FgBlue),
	}
)

func colorForLevel(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return levelColor[slog.LevelError]
	case l >= slog.LevelWarn:
		return levelColor[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return levelColor[slog.LevelInfo]
	default:
		return levelColor[slog.LevelDebug]
	}
}

// prettyBase holds what the text and JSON handlers share: options, the
// attributes and groups accumulated by WithAttrs/WithGroup, and a writer
// guarded by a mutex shared with every derived handler.
type prettyBase struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	groups     []string
}

func (h *prettyBase) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	// Qualify the new attributes with the open groups now, so that later
	// groups do not apply to them.
	h.attrs = append(slices.Clip(h.attrs), qualify(h.groups, attrs)...)

	return h
}

func (h prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		h.groups = append(slices.Clip(h.groups), name)
	}

	return h
}

// qualify prefixes attribute keys with dotted group names and resolves
// LogValuer values.
func qualify(groups []string, attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	prefix := strings.Join(groups, ".")

	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			continue
		}

		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}

		out = append(out, a)
	}

	return out
}

// recordAttrs returns the header and body attributes of r in output order.
func (h *prettyBase) recordAttrs(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if s := h.formatTime(r.Time); s != "" {
			attrs = append(attrs, slog.String(slog.TimeKey, s))
		}
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			attrs = append(attrs,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	attrs = append(attrs, slog.String(slog.MessageKey, r.Message))
	attrs = append(attrs, h.attrs...)

	body := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		body = append(body, a)

		return true
	})

	return append(attrs, qualify(h.groups, body)...)
}

func (h *prettyBase) write(buf *bytes.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	buf.WriteByte('\n')

	_, err := h.w.Write(buf.Bytes())

	return err
}

// paint renders v with a color chosen by its kind. quote controls whether
// strings are JSON-quoted.
func paint(v slog.Value, quote bool) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if quote {
			s = strconv.Quote(s)
		}

		return stringColor.Sprint(s)

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return numberColor.Sprint(v.String())

	case slog.KindBool:
		if v.Bool() {
			return trueColor.Sprint("true")
		}

		return falseColor.Sprint("false")

	case slog.KindDuration, slog.KindTime:
		s := v.String()
		if quote {
			s = strconv.Quote(s)
		}

		return timeColor.Sprint(s)

	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, a.Key+"="+paint(a.Value.Resolve(), false))
		}

		s := "{" + strings.Join(parts, " ") + "}"
		if quote {
			s = strconv.Quote(s)
		}

		return s

	default:
		if l, ok := v.Any().(slog.Level); ok {
			name := strings.ToUpper(Level(l).String())
			if quote {
				name = strconv.Quote(name)
			}

			return colorForLevel(l).Sprint(name)
		}

		if quote {
			if b, err := json.Marshal(v.Any()); err == nil {
				return stringColor.Sprint(string(b))
			}

			return stringColor.Sprint(strconv.Quote(fmt.Sprint(v.Any())))
		}

		return stringColor.Sprint(fmt.Sprint(v.Any()))
	}
}

// prettyTextHandler writes one line per record: key=value pairs with gray
// keys and unquoted, colored values.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for i, a := range h.recordAttrs(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(keyColor.Sprint(a.Key))
		buf.WriteByte('=')
		buf.WriteString(paint(a.Value, false))
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented JSON object with
// colored values.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{")

	for i, a := range h.recordAttrs(r) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(keyColor.Sprint(strconv.Quote(a.Key)))
		buf.WriteString(": ")
		buf.WriteString(paint(a.Value, true))
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
