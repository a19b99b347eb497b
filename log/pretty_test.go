package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withoutColor(t *testing.T) {
	t.Helper()

	prev := color.NoColor
	color.NoColor = true

	t.Cleanup(func() { color.NoColor = prev })
}

func TestPrettyTextHandler(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	l.With(slog.String("rule", "expr")).Warn("callback failed",
		slog.Int("offset", 4),
		slog.Bool("ok", false),
	)

	want := "level=WARN msg=callback failed rule=expr offset=4 ok=false\n"
	if got := buf.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPrettyTextHandlerGroups(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer

	h := newPrettyTextHandler(&buf, &slog.HandlerOptions{}, makeFormatTimeFunc(""))
	slog.New(h).WithGroup("node").Info("x", slog.String("kind", "pair"))

	if !strings.Contains(buf.String(), "node.kind=pair") {
		t.Errorf("group not applied: %q", buf.String())
	}
}

func TestPrettyJSONHandlerIsValidJSON(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	l.Error("parse failed",
		slog.String("input", `say "hi"`),
		slog.Any("values", []string{"a", "b"}),
	)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("pretty JSON is not valid JSON: %v\n%s", err, buf.String())
	}

	if rec["input"] != `say "hi"` || rec["level"] != "ERROR" {
		t.Errorf("record = %v", rec)
	}
}
