package grammar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Document returns the grammar in canonical form with included rules
// inlined, in definition order.
func (g *Grammar) Document() yaml.MapSlice {
	rules := make(yaml.MapSlice, 0, len(g.order))
	for _, name := range g.order {
		rules = append(rules, yaml.MapItem{Key: name, Value: g.exprs[name].Native()})
	}

	return yaml.MapSlice{
		{Key: "start", Value: g.start},
		{Key: "rules", Value: rules},
	}
}

// ToMap returns the grammar in canonical form as a plain map.
func (g *Grammar) ToMap() map[string]any {
	rules := make(map[string]any, len(g.order))
	for _, name := range g.order {
		rules[name] = g.exprs[name].Native()
	}

	return map[string]any{"start": g.start, "rules": rules}
}

// MarshalYAML implements [yaml.InterfaceMarshaler].
func (g *Grammar) MarshalYAML() (any, error) { return g.Document(), nil }

// MarshalJSON implements [json.Marshaler].
func (g *Grammar) MarshalJSON() ([]byte, error) { return json.Marshal(g.ToMap()) }

// FormatJSON writes the grammar as JSON to w. A positive indent spreads it
// over multiple lines.
func (g *Grammar) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(g, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(g)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the grammar as YAML to w. An indent of zero writes flow
// style.
func (g *Grammar) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, g.Document(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}
