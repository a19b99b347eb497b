package grammar

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Form names the shape of a grammar node.
type Form string

const (
	FormLiteral    Form = "literal"
	FormAnyChar    Form = "any_char"
	FormIdentifier Form = "identifier"
	FormRef        Form = "ref"
	FormMap        Form = "map"
	FormPred       Form = "pred"
	FormAndThen    Form = "and_then"
	FormOrElse     Form = "or_else"
	FormPair       Form = "pair"
	FormSeq        Form = "seq"
	FormTakeAfter  Form = "take_after"
	FormDropFor    Form = "drop_for"
	FormOneOrMore  Form = "one_or_more"
	FormZeroOrMore Form = "zero_or_more"
	FormLazy       Form = "lazy"
	FormCustom     Form = "custom"
)

// aliases maps alternative form names to their canonical form.
var aliases = map[string]Form{
	"left":  FormTakeAfter,
	"right": FormDropFor,
}

// Expr is a decoded grammar node.
//
// Text holds the literal text, the referenced rule name or the callback
// source, depending on the form. Args holds child nodes in parse order.
type Expr struct {
	Form Form
	Text string
	Args []*Expr
}

// String renders e on one line, such as or_else(ref number, "x").
func (e *Expr) String() string {
	switch e.Form {
	case FormLiteral:
		return strconv.Quote(e.Text)
	case FormRef:
		return "ref " + e.Text
	case FormLazy, FormCustom:
		return string(e.Form) + " {" + e.Text + "}"
	}

	var b strings.Builder

	b.WriteString(string(e.Form))

	if len(e.Args) == 0 && e.Text == "" {
		return b.String()
	}

	b.WriteByte('(')

	for i, a := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(a.String())
	}

	if e.Text != "" {
		if len(e.Args) > 0 {
			b.WriteString(", ")
		}

		b.WriteString("{" + e.Text + "}")
	}

	b.WriteByte(')')

	return b.String()
}

// Refs yields the names of every rule referenced from e.
func (e *Expr) Refs(yield func(string) bool) {
	var walk func(*Expr) bool

	walk = func(e *Expr) bool {
		if e.Form == FormRef && !yield(e.Text) {
			return false
		}

		for _, a := range e.Args {
			if !walk(a) {
				return false
			}
		}

		return true
	}

	walk(e)
}

// decode converts a generic YAML value into an Expr. at locates v in the
// document for error messages.
func decode(at string, v any) (*Expr, error) {
	if s, ok := v.(string); ok {
		switch Form(s) {
		case FormAnyChar, FormIdentifier:
			return &Expr{Form: Form(s)}, nil
		}

		return nil, ErrSyntax.With(
			slog.String("at", at),
			slog.String("form", s),
			slog.String("reason", "bare form takes arguments"),
		)
	}

	key, val, err := single(at, v)
	if err != nil {
		return nil, err
	}

	form := Form(key)
	if alias, ok := aliases[key]; ok {
		form = alias
	}

	at += "." + key

	switch form {
	case FormAnyChar, FormIdentifier:
		if val != nil {
			return nil, syntax(at, "takes no argument")
		}

		return &Expr{Form: form}, nil

	case FormLiteral:
		if val == nil {
			return nil, syntax(at, "missing text")
		}

		return &Expr{Form: form, Text: scalar(val)}, nil

	case FormRef, FormLazy, FormCustom:
		s, ok := val.(string)
		if !ok || s == "" {
			return nil, syntax(at, "want a non-empty string")
		}

		return &Expr{Form: form, Text: s}, nil

	case FormMap, FormPred, FormAndThen:
		return decodeCallback(at, form, val)

	case FormOrElse, FormSeq:
		return decodeList(at, form, val, 2, -1)

	case FormPair, FormTakeAfter, FormDropFor:
		return decodeList(at, form, val, 2, 2)

	case FormOneOrMore, FormZeroOrMore:
		inner, err := decode(at, val)
		if err != nil {
			return nil, err
		}

		return &Expr{Form: form, Args: []*Expr{inner}}, nil

	default:
		return nil, ErrSyntax.With(
			slog.String("at", at),
			slog.String("form", key),
			slog.String("reason", "unknown form"),
		)
	}
}

func decodeCallback(at string, form Form, val any) (*Expr, error) {
	fields, err := entries(val)
	if err != nil || len(fields) != 2 {
		return nil, syntax(at, "want a mapping of inner and fn")
	}

	var (
		inner *Expr
		fn    string
	)

	for _, f := range fields {
		switch f.Key {
		case "inner":
			if inner, err = decode(at+".inner", f.Value); err != nil {
				return nil, err
			}
		case "fn":
			fn, _ = f.Value.(string)
		}
	}

	if inner == nil || fn == "" {
		return nil, syntax(at, "want a mapping of inner and fn")
	}

	return &Expr{Form: form, Text: fn, Args: []*Expr{inner}}, nil
}

func decodeList(at string, form Form, val any, lo, hi int) (*Expr, error) {
	items, ok := val.([]any)
	if !ok || len(items) < lo || (hi >= 0 && len(items) > hi) {
		if hi == lo {
			return nil, syntax(at, "want a list of "+strconv.Itoa(lo)+" nodes")
		}

		return nil, syntax(at, "want a list of at least "+strconv.Itoa(lo)+" nodes")
	}

	e := &Expr{Form: form, Args: make([]*Expr, len(items))}

	for i, item := range items {
		a, err := decode(at+"["+strconv.Itoa(i)+"]", item)
		if err != nil {
			return nil, err
		}

		e.Args[i] = a
	}

	return e, nil
}

func syntax(at, reason string) error {
	return ErrSyntax.With(slog.String("at", at), slog.String("reason", reason))
}

// single returns the only entry of the mapping v.
func single(at string, v any) (string, any, error) {
	fields, err := entries(v)
	if err != nil || len(fields) != 1 {
		return "", nil, syntax(at, "want a mapping with exactly one form")
	}

	return fields[0].Key, fields[0].Value, nil
}

type entry struct {
	Key   string
	Value any
}

// entries lists the fields of a decoded YAML mapping, which is either
// ordered or not depending on how it was decoded.
func entries(v any) ([]entry, error) {
	switch m := v.(type) {
	case yaml.MapSlice:
		out := make([]entry, 0, len(m))
		for _, item := range m {
			out = append(out, entry{Key: scalar(item.Key), Value: item.Value})
		}

		return out, nil

	case map[string]any:
		out := make([]entry, 0, len(m))
		for k, v := range m {
			out = append(out, entry{Key: k, Value: v})
		}

		return out, nil

	default:
		return nil, ErrSyntax.With(slog.String("type", fmt.Sprintf("%T", v)))
	}
}

func scalar(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}

// Native returns e as generic YAML data in its canonical spelling.
func (e *Expr) Native() any {
	switch e.Form {
	case FormAnyChar, FormIdentifier:
		return string(e.Form)

	case FormLiteral, FormRef, FormLazy, FormCustom:
		return map[string]any{string(e.Form): e.Text}

	case FormMap, FormPred, FormAndThen:
		return map[string]any{string(e.Form): map[string]any{
			"inner": e.Args[0].Native(),
			"fn":    e.Text,
		}}

	case FormOneOrMore, FormZeroOrMore:
		return map[string]any{string(e.Form): e.Args[0].Native()}

	default:
		items := make([]any, len(e.Args))
		for i, a := range e.Args {
			items[i] = a.Native()
		}

		return map[string]any{string(e.Form): items}
	}
}
