package host

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/lom/parser"
)

// Names bound by every program environment.
const (
	VarValue = "v"
	VarArgs  = "args"
)

// env is the environment every program is compiled against and run with.
// The arguments are typed any so that the checker defers their type to run
// time.
type env struct {
	V    any   `expr:"v"`
	Args []any `expr:"args"`

	Literal    func(s string) *parser.Parser             `expr:"literal"`
	AnyChar    func() *parser.Parser                     `expr:"any_char"`
	Identifier func() *parser.Parser                     `expr:"identifier"`
	Rule       func(name string) (*parser.Parser, error) `expr:"rule"`
	Text       func(v any) string                        `expr:"text"`
	Str        func(v any) string                        `expr:"str"`
}

// makeEnv returns the environment shared by every program of h. Programs
// run with a copy carrying their arguments.
func (h *Host) makeEnv() env {
	return env{
		Args: []any{},
		Literal: func(s string) *parser.Parser {
			return h.rt.Wrap(h.rt.Literal(s))
		},
		AnyChar: func() *parser.Parser {
			return h.rt.Wrap(h.rt.AnyChar())
		},
		Identifier: func() *parser.Parser {
			return h.rt.Wrap(h.rt.Identifier())
		},
		Rule: h.rule,
		Text: Text,
		Str:  Str,
	}
}

// EnvKeys returns the names bound in every program environment.
func (h *Host) EnvKeys() []string {
	t := reflect.TypeFor[env]()
	keys := make([]string, 0, t.NumField())

	for i := range t.NumField() {
		keys = append(keys, t.Field(i).Tag.Get("expr"))
	}

	return keys
}

func (h *Host) bind(args []any) env {
	e := h.env

	if len(args) > 0 {
		e.V = args[0]
	}

	e.Args = args

	return e
}

func (h *Host) rule(name string) (*parser.Parser, error) {
	if h.resolver == nil {
		return nil, ErrNoResolver.With(slog.String("rule", name))
	}

	p, ok := h.resolver.Rule(name)
	if !ok {
		return nil, ErrUnknownRule.With(slog.String("rule", name))
	}

	return p, nil
}

func compile(src string) (*vm.Program, error) {
	prog, err := expr.Compile(src, expr.Env(env{}))
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("source", src))
	}

	return prog, nil
}

// Text joins the text in v, descending into sequences. Other values are
// formatted with [Str].
func Text(v any) string {
	var b strings.Builder

	var walk func(any)

	walk = func(v any) {
		switch v := v.(type) {
		case nil:
		case string:
			b.WriteString(v)
		case []any:
			for _, e := range v {
				walk(e)
			}
		default:
			b.WriteString(Str(v))
		}
	}

	walk(v)

	return b.String()
}

// Str formats v as text. Parsers print as <Parser:kind>.
func Str(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
