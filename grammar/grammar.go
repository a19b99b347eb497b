package grammar

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lom/host"
	"github.com/ardnew/lom/log"
	"github.com/ardnew/lom/parser"
	"github.com/ardnew/lom/pkg"
)

// Grammar is a set of named rules built into parsers on one host.
type Grammar struct {
	ctx      context.Context
	logger   log.Logger
	host     *host.Host
	ownHost  bool
	hostOpts []host.Option
	path     []string
	name     string
	start    string
	order    []string
	exprs    map[string]*Expr
	origin   map[string]string
	rules    map[string]*parser.Parser
	files    []string
	seen     map[string]bool
	closed   bool
}

// Match is the outcome of parsing an input with a rule.
type Match struct {
	Rule  string
	Value any
	Rest  string
	OK    bool
}

// document is the YAML layout of a grammar file.
type document struct {
	Start   string        `yaml:"start,omitempty"`
	Include []string      `yaml:"include,omitempty"`
	Rules   yaml.MapSlice `yaml:"rules,omitempty"`
}

func newGrammar(ctx context.Context, opts ...Option) *Grammar {
	g := &Grammar{
		ctx:    ctx,
		exprs:  make(map[string]*Expr),
		origin: make(map[string]string),
		rules:  make(map[string]*parser.Parser),
		seen:   make(map[string]bool),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Load reads a grammar document from r.
func Load(ctx context.Context, r io.Reader, opts ...Option) (*Grammar, error) {
	g := newGrammar(ctx, opts...)
	if g.name == "" {
		g.name = "<input>"
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("file", g.name))
	}

	return g.finish(g.load(g.name, filepath.Dir(g.name), data))
}

// LoadFile reads the grammar document in the file name, located with
// [Find] relative to the working directory and the search path.
func LoadFile(ctx context.Context, name string, opts ...Option) (*Grammar, error) {
	g := newGrammar(ctx, opts...)

	path, err := Find(name, ".", g.path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("file", path))
	}

	g.name = path
	g.seen[path] = true

	return g.finish(g.load(path, filepath.Dir(path), data))
}

// load decodes one document and, before its own rules, every file it
// includes. Each file is loaded once.
func (g *Grammar) load(name, base string, data []byte) (*document, error) {
	var doc document

	err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField())
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("file", name))
	}

	for _, inc := range doc.Include {
		path, err := Find(inc, base, g.path)
		if err != nil {
			return nil, pkg.WrapError(err).With(slog.String("file", name))
		}

		if g.seen[path] {
			g.logger.TraceContext(g.ctx, "include already loaded",
				slog.String("file", path))

			continue
		}

		g.seen[path] = true

		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, ErrRead.Wrap(err).With(slog.String("file", path))
		}

		if _, err := g.load(path, filepath.Dir(path), buf); err != nil {
			return nil, err
		}
	}

	for _, item := range doc.Rules {
		rule := scalar(item.Key)

		if prev, dup := g.origin[rule]; dup {
			return nil, ErrDuplicateRule.With(
				slog.String("rule", rule),
				slog.String("file", name),
				slog.String("previous", prev),
			)
		}

		e, err := decode(rule, item.Value)
		if err != nil {
			return nil, pkg.WrapError(err).With(slog.String("file", name))
		}

		g.exprs[rule] = e
		g.origin[rule] = name
		g.order = append(g.order, rule)
	}

	g.files = append(g.files, name)

	g.logger.TraceContext(g.ctx, "grammar file decoded",
		slog.String("file", name),
		slog.Int("rules", len(doc.Rules)),
	)

	return &doc, nil
}

// finish validates the decoded rules and builds their parsers.
func (g *Grammar) finish(top *document, err error) (*Grammar, error) {
	if err != nil {
		return nil, err
	}

	if len(g.order) == 0 {
		return nil, ErrNoRules.With(slog.String("file", g.name))
	}

	switch {
	case top.Start != "":
		g.start = top.Start
	case len(top.Rules) > 0:
		g.start = scalar(top.Rules[0].Key)
	default:
		g.start = g.order[0]
	}

	if _, ok := g.exprs[g.start]; !ok {
		return nil, g.unknown(g.start, "start")
	}

	for _, name := range g.order {
		for ref := range g.exprs[name].Refs {
			if _, ok := g.exprs[ref]; !ok {
				return nil, g.unknown(ref, name)
			}
		}
	}

	if g.host == nil {
		g.host = host.New(g.ctx,
			append([]host.Option{host.WithLogger(g.logger)}, g.hostOpts...)...)
		g.ownHost = true
	}

	g.host.SetResolver(g)

	b := builder{g: g, rt: g.host.Runtime()}

	for _, name := range g.order {
		n, err := b.build(g.exprs[name])
		if err != nil {
			_ = g.Close()

			return nil, ErrBuild.Wrap(err).With(
				slog.String("rule", name),
				slog.String("file", g.origin[name]),
			)
		}

		g.rules[name] = b.rt.Wrap(n)
	}

	g.logger.DebugContext(g.ctx, "grammar loaded",
		slog.String("file", g.name),
		slog.String("start", g.start),
		slog.Int("rules", len(g.order)),
		slog.Int("files", len(g.files)),
	)

	return g, nil
}

func (g *Grammar) unknown(rule, from string) error {
	return ErrUnknownRule.With(
		slog.String("rule", rule),
		slog.String("from", from),
		slog.Any("did_you_mean", Suggest(rule, g.order)),
	)
}

// Name returns the file name or the name given with [WithName].
func (g *Grammar) Name() string { return g.name }

// Start returns the rule used when none is named.
func (g *Grammar) Start() string { return g.start }

// Rules returns the rule names in definition order, included files first.
func (g *Grammar) Rules() []string { return slices.Clone(g.order) }

// Files returns every file loaded, included files first.
func (g *Grammar) Files() []string { return slices.Clone(g.files) }

// Host returns the host the rules were built on.
func (g *Grammar) Host() *host.Host { return g.host }

// Expr returns the decoded definition of rule.
func (g *Grammar) Expr(rule string) (*Expr, bool) {
	e, ok := g.exprs[rule]

	return e, ok
}

// Rule returns the parser of rule. The grammar keeps ownership of it.
func (g *Grammar) Rule(name string) (*parser.Parser, bool) {
	if g.closed {
		return nil, false
	}

	p, ok := g.rules[name]

	return p, ok
}

// Suggest returns the rule names resembling name.
func (g *Grammar) Suggest(name string) []string { return Suggest(name, g.order) }

// Parse parses input with rule, or with the start rule if rule is empty. An
// input that does not match is not an error; see [Match.OK].
func (g *Grammar) Parse(rule, input string) (Match, error) {
	if g.closed {
		return Match{}, ErrClosed
	}

	if rule == "" {
		rule = g.start
	}

	p, ok := g.rules[rule]
	if !ok {
		return Match{}, g.unknown(rule, "parse")
	}

	v, rest, ok := p.Parse(input)

	return Match{Rule: rule, Value: v, Rest: rest, OK: ok}, nil
}

// Close releases every rule parser and, if the grammar created its host,
// closes the host.
func (g *Grammar) Close() error {
	if g.closed {
		return nil
	}

	g.closed = true

	for _, p := range g.rules {
		p.Close()
	}

	if g.ownHost {
		return g.host.Close()
	}

	g.host.Runtime().Collect()

	return nil
}
