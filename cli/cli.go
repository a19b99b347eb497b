package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lom/cli/cmd"
	"github.com/ardnew/lom/grammar"
	"github.com/ardnew/lom/parser"
	"github.com/ardnew/lom/pkg"
)

// CLI is the top-level command-line interface for lom.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Path []string `help:"Grammar search path, searched before ${pathEnv}." placeholder:"DIR" short:"I" type:"path"`

	Run   cmd.Run   `cmd:"" default:"withargs" help:"Parse inputs with a grammar rule."`
	Check cmd.Check `cmd:""                    help:"Validate a grammar and list its rules."`
	Fmt   cmd.Fmt   `cmd:""                    help:"Print the normalized grammar."`
	Repl  cmd.Repl  `cmd:""                    help:"Test inputs interactively."`
	Init  cmd.Init  `cmd:""                    help:"Initialize configuration file."`
}

// Run executes the lom CLI with args. exit is called by kong on --help and
// usage errors.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + configExt)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"pathEnv":            pkg.PathEnv,
		"maxDepth":           strconv.Itoa(parser.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(baseConfig), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, grammar.SearchPath(cli.Path...))

	defer cli.Log.start(ctx)()
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
