package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/macro/cli/cmd"
	"github.com/ardnew/macro/lang"
	"github.com/ardnew/macro/macro"
	"github.com/ardnew/macro/pkg"
)

// CLI is the top-level command-line interface for macro.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Root    string           `default:"."            help:"Directory that relative and '~/' template paths resolve against" type:"path"`
	TempDir string           `default:"${inlineDir}" help:"Directory inline templates are materialized in"                   type:"path"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render a template"`
	Scan   cmd.Scan   `cmd:""                    help:"Print the scanned form of a template"`
	Check  cmd.Check  `cmd:""                    help:"Validate templates without evaluating them"`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the macro CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"inlineDir":          cachePath(baseInline),
		"scanFormatEnum":     strings.Join(slices.Collect(lang.Formats()), ","),
		"version":            pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
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
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfigJSON)),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithRendererOptions(ctx,
		macro.WithRoot(cli.Root),
		macro.WithTempDir(cli.TempDir),
	)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
