package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/hotmark/cli/cmd"
	"github.com/ardnew/hotmark/markup"
	"github.com/ardnew/hotmark/pkg"
)

// CLI is the command line of hotmark.
type CLI struct {
	Version kong.VersionFlag `help:"Print version and exit"`

	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Template cmd.Options `embed:"" group:"template"`

	Render  cmd.Render  `cmd:"" default:"withargs" help:"Render a template"`
	Plan    cmd.Plan    `cmd:""                    help:"Print the hot-reload format string of a template"`
	Recover cmd.Recover `cmd:""                    help:"Print the template body invoked at a source line"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Format a template"`
	Repl    cmd.Repl    `cmd:""                    help:"Render templates interactively"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
}

// Run parses args and runs the selected command. Kong calls exit after
// printing help or a usage error.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cli CLI

	// Logging flags apply before parsing so that parse errors are logged
	// the way the user asked, wherever the flags appear.
	cli.Log.scan(args)

	parser, err := cli.parser(ctx, exit)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithVarFiles(cmd.WithContext(ctx, ktx), cli.Template.Vars)

	cli.Log.start(ctx)

	stop := cli.Pprof.start(ctx)
	defer stop()

	return ktx.Run(ctx, &cli.Template)
}

// parser returns the kong parser of cli. Flags unset on the command line
// are read from the configuration file.
func (cli *CLI) parser(ctx context.Context, exit func(int)) (*kong.Kong, error) {
	config := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: config,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.About(),
	}

	for _, more := range []kong.Vars{
		cli.Log.vars(),
		cli.Pprof.vars(),
		cli.Template.KongVars(markup.DefaultKeyword),
	} {
		vars = vars.CloneWith(more)
	}

	return kong.New(cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{
			{Key: "template", Title: "Template options"},
			cli.Log.group(),
			cli.Pprof.group(),
		}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(resolve(baseConfig), config),
		vars,
	)
}
