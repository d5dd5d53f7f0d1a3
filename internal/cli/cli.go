package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"

	"github.com/semmy-space/signcreds/internal/config"
	"github.com/semmy-space/signcreds/internal/output"
	"github.com/semmy-space/signcreds/internal/sink"
)

// FormatterProvider wraps the formatter interface for Kong binding
type FormatterProvider struct {
	Formatter output.Formatter
}

// Streams is where sinks that target the terminal write to
type Streams struct {
	Out io.Writer
}

// Settings is the effective configuration: defaults, then the user config,
// then the project file
type Settings struct {
	*config.Config
	ProjectDir string
}

// CLI is the root command structure
type CLI struct {
	Globals

	Resolve            ResolveCmd                   `cmd:"" help:"Resolve keystore credentials and publish them"`
	Check              CheckCmd                     `cmd:"" help:"Check that the keystore and credentials files exist"`
	Get                GetCmd                       `cmd:"" help:"Read values published to the keyring"`
	Config             ConfigCmd                    `cmd:"" help:"Configuration commands"`
	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
	Version            VersionCmd                   `cmd:"" help:"Show version information"`

	outputMode string `kong:"-"`
}

// AfterApply runs once flags are parsed, before any command executes.
// It loads both config layers, creates the formatter and logger, and binds them.
func (c *CLI) AfterApply(ctx *kong.Context) error {
	user, err := config.Load()
	if err != nil {
		return output.NewCLIError(output.ExitConfigError, err.Error())
	}

	project, err := config.LoadProject(c.ProjectDir)
	if err != nil {
		return output.NewCLIError(output.ExitConfigError, err.Error())
	}

	settings := &Settings{
		Config:     config.Defaults().Merge(user).Merge(project),
		ProjectDir: c.ProjectDir,
	}

	c.outputMode = c.ResolvedOutput(settings.DefaultOutput)
	formatter := &FormatterProvider{
		Formatter: output.New(c.outputMode),
	}

	ctx.Bind(user)
	ctx.Bind(settings)
	ctx.Bind(formatter)
	ctx.Bind(newLogger(&c.Globals, os.Stderr))
	ctx.Bind(&Streams{Out: os.Stdout})
	ctx.Bind(sink.NewBag())
	ctx.Bind(keyringOpener(sink.OpenKeyring))
	ctx.Bind(&c.Globals)

	return nil
}

// ReportError prints err in the resolved output mode and returns the exit code.
// Before the config is loaded the mode comes from the flags alone.
func (c *CLI) ReportError(err error, errOut io.Writer) int {
	mode := c.outputMode
	if mode == "" {
		mode = c.ResolvedOutput("")
	}
	formatter := output.NewWithWriters(mode, io.Discard, errOut)

	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		formatter.PrintError(cliErr)
		if cliErr.Hint != "" {
			formatter.PrintHint(cliErr.Hint)
		}
		return cliErr.ExitCode
	}

	formatter.PrintError(err)
	return output.ExitGeneral
}

// ConfigCmd holds configuration subcommands
type ConfigCmd struct {
	Get   ConfigGetCmd        `cmd:"" help:"Get a configuration value"`
	Set   ConfigSetCmd        `cmd:"" help:"Set a configuration value"`
	Unset ConfigUnsetCmd      `cmd:"" help:"Remove a configuration value"`
	List  ConfigListConfigCmd `cmd:"" name:"list" help:"List all configuration values"`
	Path  ConfigPathCmd       `cmd:"" help:"Show config file path"`
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context, streams *Streams) error {
	_, err := fmt.Fprintln(streams.Out, "signcreds version "+ctx.Model.Vars()["version"])
	return err
}
