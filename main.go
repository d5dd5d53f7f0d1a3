package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"

	"github.com/semmy-space/signcreds/internal/cli"
	"github.com/semmy-space/signcreds/internal/output"
)

var (
	version = "dev"
)

func main() {
	cliInstance := &cli.CLI{}
	parser := kong.Must(cliInstance,
		kong.Name("signcreds"),
		kong.Description("Resolve keystore signing credentials from a properties file"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	// Answers shell completion requests and exits when COMP_LINE is set
	kongplete.Complete(parser,
		kongplete.WithPredictor("file", complete.PredictFiles("*")),
		kongplete.WithPredictor("dir", complete.PredictDirs("*")),
	)

	ctx, err := parser.Parse(os.Args[1:])
	if err == nil {
		err = ctx.Run()
	}
	if err != nil {
		var cliErr *output.CLIError
		var parseErr *kong.ParseError
		if !errors.As(err, &cliErr) && errors.As(err, &parseErr) {
			fmt.Fprintf(os.Stderr, "signcreds: error: %v\n", err)
			if parseErr.Context != nil {
				_ = parseErr.Context.PrintUsage(true)
			}
			os.Exit(output.ExitUsage)
		}

		os.Exit(cliInstance.ReportError(err, os.Stderr))
	}
}
