package cli

import (
	"os"

	"golang.org/x/term"
)

// Globals holds global flags available to all commands
type Globals struct {
	ProjectDir string `help:"Project root the base directory is resolved against" default:"." name:"project-dir" short:"C" type:"existingdir" env:"SIGNCREDS_PROJECT_DIR" predictor:"dir"`
	Output     string `help:"Output format" default:"auto" enum:"json,plain,rich,auto" short:"o" env:"SIGNCREDS_OUTPUT"`
	Verbose    bool   `help:"Log resolved paths and other debug details" short:"v" env:"SIGNCREDS_VERBOSE"`
	Quiet      bool   `help:"Only log errors" short:"q" env:"SIGNCREDS_QUIET"`
	LogFormat  string `help:"Log format" default:"text" enum:"text,json" name:"log-format" env:"SIGNCREDS_LOG_FORMAT"`
}

// ResolvedOutput returns the effective output mode
// "auto" falls back to the configured default, then detects TTY: if stdout is TTY -> rich, else -> plain
func (g *Globals) ResolvedOutput(configured string) string {
	if g.Output != "auto" && g.Output != "" {
		return g.Output
	}
	if configured != "" && configured != "auto" {
		return configured
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "rich"
	}

	return "plain"
}
