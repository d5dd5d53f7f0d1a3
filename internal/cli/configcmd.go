package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/semmy-space/signcreds/internal/config"
	"github.com/semmy-space/signcreds/internal/output"
	"github.com/semmy-space/signcreds/internal/signing"
	"github.com/semmy-space/signcreds/internal/sink"
)

// ScopeFlags selects which config file a command operates on
type ScopeFlags struct {
	Project bool `help:"Use the project file (signcreds.json5 in the project root) instead of the user config"`
}

// target returns the config file the command should read or modify
func (f ScopeFlags) target(user *config.Config, settings *Settings) (*config.Config, error) {
	if !f.Project {
		return user, nil
	}
	project, err := config.LoadProject(settings.ProjectDir)
	if err != nil {
		return nil, output.NewCLIError(output.ExitConfigError, err.Error())
	}
	return project, nil
}

// ConfigGetCmd implements config get command
type ConfigGetCmd struct {
	ScopeFlags
	Key string `arg:"" help:"Config key to get (e.g., base_dir, keystore_file)"`
}

// Run executes the get command
func (cmd *ConfigGetCmd) Run(user *config.Config, settings *Settings, streams *Streams) error {
	cfg, err := cmd.target(user, settings)
	if err != nil {
		return err
	}

	value, err := cfg.Get(cmd.Key)
	if err != nil {
		return output.Errorf(output.ExitNotFound, "Unknown config key: %s", cmd.Key)
	}

	fmt.Fprintln(streams.Out, value)
	return nil
}

// ConfigSetCmd implements config set command
type ConfigSetCmd struct {
	ScopeFlags
	Key   string `arg:"" help:"Config key to set"`
	Value string `arg:"" help:"Value to set"`
}

// Run executes the set command
func (cmd *ConfigSetCmd) Run(user *config.Config, settings *Settings) error {
	cfg, err := cmd.target(user, settings)
	if err != nil {
		return err
	}

	if _, err := cfg.Get(cmd.Key); err != nil {
		return output.Errorf(output.ExitUsage, "Unknown config key: %s", cmd.Key)
	}

	if err := validateValue(cmd.Key, cmd.Value); err != nil {
		return err
	}

	if err := cfg.Set(cmd.Key, cmd.Value); err != nil {
		return output.Errorf(output.ExitGeneral, "Failed to set config: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Set %s = %s\n", cmd.Key, cmd.Value)
	return nil
}

// validateValue rejects values the resolver would refuse later
func validateValue(key, value string) error {
	invalid := func(kind string, valid []string) error {
		return output.Errorf(output.ExitUsage, "Invalid %s: %s. Valid values: %s", kind, value, strings.Join(valid, ", "))
	}

	switch key {
	case "mode":
		if _, err := signing.ParseMode(value); err != nil {
			return invalid("mode", signing.ValidModes())
		}
	case "sink":
		if !validSink(value) {
			return invalid("sink", sink.Kinds())
		}
	case "encoding":
		if _, err := parseEncoding(value); err != nil {
			return invalid("encoding", Encodings)
		}
	case "default_output":
		if !slices.Contains(output.Modes(), value) && value != "auto" {
			return invalid("output", append(output.Modes(), "auto"))
		}
	}

	return nil
}

// ConfigUnsetCmd implements config unset command
type ConfigUnsetCmd struct {
	ScopeFlags
	Key string `arg:"" help:"Config key to remove"`
}

// Run executes the unset command
func (cmd *ConfigUnsetCmd) Run(user *config.Config, settings *Settings) error {
	cfg, err := cmd.target(user, settings)
	if err != nil {
		return err
	}

	if _, err := cfg.Get(cmd.Key); err != nil {
		return output.Errorf(output.ExitUsage, "Unknown config key: %s", cmd.Key)
	}

	if err := cfg.Unset(cmd.Key); err != nil {
		return output.Errorf(output.ExitGeneral, "Failed to unset config: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Unset %s\n", cmd.Key)
	return nil
}

// ConfigListConfigCmd implements config list command
type ConfigListConfigCmd struct {
	ScopeFlags
	Effective bool `help:"Show the merged settings (defaults, user config, project file)"`
}

// configValueWidth caps the value column of the rich config table
const configValueWidth = 48

// configItem is one printed config key/value pair
type configItem struct {
	Key   string
	Value string
}

// Run executes the list command
func (cmd *ConfigListConfigCmd) Run(user *config.Config, settings *Settings, fp *FormatterProvider) error {
	cfg := settings.Config
	if !cmd.Effective {
		var err error
		if cfg, err = cmd.target(user, settings); err != nil {
			return err
		}
	}

	keys := config.Keys()
	items := make([]configItem, 0, len(keys))
	for _, key := range keys {
		value, _ := cfg.Get(key)
		items = append(items, configItem{Key: key, Value: value})
	}

	cols := []output.Column{
		{Name: "Key", Key: "Key"},
		{Name: "Value", Key: "Value", Width: configValueWidth},
	}

	return fp.Formatter.PrintList(items, cols)
}

// ConfigPathCmd implements config path command
type ConfigPathCmd struct {
	ScopeFlags
}

// Run executes the path command
func (cmd *ConfigPathCmd) Run(settings *Settings, streams *Streams) error {
	path := config.ConfigPath()
	if cmd.Project {
		path = config.ProjectPath(settings.ProjectDir)
	}

	fmt.Fprintln(streams.Out, path)

	// Print existence hint to stderr
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "(file does not exist yet - will be created on first write)\n")
	} else {
		fmt.Fprintf(os.Stderr, "(file exists)\n")
	}

	return nil
}
