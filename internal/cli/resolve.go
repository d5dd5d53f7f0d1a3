package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/magiconair/properties"

	"github.com/semmy-space/signcreds/internal/config"
	"github.com/semmy-space/signcreds/internal/output"
	"github.com/semmy-space/signcreds/internal/signing"
	"github.com/semmy-space/signcreds/internal/sink"
)

// SourceFlags locate the keystore and credentials files
type SourceFlags struct {
	BaseDir     string `help:"Base directory, relative to the project root" name:"base-dir" short:"d" env:"SIGNCREDS_BASE_DIR" predictor:"dir"`
	Keystore    string `help:"Keystore file name, relative to the base directory" short:"k" env:"SIGNCREDS_KEYSTORE" predictor:"file"`
	Credentials string `help:"Credentials properties file, relative to the base directory" short:"c" env:"SIGNCREDS_CREDENTIALS" predictor:"file"`
}

func (f SourceFlags) overrides() *config.Config {
	return &config.Config{
		BaseDir:         f.BaseDir,
		KeystoreFile:    f.Keystore,
		CredentialsFile: f.Credentials,
	}
}

// ResolveCmd implements the resolve command
type ResolveCmd struct {
	SourceFlags

	Mode                  string `help:"Extraction mode: named reads the configured property names, fixed reads STORE_PASSWORD/KEY_PASSWORD" enum:"named,fixed," default:"" env:"SIGNCREDS_MODE"`
	StorePasswordProperty string `help:"Property holding the store password (named mode)" name:"store-password-property" env:"SIGNCREDS_STORE_PASSWORD_PROPERTY"`
	KeyAliasProperty      string `help:"Property holding the key alias (named mode, defaults to \"key\" when missing)" name:"key-alias-property" env:"SIGNCREDS_KEY_ALIAS_PROPERTY"`
	KeyPasswordProperty   string `help:"Property holding the key password (named mode)" name:"key-password-property" env:"SIGNCREDS_KEY_PASSWORD_PROPERTY"`
	Encoding              string `help:"Credentials file encoding" enum:"iso-8859-1,utf-8," default:"" env:"SIGNCREDS_ENCODING"`
	Sink                  string `help:"Where to publish the resolved values" enum:"none,properties,env,keyring," default:"" env:"SIGNCREDS_SINK"`
	Out                   string `help:"Target file for the properties sink ('-' for stdout)" default:"-" predictor:"file"`
	Reveal                bool   `help:"Show secret values in the printed table"`
}

// Run executes the resolve command
func (cmd *ResolveCmd) Run(settings *Settings, fp *FormatterProvider, logger *slog.Logger, streams *Streams, bag *sink.Bag) error {
	eff := *settings.Config
	eff.Merge(cmd.SourceFlags.overrides()).Merge(&config.Config{
		Mode:                  cmd.Mode,
		StorePasswordProperty: cmd.StorePasswordProperty,
		KeyAliasProperty:      cmd.KeyAliasProperty,
		KeyPasswordProperty:   cmd.KeyPasswordProperty,
		Encoding:              cmd.Encoding,
		Sink:                  cmd.Sink,
	})

	mode, err := signing.ParseMode(eff.Mode)
	if err != nil {
		return output.Errorf(output.ExitUsage, "Invalid mode: %s. Valid modes: %s", eff.Mode, strings.Join(signing.ValidModes(), ", "))
	}

	enc, err := parseEncoding(eff.Encoding)
	if err != nil {
		return output.NewCLIError(output.ExitUsage, err.Error())
	}

	resolver, conf, err := newResolver(settings.ProjectDir, &eff, logger, signing.WithEncoding(enc))
	if err != nil {
		return err
	}

	out, err := resolver.Resolve(conf.Request(policyFor(mode, &eff)))
	if err != nil {
		return configError(err)
	}

	if err := bag.Publish(out.Entries()); err != nil {
		return output.Errorf(output.ExitSinkError, "Failed to publish resolved values: %v", err)
	}

	entries := bag.Entries()
	s, err := sink.New(eff.Sink, sink.Options{
		Out:            cmd.Out,
		Stdout:         streams.Out,
		KeyringService: eff.KeyringService,
	})
	if err != nil {
		return output.NewCLIError(output.ExitSinkError, err.Error())
	}
	if err := s.Publish(entries); err != nil {
		return output.Errorf(output.ExitSinkError, "Failed to publish to %s sink: %v", eff.Sink, err)
	}
	logger.Debug("published", "sink", eff.Sink, "entries", len(entries))

	// The sink already owns stdout
	if sink.WritesStdout(eff.Sink, cmd.Out) {
		return nil
	}

	return printEntries(fp.Formatter, entries, cmd.Reveal)
}

// CheckCmd implements the check command: it validates both paths without
// reading any secrets
type CheckCmd struct {
	SourceFlags
}

// Run executes the check command
func (cmd *CheckCmd) Run(settings *Settings, fp *FormatterProvider, logger *slog.Logger, bag *sink.Bag) error {
	eff := *settings.Config
	eff.Merge(cmd.SourceFlags.overrides())

	resolver, conf, err := newResolver(settings.ProjectDir, &eff, logger)
	if err != nil {
		return err
	}

	paths, err := resolver.ResolvePaths(conf.BaseDirectory(), conf.KeystoreFileName(), conf.CredentialsFileName())
	if err != nil {
		return configError(err)
	}
	logger.Info("keystore and credentials files found")

	if err := bag.Publish(paths.Entries()); err != nil {
		return output.Errorf(output.ExitSinkError, "Failed to publish resolved paths: %v", err)
	}

	return printEntries(fp.Formatter, bag.Entries(), false)
}

// newResolver fills a signing configuration from cfg and creates a resolver for it
func newResolver(projectDir string, cfg *config.Config, logger *slog.Logger, opts ...signing.Option) (*signing.Resolver, *signing.Configuration, error) {
	conf, err := signing.NewConfiguration(projectDir)
	if err != nil {
		return nil, nil, output.NewCLIError(output.ExitUsage, err.Error())
	}
	conf.SetBaseDirectory(cfg.BaseDir)
	conf.SetKeystoreFileName(cfg.KeystoreFile)
	conf.SetCredentialsFileName(cfg.CredentialsFile)

	resolver, err := signing.NewResolver(conf.ProjectRoot(), append(opts, signing.WithLogger(logger))...)
	if err != nil {
		return nil, nil, output.NewCLIError(output.ExitUsage, err.Error())
	}

	return resolver, conf, nil
}

// policyFor picks the extraction table for mode
func policyFor(mode signing.Mode, cfg *config.Config) signing.Policy {
	if mode == signing.ModeFixed {
		return signing.FixedKeyPolicy()
	}
	return signing.NamedKeyPolicy(cfg.StorePasswordProperty, cfg.KeyAliasProperty, cfg.KeyPasswordProperty)
}

// Encodings lists the accepted credentials file encodings
var Encodings = []string{"iso-8859-1", "utf-8"}

// parseEncoding maps an encoding name to a properties encoding.
// Empty means ISO-8859-1, the encoding Java uses for .properties files.
func parseEncoding(name string) (properties.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "iso-8859-1", "latin1":
		return properties.ISO_8859_1, nil
	case "utf-8", "utf8":
		return properties.UTF8, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q, valid encodings: %s", name, strings.Join(Encodings, ", "))
	}
}

// configError converts a resolution failure into a CLI error
func configError(err error) error {
	var cfgErr *signing.ConfigurationError
	if !errors.As(err, &cfgErr) {
		return output.NewCLIError(output.ExitGeneral, err.Error())
	}

	cliErr := output.NewCLIError(output.ExitConfigError, cfgErr.Message)
	if cfgErr.Err != nil {
		cliErr.WithHint(cfgErr.Err.Error())
	}
	return cliErr
}

// entryRow is the printed form of a published entry
type entryRow struct {
	Name  string
	Value string
}

var entryColumns = []output.Column{
	{Name: "Name", Key: "Name"},
	{Name: "Value", Key: "Value"},
}

// printEntries prints entries, masking sensitive values unless reveal is set
func printEntries(f output.Formatter, entries []signing.Entry, reveal bool) error {
	rows := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, displayRow(e, reveal))
	}
	return f.PrintList(rows, entryColumns)
}

// displayRow converts e for printing, masking sensitive values unless reveal is set
func displayRow(e signing.Entry, reveal bool) entryRow {
	value := e.Value
	if e.Sensitive && !reveal {
		value = maskSecret(value)
	}
	return entryRow{Name: e.Name, Value: value}
}

// maskSecret hides a sensitive value entirely; only emptiness shows through
func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	return "********"
}

// validSink reports whether kind names a known sink
func validSink(kind string) bool {
	return slices.Contains(sink.Kinds(), kind)
}
