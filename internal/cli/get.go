package cli

import (
	"errors"
	"sort"

	"github.com/semmy-space/signcreds/internal/output"
	"github.com/semmy-space/signcreds/internal/signing"
	"github.com/semmy-space/signcreds/internal/sink"
)

// keyringOpener opens the keyring sink for a service
type keyringOpener func(service string) (*sink.Keyring, error)

// GetCmd reads values back from the keyring sink
type GetCmd struct {
	Name    string `arg:"" optional:"" help:"Published name to read (e.g., storePassword). Omit to list every published name"`
	Service string `help:"Keyring service (defaults to keyring_service from config)" env:"SIGNCREDS_KEYRING_SERVICE"`
	Reveal  bool   `help:"Show secret values"`
}

// Run executes the get command
func (cmd *GetCmd) Run(settings *Settings, fp *FormatterProvider, open keyringOpener) error {
	service := cmd.Service
	if service == "" {
		service = settings.KeyringService
	}

	ring, err := open(service)
	if err != nil {
		return output.NewCLIError(output.ExitSinkError, err.Error())
	}

	if cmd.Name != "" {
		e, err := readEntry(ring, cmd.Name, service)
		if err != nil {
			return err
		}
		return fp.Formatter.Print(displayRow(e, cmd.Reveal))
	}

	names, err := ring.Keys()
	if err != nil {
		return output.NewCLIError(output.ExitSinkError, err.Error())
	}
	sort.Strings(names)

	entries := make([]signing.Entry, 0, len(names))
	for _, name := range names {
		e, err := readEntry(ring, name, service)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}

	return printEntries(fp.Formatter, entries, cmd.Reveal)
}

func readEntry(ring *sink.Keyring, name, service string) (signing.Entry, error) {
	value, err := ring.Get(name)
	if errors.Is(err, sink.ErrNotFound) {
		return signing.Entry{}, output.Errorf(output.ExitNotFound, "%s is not published in keyring service %s", name, service).
			WithHint("Run: signcreds resolve --sink keyring")
	}
	if err != nil {
		return signing.Entry{}, output.NewCLIError(output.ExitSinkError, err.Error())
	}
	return signing.Entry{Name: name, Value: value, Sensitive: signing.SensitiveOutput(name)}, nil
}
