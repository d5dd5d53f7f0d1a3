// Package sink publishes resolved signing outputs to the places later build
// steps read them from.
package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/semmy-space/signcreds/internal/signing"
)

// Sink receives the published name/value pairs of one resolution.
type Sink interface {
	Publish(entries []signing.Entry) error
}

// Sink kinds selectable from the CLI and config
const (
	KindNone       = "none"
	KindProperties = "properties"
	KindEnv        = "env"
	KindKeyring    = "keyring"
)

// Kinds returns all sink kinds
func Kinds() []string {
	return []string{KindNone, KindProperties, KindEnv, KindKeyring}
}

// Options configures sink construction
type Options struct {
	Out            string    // Target file for the properties sink, "-" or "" for Stdout
	Stdout         io.Writer // Defaults to os.Stdout
	EnvPrefix      string    // Defaults to DefaultEnvPrefix
	KeyringService string    // Defaults to "signcreds"
}

// New creates a sink of the given kind
func New(kind string, opts Options) (Sink, error) {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	switch kind {
	case KindNone, "":
		return Discard{}, nil
	case KindProperties:
		if opts.Out == "" || opts.Out == "-" {
			return NewPropertiesWriter(stdout), nil
		}
		return NewPropertiesFile(opts.Out), nil
	case KindEnv:
		return NewEnv(stdout, opts.EnvPrefix), nil
	case KindKeyring:
		return OpenKeyring(opts.KeyringService)
	default:
		return nil, fmt.Errorf("unknown sink: %s", kind)
	}
}

// WritesStdout reports whether a sink of this kind would write to stdout
func WritesStdout(kind, out string) bool {
	switch kind {
	case KindEnv:
		return true
	case KindProperties:
		return out == "" || out == "-"
	default:
		return false
	}
}

// Discard drops everything
type Discard struct{}

// Publish implements Sink
func (Discard) Publish([]signing.Entry) error { return nil }
