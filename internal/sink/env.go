package sink

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/semmy-space/signcreds/internal/signing"
)

// DefaultEnvPrefix is prepended to every exported variable name
const DefaultEnvPrefix = "SIGNCREDS_"

// Env writes POSIX shell export statements, meant for eval "$(signcreds resolve --sink env)"
type Env struct {
	w      io.Writer
	prefix string
}

// NewEnv creates an env sink writing to w
func NewEnv(w io.Writer, prefix string) *Env {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return &Env{w: w, prefix: prefix}
}

// Publish implements Sink
func (s *Env) Publish(entries []signing.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(s.w, "export %s=%s\n", s.prefix+EnvName(e.Name), shellQuote(e.Value)); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.Name, err)
		}
	}
	return nil
}

// EnvName converts a camelCase output name to UPPER_SNAKE_CASE
func EnvName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// shellQuote wraps s in single quotes so the shell takes it literally
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
