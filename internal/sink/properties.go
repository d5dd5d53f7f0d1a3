package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/magiconair/properties"

	"github.com/semmy-space/signcreds/internal/signing"
)

const lockTimeout = 10 * time.Second

// PropertiesFile writes entries in .properties format, either to a writer
// or atomically to a file guarded by an advisory lock.
type PropertiesFile struct {
	path string
	w    io.Writer
}

// NewPropertiesFile creates a sink that replaces the file at path
func NewPropertiesFile(path string) *PropertiesFile {
	return &PropertiesFile{path: path}
}

// NewPropertiesWriter creates a sink that writes to w
func NewPropertiesWriter(w io.Writer) *PropertiesFile {
	return &PropertiesFile{w: w}
}

// Publish implements Sink
func (s *PropertiesFile) Publish(entries []signing.Entry) error {
	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, e := range entries {
		if _, _, err := p.Set(e.Name, e.Value); err != nil {
			return fmt.Errorf("failed to set %s: %w", e.Name, err)
		}
	}

	if s.w != nil {
		_, err := p.Write(s.w, properties.ISO_8859_1)
		return err
	}
	return s.writeFile(p)
}

// writeFile replaces the target through a temp file and rename while
// holding path.lock, so readers never see a partial file.
func (s *PropertiesFile) writeFile(p *properties.Properties) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock: timeout")
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, ".signcreds-*.properties")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := p.Write(tmp, properties.ISO_8859_1); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write properties: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write properties: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	return nil
}
