package sink

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"

	"github.com/semmy-space/signcreds/internal/config"
	"github.com/semmy-space/signcreds/internal/signing"
)

// DefaultKeyringService is the keyring service name used when none is configured
const DefaultKeyringService = "signcreds"

// ErrNotFound is returned when a name has not been published to the keyring
var ErrNotFound = errors.New("key not found")

// Keyring publishes entries as items of an OS keyring service.
type Keyring struct {
	ring    keyring.Keyring
	service string
}

// OpenKeyring opens the platform keyring for service, falling back to an
// encrypted file under the data directory on WSL and headless Linux.
// Returns an error if no keyring backend is available.
func OpenKeyring(service string) (*Keyring, error) {
	if service == "" {
		service = DefaultKeyringService
	}

	cfg := keyring.Config{
		ServiceName:              service,
		AllowedBackends:          keyringBackends(),
		KeychainTrustApplication: true, // macOS: don't prompt every access
		FileDir:                  filepath.Join(config.DataDir(), "keyring"),
		FilePasswordFunc:         keyring.TerminalPrompt,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	return NewKeyring(ring, service), nil
}

// NewKeyring wraps an already opened keyring
func NewKeyring(ring keyring.Keyring, service string) *Keyring {
	return &Keyring{ring: ring, service: service}
}

// Publish stores every entry and removes outputs this resolution did not
// produce, so a later reader never sees a stale password.
func (s *Keyring) Publish(entries []signing.Entry) error {
	published := make(map[string]bool, len(entries))
	for _, e := range entries {
		item := keyring.Item{
			Key:   e.Name,
			Data:  []byte(e.Value),
			Label: s.service + " " + e.Name,
		}
		if err := s.ring.Set(item); err != nil {
			return fmt.Errorf("keyring set %s failed: %w", e.Name, err)
		}
		published[e.Name] = true
	}

	for _, name := range signing.OutputNames() {
		if published[name] {
			continue
		}
		if err := s.ring.Remove(name); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("keyring delete %s failed: %w", name, err)
		}
	}

	return nil
}

// Get retrieves a published value from the keyring
func (s *Keyring) Get(name string) (string, error) {
	item, err := s.ring.Get(name)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("keyring get failed: %w", err)
	}
	return string(item.Data), nil
}

// Keys returns all names stored under the service
func (s *Keyring) Keys() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("keyring list failed: %w", err)
	}
	return keys, nil
}
