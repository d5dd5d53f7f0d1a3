// Package signing resolves a keystore and its credentials file and extracts
// the signing secrets a build needs.
package signing

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Configuration holds the inputs supplied by the invoking build script.
// An empty string means the value was never set. Nothing is validated here;
// validation happens in Resolver.Resolve.
type Configuration struct {
	projectRoot         string
	baseDir             string
	keystoreFileName    string
	credentialsFileName string
}

// NewConfiguration creates an empty configuration anchored at projectRoot.
func NewConfiguration(projectRoot string) (*Configuration, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	return &Configuration{projectRoot: root}, nil
}

// ProjectRoot returns the absolute project root.
func (c *Configuration) ProjectRoot() string {
	return c.projectRoot
}

// SetBaseDirectory stores raw resolved against the project root.
// The result is absolute but not normalized.
func (c *Configuration) SetBaseDirectory(raw string) {
	c.baseDir = resolveAgainst(c.projectRoot, raw)
}

// BaseDirectory returns the stored base directory, or "" if unset.
func (c *Configuration) BaseDirectory() string {
	return c.baseDir
}

// SetKeystoreFileName stores the keystore file name verbatim.
func (c *Configuration) SetKeystoreFileName(name string) {
	c.keystoreFileName = name
}

// KeystoreFileName returns the stored keystore file name.
func (c *Configuration) KeystoreFileName() string {
	return c.keystoreFileName
}

// SetCredentialsFileName stores the credentials file name verbatim.
func (c *Configuration) SetCredentialsFileName(name string) {
	c.credentialsFileName = name
}

// CredentialsFileName returns the stored credentials file name.
func (c *Configuration) CredentialsFileName() string {
	return c.credentialsFileName
}

// Request builds a resolution request from the stored values.
func (c *Configuration) Request(policy Policy) Request {
	return Request{
		BaseDir:             c.baseDir,
		KeystoreFileName:    c.keystoreFileName,
		CredentialsFileName: c.credentialsFileName,
		Policy:              policy,
	}
}

// resolveAgainst mirrors path resolution against a parent: absolute paths win,
// relative ones are appended as written.
func resolveAgainst(root, p string) string {
	if p == "" {
		return root
	}
	if filepath.IsAbs(p) {
		return p
	}
	return strings.TrimSuffix(root, string(filepath.Separator)) + string(filepath.Separator) + p
}
