package signing

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/magiconair/properties"
)

// Request carries the raw inputs of a single resolution.
type Request struct {
	BaseDir             string // Relative to the project root unless absolute
	KeystoreFileName    string
	CredentialsFileName string
	Policy              Policy
}

// Resolver locates the keystore and credentials files and reads the secrets.
type Resolver struct {
	projectRoot string
	encoding    properties.Encoding
	logger      *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the diagnostics logger. Secret values are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithEncoding sets the credentials file encoding (ISO-8859-1 by default).
func WithEncoding(enc properties.Encoding) Option {
	return func(r *Resolver) {
		r.encoding = enc
	}
}

// NewResolver creates a resolver anchored at projectRoot.
func NewResolver(projectRoot string, opts ...Option) (*Resolver, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	r := &Resolver{
		projectRoot: root,
		encoding:    properties.ISO_8859_1,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve validates both files, reads the credentials and extracts the
// values described by req.Policy. Nothing is returned on failure.
func (r *Resolver) Resolve(req Request) (*Outputs, error) {
	r.logger.Info("start processing credentials", "mode", req.Policy.Mode)

	paths, err := r.ResolvePaths(req.BaseDir, req.KeystoreFileName, req.CredentialsFileName)
	if err != nil {
		return nil, err
	}

	record, err := r.readCredentials(paths.CredentialsFile)
	if err != nil {
		return nil, err
	}

	values, err := req.Policy.Extract(record)
	if err != nil {
		return nil, err
	}

	out := &Outputs{
		Mode:          req.Policy.Mode,
		Paths:         paths,
		StorePassword: values[OutputStorePassword],
		KeyAlias:      values[OutputKeyAlias],
		KeyPassword:   values[OutputKeyPassword],
	}

	r.logger.Info("finish processing credentials",
		"store_password", out.StorePassword,
		"key_alias", out.KeyAlias,
		"key_password", out.KeyPassword,
	)
	return out, nil
}

// ResolvePaths computes and validates the keystore and credentials paths
// without reading either file.
func (r *Resolver) ResolvePaths(baseDir, keystoreFileName, credentialsFileName string) (ResolvedPaths, error) {
	base := r.baseDirectory(baseDir)

	keystore, err := r.regularFile(base, keystoreFileName, "keystore file", msgKeystoreUndefined)
	if err != nil {
		return ResolvedPaths{}, err
	}

	credentials, err := r.regularFile(base, credentialsFileName, "credentials file", msgCredentialsUndefined)
	if err != nil {
		return ResolvedPaths{}, err
	}

	return ResolvedPaths{KeystoreFile: keystore, CredentialsFile: credentials}, nil
}

// baseDirectory anchors dir at the project root and normalizes it lexically.
func (r *Resolver) baseDirectory(dir string) string {
	return filepath.Clean(resolveAgainst(r.projectRoot, dir))
}

// regularFile fails with msg unless base/name exists and is a regular file.
// A missing path and a directory produce the same error.
func (r *Resolver) regularFile(base, name, label, msg string) (string, error) {
	path := filepath.Join(base, name)
	r.logger.Debug(label, "path", path)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", newConfigurationError(msg, nil)
	}
	return path, nil
}

// readCredentials loads the credentials file verbatim, without ${} expansion.
func (r *Resolver) readCredentials(path string) (*properties.Properties, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newConfigurationError(msgCredentialsUnreadable, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, newConfigurationError(msgCredentialsUnreadable, err)
	}

	loader := properties.Loader{Encoding: r.encoding, DisableExpansion: true}
	record, err := loader.LoadBytes(trimDanglingContinuation(data))
	if err != nil {
		return nil, newConfigurationError(msgCredentialsUnreadable, err)
	}

	r.logger.Debug("credentials file loaded", "path", path, "properties", record.Len())
	return record, nil
}

// trimDanglingContinuation drops a line-continuation backslash that ends the
// file, which java.util.Properties ignores but the parser rejects. An even
// run of backslashes is an escaped backslash and stays.
func trimDanglingContinuation(data []byte) []byte {
	n := 0
	for i := len(data) - 1; i >= 0 && data[i] == '\\'; i-- {
		n++
	}
	if n%2 == 1 {
		return data[:len(data)-1]
	}
	return data
}
