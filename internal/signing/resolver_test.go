package signing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/magiconair/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates parent directories and writes content under root.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newTestResolver(t *testing.T, root string) *Resolver {
	t.Helper()
	r, err := NewResolver(root)
	require.NoError(t, err)
	return r
}

func requireConfigError(t *testing.T, err error, message string) *ConfigurationError {
	t.Helper()
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "expected *ConfigurationError, got %T", err)
	assert.Equal(t, message, cfgErr.Message)
	return cfgErr
}

func TestResolvePaths(t *testing.T) {
	root := t.TempDir()
	keystore := writeFile(t, root, "signing/release.jks", "jks")
	credentials := writeFile(t, root, "signing/credentials.properties", "STORE_PASSWORD=abc\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "signing", "dir.jks"), 0700))

	r := newTestResolver(t, root)

	t.Run("valid files resolve to absolute normalized paths", func(t *testing.T) {
		paths, err := r.ResolvePaths("signing", "release.jks", "credentials.properties")
		require.NoError(t, err)
		assert.Equal(t, keystore, paths.KeystoreFile)
		assert.Equal(t, credentials, paths.CredentialsFile)
		assert.True(t, filepath.IsAbs(paths.KeystoreFile))
	})

	t.Run("dot segments are normalized", func(t *testing.T) {
		paths, err := r.ResolvePaths("signing/../signing", "./release.jks", "credentials.properties")
		require.NoError(t, err)
		assert.Equal(t, keystore, paths.KeystoreFile)
	})

	t.Run("absolute base directory is kept", func(t *testing.T) {
		paths, err := r.ResolvePaths(filepath.Join(root, "signing"), "release.jks", "credentials.properties")
		require.NoError(t, err)
		assert.Equal(t, keystore, paths.KeystoreFile)
	})

	t.Run("unset base directory means project root", func(t *testing.T) {
		paths, err := r.ResolvePaths("", "signing/release.jks", "signing/credentials.properties")
		require.NoError(t, err)
		assert.Equal(t, keystore, paths.KeystoreFile)
	})

	tests := []struct {
		name        string
		keystore    string
		credentials string
		message     string
	}{
		{name: "missing keystore", keystore: "missing.jks", credentials: "credentials.properties", message: "Keystore file must be defined"},
		{name: "keystore is a directory", keystore: "dir.jks", credentials: "credentials.properties", message: "Keystore file must be defined"},
		{name: "unset keystore name", keystore: "", credentials: "credentials.properties", message: "Keystore file must be defined"},
		{name: "missing credentials", keystore: "release.jks", credentials: "missing.properties", message: "Credentials file must be defined"},
		{name: "credentials is a directory", keystore: "release.jks", credentials: "dir.jks", message: "Credentials file must be defined"},
		{name: "both missing reports keystore first", keystore: "x.jks", credentials: "y.properties", message: "Keystore file must be defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := r.ResolvePaths("signing", tt.keystore, tt.credentials)
			cfgErr := requireConfigError(t, err, tt.message)
			assert.NoError(t, cfgErr.Unwrap())
			assert.Equal(t, ResolvedPaths{}, paths)
		})
	}
}

func TestResolvePathNormalization(t *testing.T) {
	root := t.TempDir()
	expected := writeFile(t, root, "a/b.jks", "jks")
	writeFile(t, root, "a/c.properties", "")

	r := newTestResolver(t, root)
	paths, err := r.ResolvePaths("a/../a", "b.jks", "c.properties")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b.jks"), paths.KeystoreFile)
	assert.Equal(t, expected, paths.KeystoreFile)
}

func TestResolveNamedKeyMode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keys/app.jks", "jks")
	writeFile(t, root, "keys/full.properties", "# release credentials\nSTORE=s3cret\nALIAS=upload\nKEYPASS:k3y\n")
	writeFile(t, root, "keys/noalias.properties", "STORE=s3cret\nKEYPASS=k3y\n")
	writeFile(t, root, "keys/nostore.properties", "ALIAS=upload\nKEYPASS=k3y\n")
	writeFile(t, root, "keys/nokey.properties", "STORE=s3cret\n")

	r := newTestResolver(t, root)
	policy := NamedKeyPolicy("STORE", "ALIAS", "KEYPASS")

	t.Run("all properties present", func(t *testing.T) {
		out, err := r.Resolve(Request{BaseDir: "keys", KeystoreFileName: "app.jks", CredentialsFileName: "full.properties", Policy: policy})
		require.NoError(t, err)
		assert.Equal(t, ModeNamed, out.Mode)
		assert.Equal(t, Property{Value: "s3cret", Set: true, Sensitive: true}, out.StorePassword)
		assert.Equal(t, Property{Value: "upload", Set: true}, out.KeyAlias)
		assert.Equal(t, Property{Value: "k3y", Set: true, Sensitive: true}, out.KeyPassword)
		assert.Equal(t, filepath.Join(root, "keys", "app.jks"), out.Paths.KeystoreFile)
	})

	t.Run("missing alias falls back to default", func(t *testing.T) {
		out, err := r.Resolve(Request{BaseDir: "keys", KeystoreFileName: "app.jks", CredentialsFileName: "noalias.properties", Policy: policy})
		require.NoError(t, err)
		assert.Equal(t, "key", out.KeyAlias.Value)
		assert.True(t, out.KeyAlias.Set)
	})

	t.Run("missing store password fails", func(t *testing.T) {
		out, err := r.Resolve(Request{BaseDir: "keys", KeystoreFileName: "app.jks", CredentialsFileName: "nostore.properties", Policy: policy})
		requireConfigError(t, err, "Property STORE must be defined")
		assert.Nil(t, out)
	})

	t.Run("missing key password fails", func(t *testing.T) {
		out, err := r.Resolve(Request{BaseDir: "keys", KeystoreFileName: "app.jks", CredentialsFileName: "nokey.properties", Policy: policy})
		requireConfigError(t, err, "Property KEYPASS must be defined")
		assert.Nil(t, out)
	})

	t.Run("missing keystore publishes nothing", func(t *testing.T) {
		out, err := r.Resolve(Request{BaseDir: "keys", KeystoreFileName: "other.jks", CredentialsFileName: "full.properties", Policy: policy})
		requireConfigError(t, err, "Keystore file must be defined")
		assert.Nil(t, out)
	})
}

func TestResolveFixedKeyMode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "release.jks", "jks")
	writeFile(t, root, "credentials.properties", "STORE_PASSWORD=abc\n")

	r := newTestResolver(t, root)
	out, err := r.Resolve(Request{KeystoreFileName: "release.jks", CredentialsFileName: "credentials.properties", Policy: FixedKeyPolicy()})
	require.NoError(t, err)

	assert.Equal(t, "abc", out.StorePassword.Value)
	assert.True(t, out.StorePassword.Set)
	assert.False(t, out.KeyPassword.Set)
	assert.False(t, out.KeyAlias.Set)

	assert.Equal(t, []Entry{
		{Name: "keystoreFile", Value: filepath.Join(root, "release.jks")},
		{Name: "credentialsFile", Value: filepath.Join(root, "credentials.properties")},
		{Name: "storePassword", Value: "abc", Sensitive: true},
	}, out.Entries())
}

func TestResolvePropertiesSyntax(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "release.jks", "jks")
	writeFile(t, root, "credentials.properties", `! legacy comment
# another comment
STORE_PASSWORD = pa\=ss\:word
KEY_PASSWORD    multi \
                line
EXPANDED=${STORE_PASSWORD}
`)

	r := newTestResolver(t, root)
	out, err := r.Resolve(Request{KeystoreFileName: "release.jks", CredentialsFileName: "credentials.properties", Policy: FixedKeyPolicy()})
	require.NoError(t, err)
	assert.Equal(t, "pa=ss:word", out.StorePassword.Value)
	assert.Equal(t, "multi line", out.KeyPassword.Value)

	record, err := r.readCredentials(filepath.Join(root, "credentials.properties"))
	require.NoError(t, err)
	expanded, ok := record.Get("EXPANDED")
	require.True(t, ok)
	assert.Equal(t, "${STORE_PASSWORD}", expanded)
}

func TestResolveTrailingContinuation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "lone backslash at end of file", content: `STORE_PASSWORD=abc\`, want: "abc"},
		{name: "escaped backslash at end of file", content: `STORE_PASSWORD=abc\\`, want: `abc\`},
		{name: "three backslashes at end of file", content: `STORE_PASSWORD=abc\\\`, want: `abc\`},
		{name: "no trailing newline", content: "STORE_PASSWORD=abc", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, "release.jks", "jks")
			writeFile(t, root, "credentials.properties", tt.content)

			r := newTestResolver(t, root)
			out, err := r.Resolve(Request{KeystoreFileName: "release.jks", CredentialsFileName: "credentials.properties", Policy: FixedKeyPolicy()})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.StorePassword.Value)
		})
	}
}

func TestTrimDanglingContinuation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{`a=b`, `a=b`},
		{`a=b\`, `a=b`},
		{`a=b\\`, `a=b\\`},
		{"a=b\\\n", "a=b\\\n"},
		{`\`, ``},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, string(trimDanglingContinuation([]byte(tt.in))), "input %q", tt.in)
	}
}

func TestResolveEncoding(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "release.jks", "jks")
	writeFile(t, root, "credentials.properties", "STORE_PASSWORD=p\xe4ss\n")
	writeFile(t, root, "utf8.properties", "STORE_PASSWORD=pässключ\n")

	t.Run("iso-8859-1 by default", func(t *testing.T) {
		r := newTestResolver(t, root)
		out, err := r.Resolve(Request{KeystoreFileName: "release.jks", CredentialsFileName: "credentials.properties", Policy: FixedKeyPolicy()})
		require.NoError(t, err)
		assert.Equal(t, "päss", out.StorePassword.Value)
	})

	t.Run("utf-8 when configured", func(t *testing.T) {
		r, err := NewResolver(root, WithEncoding(properties.UTF8))
		require.NoError(t, err)
		out, err := r.Resolve(Request{KeystoreFileName: "release.jks", CredentialsFileName: "utf8.properties", Policy: FixedKeyPolicy()})
		require.NoError(t, err)
		assert.Equal(t, "pässключ", out.StorePassword.Value)
	})
}

func TestReadCredentialsFailure(t *testing.T) {
	r := newTestResolver(t, t.TempDir())

	_, err := r.readCredentials(filepath.Join(t.TempDir(), "gone.properties"))
	cfgErr := requireConfigError(t, err, "Failed to read credentials file")
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, cfgErr.Error(), "Failed to read credentials file: ")
}

func TestNewResolverNilLogger(t *testing.T) {
	r, err := NewResolver(t.TempDir(), WithLogger(nil))
	require.NoError(t, err)
	assert.NotNil(t, r.logger)
}
