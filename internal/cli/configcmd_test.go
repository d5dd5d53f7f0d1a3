package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semmy-space/signcreds/internal/config"
	"github.com/semmy-space/signcreds/internal/output"
)

// newUserConfig returns an empty user config backed by a temp file
func newUserConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "signcreds", "config.json5"))
	require.NoError(t, err)
	return cfg
}

func TestConfigSetGetUnset(t *testing.T) {
	user := newUserConfig(t)
	settings := &Settings{Config: config.Defaults(), ProjectDir: t.TempDir()}

	require.NoError(t, (&ConfigSetCmd{Key: "mode", Value: "fixed"}).Run(user, settings))

	reloaded, err := config.LoadFrom(user.Path())
	require.NoError(t, err)
	assert.Equal(t, "fixed", reloaded.Mode)

	var out bytes.Buffer
	require.NoError(t, (&ConfigGetCmd{Key: "mode"}).Run(user, settings, &Streams{Out: &out}))
	assert.Equal(t, "fixed\n", out.String())

	require.NoError(t, (&ConfigUnsetCmd{Key: "mode"}).Run(user, settings))
	reloaded, err = config.LoadFrom(user.Path())
	require.NoError(t, err)
	assert.Empty(t, reloaded.Mode)
}

func TestConfigUnknownKey(t *testing.T) {
	user := newUserConfig(t)
	settings := &Settings{Config: config.Defaults(), ProjectDir: t.TempDir()}

	requireCLIError(t, (&ConfigGetCmd{Key: "client_id"}).Run(user, settings, &Streams{Out: &bytes.Buffer{}}), output.ExitNotFound)
	requireCLIError(t, (&ConfigSetCmd{Key: "client_id", Value: "x"}).Run(user, settings), output.ExitUsage)
	requireCLIError(t, (&ConfigUnsetCmd{Key: "client_id"}).Run(user, settings), output.ExitUsage)
}

func TestConfigProjectScope(t *testing.T) {
	user := newUserConfig(t)
	dir := t.TempDir()
	settings := &Settings{Config: config.Defaults(), ProjectDir: dir}

	cmd := &ConfigSetCmd{ScopeFlags: ScopeFlags{Project: true}, Key: "keystore_file", Value: "release.jks"}
	require.NoError(t, cmd.Run(user, settings))

	project, err := config.LoadProject(dir)
	require.NoError(t, err)
	assert.Equal(t, "release.jks", project.KeystoreFile)
	assert.Equal(t, filepath.Join(dir, config.ProjectFileName), project.Path())
	assert.Empty(t, user.KeystoreFile, "user config is untouched")

	var out bytes.Buffer
	get := &ConfigGetCmd{ScopeFlags: ScopeFlags{Project: true}, Key: "keystore_file"}
	require.NoError(t, get.Run(user, settings, &Streams{Out: &out}))
	assert.Equal(t, "release.jks\n", out.String())
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"mode", "named", false},
		{"mode", "fixed", false},
		{"mode", "positional", true},
		{"sink", "keyring", false},
		{"sink", "vault", true},
		{"encoding", "utf-8", false},
		{"encoding", "utf-16", true},
		{"default_output", "auto", false},
		{"default_output", "rich", false},
		{"default_output", "yaml", true},
		{"base_dir", "anything/goes", false},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := validateValue(tt.key, tt.value)
			if tt.wantErr {
				requireCLIError(t, err, output.ExitUsage)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfigSetRejectsInvalidValue(t *testing.T) {
	user := newUserConfig(t)
	settings := &Settings{Config: config.Defaults(), ProjectDir: t.TempDir()}

	requireCLIError(t, (&ConfigSetCmd{Key: "sink", Value: "vault"}).Run(user, settings), output.ExitUsage)
	assert.Empty(t, user.Sink)
}

func TestConfigList(t *testing.T) {
	user := newUserConfig(t)
	user.KeystoreFile = "upload.jks"
	settings := &Settings{Config: config.Defaults().Merge(user), ProjectDir: t.TempDir()}

	t.Run("user file", func(t *testing.T) {
		var out, errOut bytes.Buffer
		fp := &FormatterProvider{Formatter: output.NewWithWriters("plain", &out, &errOut)}
		require.NoError(t, (&ConfigListConfigCmd{}).Run(user, settings, fp))

		assert.Contains(t, out.String(), "Key\tValue\n")
		assert.Contains(t, out.String(), "keystore_file\tupload.jks\n")
		assert.Contains(t, out.String(), "mode\t\n")
	})

	t.Run("effective", func(t *testing.T) {
		var out, errOut bytes.Buffer
		fp := &FormatterProvider{Formatter: output.NewWithWriters("plain", &out, &errOut)}
		require.NoError(t, (&ConfigListConfigCmd{Effective: true}).Run(user, settings, fp))

		assert.Contains(t, out.String(), "keystore_file\tupload.jks\n")
		assert.Contains(t, out.String(), "mode\tnamed\n")
		assert.Contains(t, out.String(), "credentials_file\tcredentials.properties\n")
	})
}

func TestConfigListRichTruncatesValues(t *testing.T) {
	user := newUserConfig(t)
	user.BaseDir = "/very/deep/ci/workspace/android/app/signing/release/keystores"
	settings := &Settings{Config: config.Defaults(), ProjectDir: t.TempDir()}

	var out bytes.Buffer
	fp := &FormatterProvider{Formatter: output.NewWithWriters("rich", &out, &bytes.Buffer{})}
	require.NoError(t, (&ConfigListConfigCmd{}).Run(user, settings, fp))

	assert.Contains(t, out.String(), output.TruncateString(user.BaseDir, configValueWidth))
	assert.NotContains(t, out.String(), "keystores")
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	settings := &Settings{Config: config.Defaults(), ProjectDir: dir}

	var out bytes.Buffer
	require.NoError(t, (&ConfigPathCmd{}).Run(settings, &Streams{Out: &out}))
	assert.Equal(t, config.ConfigPath()+"\n", out.String())

	out.Reset()
	require.NoError(t, (&ConfigPathCmd{ScopeFlags: ScopeFlags{Project: true}}).Run(settings, &Streams{Out: &out}))
	assert.Equal(t, filepath.Join(dir, config.ProjectFileName)+"\n", out.String())
}
