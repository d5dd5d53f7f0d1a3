package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// ProjectFileName is the per-project config file, read from the project root
const ProjectFileName = "signcreds.json5"

// Config holds signcreds settings. Every field is a string so the same
// struct serves the user config, the project file and the merged result.
type Config struct {
	BaseDir               string `json:"base_dir,omitempty"`
	KeystoreFile          string `json:"keystore_file,omitempty"`
	CredentialsFile       string `json:"credentials_file,omitempty"`
	Mode                  string `json:"mode,omitempty"`
	StorePasswordProperty string `json:"store_password_property,omitempty"`
	KeyAliasProperty      string `json:"key_alias_property,omitempty"`
	KeyPasswordProperty   string `json:"key_password_property,omitempty"`
	Encoding              string `json:"encoding,omitempty"`
	Sink                  string `json:"sink,omitempty"`
	KeyringService        string `json:"keyring_service,omitempty"`
	DefaultOutput         string `json:"default_output,omitempty"`

	path string
}

// Defaults returns the built-in settings
func Defaults() *Config {
	return &Config{
		BaseDir:               ".",
		KeystoreFile:          "keystore.jks",
		CredentialsFile:       "credentials.properties",
		Mode:                  "named",
		StorePasswordProperty: "STORE_PASSWORD",
		KeyAliasProperty:      "KEY_ALIAS",
		KeyPasswordProperty:   "KEY_PASSWORD",
		Encoding:              "iso-8859-1",
		Sink:                  "none",
		KeyringService:        "signcreds",
	}
}

// Load reads the user config from the XDG path, returns an empty config if the file doesn't exist
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadProject reads the project file from projectDir, returns an empty config if it doesn't exist
func LoadProject(projectDir string) (*Config, error) {
	return LoadFrom(ProjectPath(projectDir))
}

// LoadFrom reads a JSON5 config file. Save on the result writes back to path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{path: path}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.path = path

	return &cfg, nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the config back to the file it was loaded from
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = ConfigPath()
	}

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// JSON is valid JSON5
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Merge copies every non-empty field of other over c and returns c
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	dst := reflect.ValueOf(c).Elem()
	src := reflect.ValueOf(other).Elem()
	for i := 0; i < dst.NumField(); i++ {
		if !dst.Type().Field(i).IsExported() {
			continue
		}
		if value := src.Field(i).String(); value != "" {
			dst.Field(i).SetString(value)
		}
	}

	return c
}

// Keys returns all config key names in declaration order
func Keys() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := jsonName(t.Field(i)); name != "" {
			keys = append(keys, name)
		}
	}
	return keys
}

// Get retrieves a config value by key name
func (c *Config) Get(key string) (string, error) {
	field, err := c.field(key)
	if err != nil {
		return "", err
	}
	return field.String(), nil
}

// Set sets a config value by key name and saves
func (c *Config) Set(key, value string) error {
	field, err := c.field(key)
	if err != nil {
		return err
	}
	field.SetString(value)
	return c.Save()
}

// Unset sets a config value to its zero value and saves
func (c *Config) Unset(key string) error {
	return c.Set(key, "")
}

func (c *Config) field(key string) (reflect.Value, error) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		if name := jsonName(t.Field(i)); name != "" && name == key {
			return v.Field(i), nil
		}
	}

	return reflect.Value{}, fmt.Errorf("unknown config key: %s", key)
}

// jsonName returns the json tag name of an exported field, or ""
func jsonName(field reflect.StructField) string {
	if !field.IsExported() {
		return ""
	}
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
