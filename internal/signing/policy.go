package signing

import "fmt"

// Mode selects how secrets are looked up in the credentials file.
type Mode string

const (
	// ModeNamed reads caller-supplied property names and fails on missing passwords.
	ModeNamed Mode = "named"
	// ModeFixed reads STORE_PASSWORD and KEY_PASSWORD and never fails on a missing key.
	ModeFixed Mode = "fixed"
)

// Published output names.
const (
	OutputStoreFile       = "storeFile"
	OutputKeystoreFile    = "keystoreFile"
	OutputCredentialsFile = "credentialsFile"
	OutputStorePassword   = "storePassword"
	OutputKeyAlias        = "keyAlias"
	OutputKeyPassword     = "keyPassword"
)

// Property names read in fixed-key mode.
const (
	FixedStorePasswordKey = "STORE_PASSWORD"
	FixedKeyPasswordKey   = "KEY_PASSWORD"
)

// DefaultKeyAlias is used when the alias property is missing in named-key mode.
const DefaultKeyAlias = "key"

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNamed, ModeFixed:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode: %s", s)
	}
}

// ValidModes returns the supported mode names.
func ValidModes() []string {
	return []string{string(ModeNamed), string(ModeFixed)}
}

// Rule describes how one output is read from the credentials file.
type Rule struct {
	Output     string // Published name
	Key        string // Property name in the credentials file
	Required   bool
	Default    string
	HasDefault bool
	Sensitive  bool
}

// Policy is the lookup table for one extraction mode.
type Policy struct {
	Mode  Mode
	Rules []Rule
}

// FixedKeyPolicy reads the hard-coded password keys. Both are optional.
func FixedKeyPolicy() Policy {
	return Policy{
		Mode: ModeFixed,
		Rules: []Rule{
			{Output: OutputStorePassword, Key: FixedStorePasswordKey, Sensitive: true},
			{Output: OutputKeyPassword, Key: FixedKeyPasswordKey, Sensitive: true},
		},
	}
}

// NamedKeyPolicy reads caller-supplied keys. Passwords are required while
// the alias falls back to DefaultKeyAlias.
func NamedKeyPolicy(storePasswordProperty, keyAliasProperty, keyPasswordProperty string) Policy {
	return Policy{
		Mode: ModeNamed,
		Rules: []Rule{
			{Output: OutputStorePassword, Key: storePasswordProperty, Required: true, Sensitive: true},
			{Output: OutputKeyAlias, Key: keyAliasProperty, Default: DefaultKeyAlias, HasDefault: true},
			{Output: OutputKeyPassword, Key: keyPasswordProperty, Required: true, Sensitive: true},
		},
	}
}

// Lookup is the read side of a credentials record.
// *properties.Properties satisfies it.
type Lookup interface {
	Get(key string) (string, bool)
}

// Extract applies the rules in order and returns values keyed by output name.
// The first required key that is missing aborts extraction.
func (p Policy) Extract(src Lookup) (map[string]Property, error) {
	values := make(map[string]Property, len(p.Rules))
	for _, rule := range p.Rules {
		value, ok := src.Get(rule.Key)
		switch {
		case ok:
		case rule.Required:
			return nil, propertyUndefined(rule.Key)
		case rule.HasDefault:
			value, ok = rule.Default, true
		}
		values[rule.Output] = Property{Value: value, Set: ok, Sensitive: rule.Sensitive}
	}
	return values, nil
}

// fileOutput is the name the keystore path is published under.
func (m Mode) fileOutput() string {
	if m == ModeFixed {
		return OutputKeystoreFile
	}
	return OutputStoreFile
}
