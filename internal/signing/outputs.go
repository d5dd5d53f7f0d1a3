package signing

import "log/slog"

const redacted = "[REDACTED]"

// Property is one extracted value. Set is false when the key was absent and
// no default applied.
type Property struct {
	Value     string
	Set       bool
	Sensitive bool
}

// String never reveals sensitive values.
func (p Property) String() string {
	switch {
	case !p.Set:
		return "<unset>"
	case p.Sensitive:
		return redacted
	default:
		return p.Value
	}
}

// LogValue implements slog.LogValuer
func (p Property) LogValue() slog.Value {
	return slog.StringValue(p.String())
}

// ResolvedPaths holds the validated, normalized file locations.
type ResolvedPaths struct {
	KeystoreFile    string
	CredentialsFile string
}

// Entries returns the paths under their legacy published names.
func (p ResolvedPaths) Entries() []Entry {
	return []Entry{
		{Name: OutputKeystoreFile, Value: p.KeystoreFile},
		{Name: OutputCredentialsFile, Value: p.CredentialsFile},
	}
}

// Outputs is the typed result of a resolution.
type Outputs struct {
	Mode          Mode
	Paths         ResolvedPaths
	StorePassword Property
	KeyAlias      Property
	KeyPassword   Property
}

// Entry is a single published name/value pair.
type Entry struct {
	Name      string
	Value     string
	Sensitive bool
}

// Entries flattens the outputs for a property sink. Unset values are skipped.
func (o *Outputs) Entries() []Entry {
	entries := []Entry{
		{Name: o.Mode.fileOutput(), Value: o.Paths.KeystoreFile},
		{Name: OutputCredentialsFile, Value: o.Paths.CredentialsFile},
	}
	for _, v := range []struct {
		name string
		prop Property
	}{
		{OutputStorePassword, o.StorePassword},
		{OutputKeyAlias, o.KeyAlias},
		{OutputKeyPassword, o.KeyPassword},
	} {
		if !v.prop.Set {
			continue
		}
		entries = append(entries, Entry{Name: v.name, Value: v.prop.Value, Sensitive: v.prop.Sensitive})
	}
	return entries
}

// OutputNames lists every name any mode can publish.
func OutputNames() []string {
	return []string{
		OutputStoreFile,
		OutputKeystoreFile,
		OutputCredentialsFile,
		OutputStorePassword,
		OutputKeyAlias,
		OutputKeyPassword,
	}
}

// SensitiveOutput reports whether the named output holds a password.
func SensitiveOutput(name string) bool {
	return name == OutputStorePassword || name == OutputKeyPassword
}
