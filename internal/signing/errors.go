package signing

import "fmt"

const (
	msgKeystoreUndefined     = "Keystore file must be defined"
	msgCredentialsUndefined  = "Credentials file must be defined"
	msgCredentialsUnreadable = "Failed to read credentials file"
)

// ConfigurationError is the only error kind returned by resolution.
// Failures are distinguished by Message; Err is set only when an
// underlying I/O or parse error caused the failure.
type ConfigurationError struct {
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func newConfigurationError(msg string, err error) *ConfigurationError {
	return &ConfigurationError{Message: msg, Err: err}
}

func propertyUndefined(name string) *ConfigurationError {
	return newConfigurationError(fmt.Sprintf("Property %s must be defined", name), nil)
}
