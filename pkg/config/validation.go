package config

import (
	"fmt"
	"strings"
)

// ConfigurationError reports fields that resolved to no value from any
// source. It names every missing field at once so a user can repair the
// whole configuration in one pass.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf(
		"missing configuration: %s (pass the matching flags, set the LUIS_* environment variables, or run `luis init`)",
		strings.Join(e.Missing, ", "),
	)
}

// MissingField reports whether field is among the unresolved fields.
func (e *ConfigurationError) MissingField(field string) bool {
	for _, f := range e.Missing {
		if f == field {
			return true
		}
	}
	return false
}
