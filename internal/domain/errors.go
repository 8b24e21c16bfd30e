package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidCall marks calls on a destroyed engine or on a feature that was not configured.
// Engine methods swallow it; it only shows up in traces.
var ErrInvalidCall = errors.New("invalid call")

// ConfigurationError reports a missing or invalid setup value
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
