package core

import (
	"errors"
	"fmt"
)

// ErrConnectionNotFound is returned when a named connection does not exist.
var ErrConnectionNotFound = errors.New("connection not found")

// ConfigurationError is fatal: a required connection cannot be resolved and
// the lineage path is undefined without it.
type ConfigurationError struct {
	Connection string
	Role       string
	Err        error
}

func (e *ConfigurationError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("cannot resolve %s connection %q: %v", e.Role, e.Connection, e.Err)
	}
	return fmt.Sprintf("cannot resolve connection %q: %v", e.Connection, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// CollaboratorError is a recoverable failure of an external call. The caller
// logs it and skips the affected entity or edge.
type CollaboratorError struct {
	Op     string
	Entity string
	Err    error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
