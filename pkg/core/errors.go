package core

import (
	"fmt"
	"strings"
)

// ConfigError reports invalid project metadata for a model or exposure.
type ConfigError struct {
	// Model is the unique id of the offending model or exposure
	Model string
	// Field names the offending meta entry, if any
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Model, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Model, e.Message)
}

// UnsupportedAdapterError is returned for warehouses without a type map.
type UnsupportedAdapterError struct {
	Type      string
	Available []string
}

func (e *UnsupportedAdapterError) Error() string {
	return fmt.Sprintf("adapter type %q is not supported\nSupported adapters: %s", e.Type, strings.Join(e.Available, ", "))
}
