// Package config provides configuration management for the leaplook CLI.
//
// Settings come from leaplook.yaml, LEAPLOOK_ environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"github.com/leapstack-labs/leaplook/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	ProjectDir   string               `koanf:"project_dir"`
	TargetDir    string               `koanf:"target_dir"`
	OutputDir    string               `koanf:"output_dir"`
	Tag          string               `koanf:"tag"`
	Connection   string               `koanf:"connection"`
	Concurrency  int                  `koanf:"concurrency" validate:"gte=0"`
	Environment  string               `koanf:"environment"`
	LogLevel     string               `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFile      string               `koanf:"log_file"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output" validate:"oneof=auto text markdown json"`
	Catalog      CatalogConfig        `koanf:"catalog"`
	Environments map[string]EnvConfig `koanf:"environments"`
}

// CatalogConfig selects where warehouse column types come from.
type CatalogConfig struct {
	// Source is "file" for target/catalog.json or "database" for live introspection
	Source string        `koanf:"source" validate:"oneof=file database"`
	Target *TargetConfig `koanf:"target"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	TargetDir  string        `koanf:"target_dir"`
	OutputDir  string        `koanf:"output_dir"`
	Connection string        `koanf:"connection"`
	Target     *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultConfigFile = "leaplook.yaml"
	DefaultLogLevel   = "info"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
