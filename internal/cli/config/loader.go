package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/joho/godotenv"
	intconfig "github.com/leapstack-labs/leaplook/internal/config"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

const envPrefix = "LEAPLOOK_"

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// configNames are the accepted config file names, in priority order.
var configNames = []string{DefaultConfigFile, "leaplook.yml"}

// configIn returns the config file in dir, if any.
func configIn(dir string) string {
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findProjectRootUpward searches upward from startDir for a leaplook config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configIn(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Explicit --project-dir flag
//  2. Directory of an explicit --config file
//  3. Search upward from CWD for leaplook.yaml
//  4. Current working directory
func inferProjectRoot(cfgFile string, flags *pflag.FlagSet) string {
	if dir := changedPath(flags, "project-dir"); dir != "" {
		return dir
	}

	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := findProjectRootUpward(cwd); root != "" {
		return root
	}
	return cwd
}

// changedPath returns the absolute value of a path flag set on the command line.
func changedPath(flags *pflag.FlagSet, name string) string {
	if flags == nil || flags.Lookup(name) == nil || !flags.Changed(name) {
		return ""
	}
	v, _ := flags.GetString(name)
	if v == "" {
		return ""
	}
	if abs, err := filepath.Abs(v); err == nil {
		return abs
	}
	return filepath.Clean(v)
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// envKey maps LEAPLOOK_CATALOG_TARGET_HOST to catalog.target.host.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	switch {
	case strings.HasPrefix(key, "catalog_target_"):
		return "catalog.target." + strings.TrimPrefix(key, "catalog_target_")
	case strings.HasPrefix(key, "catalog_"):
		return "catalog." + strings.TrimPrefix(key, "catalog_")
	}
	return key
}

// flagKeys bridges flag names that differ from their config keys.
var flagKeys = map[string]string{
	"catalog-source": "catalog.source",
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile, flags)

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"project_dir":    ".",
		"output_dir":     intconfig.DefaultOutputDir,
		"log_level":      DefaultLogLevel,
		"verbose":        false,
		"output":         DefaultOutput,
		"concurrency":    0,
		"catalog.source": intconfig.DefaultCatalogSource,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load the config file from the project root unless one was given
	if cfgFile == "" {
		cfgFile = configIn(projectRoot)
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (LEAPLOOK_ prefix), after .env
	if err := loadDotEnv(projectRoot); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			if key, ok := flagKeys[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Environment overrides
	if cfg.Environment != "" {
		envCfg, ok := cfg.Environments[cfg.Environment]
		if !ok {
			return nil, fmt.Errorf("unknown environment %q", cfg.Environment)
		}
		applyEnvironment(&cfg, envCfg, flags)
	}

	// 7. Resolve paths. Flag paths are relative to CWD, the rest to the project root.
	if dir := changedPath(flags, "project-dir"); dir != "" {
		cfg.ProjectDir = dir
	} else {
		cfg.ProjectDir = resolvePathRelativeTo(cfg.ProjectDir, projectRoot)
	}
	if dir := changedPath(flags, "target-dir"); dir != "" {
		cfg.TargetDir = dir
	} else if cfg.TargetDir == "" {
		cfg.TargetDir = filepath.Join(cfg.ProjectDir, intconfig.DefaultTargetDir)
	} else {
		cfg.TargetDir = resolvePathRelativeTo(cfg.TargetDir, projectRoot)
	}
	if dir := changedPath(flags, "output-dir"); dir != "" {
		cfg.OutputDir = dir
	} else {
		cfg.OutputDir = resolvePathRelativeTo(cfg.OutputDir, projectRoot)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}
	if path := changedPath(flags, "log-file"); path != "" {
		cfg.LogFile = path
	} else {
		cfg.LogFile = resolvePathRelativeTo(cfg.LogFile, projectRoot)
	}
	cfg.Catalog.Source = strings.ToLower(cfg.Catalog.Source)
	intconfig.ApplyTargetDefaults(cfg.Catalog.Target)
	intconfig.ExpandTargetEnvVars(cfg.Catalog.Target)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// loadDotEnv adds the variables of <root>/.env to the process environment.
// Variables already set are not overridden.
func loadDotEnv(root string) error {
	path := filepath.Join(root, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return nil
}

// applyEnvironment merges an environment block into cfg. Values set by flags win.
func applyEnvironment(cfg *Config, envCfg EnvConfig, flags *pflag.FlagSet) {
	changed := func(name string) bool {
		return flags != nil && flags.Lookup(name) != nil && flags.Changed(name)
	}
	if envCfg.TargetDir != "" && !changed("target-dir") {
		cfg.TargetDir = envCfg.TargetDir
	}
	if envCfg.OutputDir != "" && !changed("output-dir") {
		cfg.OutputDir = envCfg.OutputDir
	}
	if envCfg.Connection != "" && !changed("connection") {
		cfg.Connection = envCfg.Connection
	}
	if envCfg.Target != nil {
		cfg.Catalog.Target = intconfig.MergeTargetConfig(cfg.Catalog.Target, envCfg.Target)
	}
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a log_level value to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
