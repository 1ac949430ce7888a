package commands

import (
	"log/slog"

	"github.com/leapstack-labs/leaplook/internal/cli/config"
	"github.com/leapstack-labs/leaplook/internal/cli/output"
	"github.com/leapstack-labs/leaplook/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cctx := NewCommandContextWithoutEngine(cmd)
	cctx.Engine = createEngine(cctx.Cfg, cctx.Logger)
	return cctx
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't read dbt artifacts.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		ProjectDir:   ".",
		OutputFormat: config.DefaultOutput,
		LogLevel:     config.DefaultLogLevel,
	}
}

func createEngine(cfg *config.Config, logger *slog.Logger) *engine.Engine {
	return engine.New(engine.Config{
		ProjectDir:    cfg.ProjectDir,
		TargetDir:     cfg.TargetDir,
		OutputDir:     cfg.OutputDir,
		Tag:           cfg.Tag,
		Connection:    cfg.Connection,
		Concurrency:   cfg.Concurrency,
		CatalogSource: cfg.Catalog.Source,
		Target:        cfg.Catalog.Target,
		Logger:        logger,
	})
}
