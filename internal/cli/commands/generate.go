package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/leapstack-labs/leaplook/internal/cli/output"
	"github.com/leapstack-labs/leaplook/internal/engine"
	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/spf13/cobra"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Watch  bool
	DryRun bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate LookML views and explores from dbt artifacts",
		Long: `Generate reads target/manifest.json and the catalog, then writes one
view per model under <output-dir>/views and one model file per explore.

Models missing from the catalog are skipped with a warning. A model or
exposure that fails to compile does not stop the others; the command
exits non-zero after writing everything that did compile.`,
		Example: `  # Generate LookML into ./lookml
  leaplook generate

  # Only models and exposures tagged "looker"
  leaplook generate --tag looker

  # Read column types from the warehouse instead of catalog.json
  leaplook generate --catalog-source database

  # Regenerate whenever dbt rewrites its artifacts
  leaplook generate --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Regenerate when manifest.json or catalog.json change")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Compile without writing files")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions) error {
	cctx := NewCommandContext(cmd)
	eng := cctx.Engine

	if !opts.Watch {
		result, err := eng.Generate(cmd.Context())
		return finishGenerate(cctx, result, err, opts.DryRun)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := eng.Generate(ctx)
	if err := finishGenerate(cctx, result, err, opts.DryRun); err != nil {
		cctx.Renderer.Error(err.Error())
	}

	cctx.Renderer.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", eng.Config().TargetDir))
	err = eng.Watch(ctx, func(result *engine.Result, err error) {
		if err := finishGenerate(cctx, result, err, opts.DryRun); err != nil {
			cctx.Renderer.Error(err.Error())
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// finishGenerate writes and reports one generate result. Compile failures are
// returned after every successful file has been written.
func finishGenerate(cctx *CommandContext, result *engine.Result, genErr error, dryRun bool) error {
	if result == nil {
		return genErr
	}

	if !dryRun {
		if err := cctx.Engine.Write(result); err != nil {
			return err
		}
	}

	r := cctx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(generateOutput(cctx, result, genErr, dryRun)); err != nil {
			return err
		}
	default:
		renderGenerate(r, cctx.Engine.Config().OutputDir, result, dryRun)
	}

	if genErr != nil {
		return fmt.Errorf("%d models or exposures failed to compile: %w", len(result.Failed), genErr)
	}
	return nil
}

func renderGenerate(r *output.Renderer, outputDir string, result *engine.Result, dryRun bool) {
	title := "Generated LookML"
	if dryRun {
		title = "Compiled LookML (dry run)"
	}
	r.Header(1, title)

	if result.Load != nil {
		r.Muted(result.Load.Summary())
		r.Println("")
	}

	if len(result.Views) > 0 {
		r.Header(2, "Views")
		for _, f := range result.Views {
			r.StatusLine(filepath.Join(engine.ViewsDir, f.Name), "success", "")
		}
		r.Println("")
	}

	if len(result.Models) > 0 {
		r.Header(2, "Models")
		for _, f := range result.Models {
			r.StatusLine(f.Name, "success", "")
		}
		r.Println("")
	}

	if len(result.Skipped) > 0 || len(result.Failed) > 0 {
		r.Header(2, "Problems")
		for _, name := range result.Skipped {
			r.StatusLine(name, "skipped", "(not in catalog)")
		}
		for _, name := range result.Failed {
			r.StatusLine(name, "failed", "")
		}
		r.Println("")
	}

	if dryRun {
		r.Success(result.Summary())
		return
	}
	r.Success(fmt.Sprintf("%s -> %s", result.Summary(), outputDir))
}

func generateOutput(cctx *CommandContext, result *engine.Result, genErr error, dryRun bool) output.GenerateOutput {
	out := output.GenerateOutput{
		RunID:     result.RunID,
		OutputDir: cctx.Engine.Config().OutputDir,
		DryRun:    dryRun,
		Views:     fileNames(result.Views),
		Models:    fileNames(result.Models),
		Skipped:   result.Skipped,
		Failed:    result.Failed,
		Errors:    errorMessages(genErr),
		Summary: output.GenerateSummary{
			Views:      len(result.Views),
			Skipped:    len(result.Skipped),
			Failed:     len(result.Failed),
			DurationMS: result.Duration.Milliseconds(),
		},
	}
	if result.Load != nil {
		out.AdapterType = result.Load.AdapterType
		out.Project = result.Load.ProjectName
		out.Summary.Models = result.Load.ModelsTotal
		out.Summary.Exposures = result.Load.ExposuresTotal
	}
	return out
}

func fileNames(files []core.File) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return names
}

// errorMessages flattens a joined error into one message per failure.
func errorMessages(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, strings.TrimSpace(e.Error()))
		}
		return msgs
	}
	return []string{err.Error()}
}
