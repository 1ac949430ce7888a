package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leaplook/internal/lookml"
	"github.com/leapstack-labs/leaplook/pkg/core"
	"golang.org/x/sync/errgroup"
)

// ViewsDir is the output subdirectory holding view files.
const ViewsDir = "views"

// Result is the outcome of a compilation run.
type Result struct {
	// RunID identifies the run in logs
	RunID string
	Load  *LoadResult

	// Views and Models are ordered by model name, then exposure name
	Views  []core.File
	Models []core.File

	// Skipped lists models missing from the catalog
	Skipped []string
	// Failed lists models and exposures that did not compile
	Failed []string

	Duration time.Duration
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"Views: %d | Models: %d | Skipped: %d | Failed: %d | Duration: %s",
		len(r.Views), len(r.Models), len(r.Skipped), len(r.Failed),
		r.Duration.Round(time.Millisecond),
	)
}

// compiled is the output slot of one compilation unit.
type compiled struct {
	view  *core.File
	model *core.File
	err   error
}

// Generate loads the artifacts and compiles every selected model and
// exposure. Units compile concurrently; a failing unit does not stop the
// others. The returned result always carries the files that compiled, and
// the error joins every unit failure.
func (e *Engine) Generate(ctx context.Context) (*Result, error) {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	start := time.Now()
	runID := uuid.New().String()
	logger := e.logger.With(slog.String("run_id", runID))

	load, err := e.Load(ctx)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	reg, d, exposures, project := e.registry, e.dialect, e.manifest.Exposures, e.project
	e.mu.Unlock()

	compiler := lookml.NewCompiler(lookml.Config{
		Dialect:     d,
		ProjectName: e.connection(project),
		Models:      reg,
		Logger:      logger,
	})

	models := reg.AllModels()
	slots := make([]compiled, len(models)+len(exposures))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, m := range models {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = compileModel(compiler, m)
			return nil
		})
	}
	for i, x := range exposures {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[len(models)+i] = compileExposure(compiler, x)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{RunID: runID, Load: load, Skipped: e.Skipped()}
	var errs []error
	for i, s := range slots {
		if s.err != nil {
			result.Failed = append(result.Failed, unitName(models, exposures, i))
			errs = append(errs, s.err)
			continue
		}
		if s.view != nil {
			result.Views = append(result.Views, *s.view)
		}
		if s.model != nil {
			result.Models = append(result.Models, *s.model)
		}
	}
	result.Models = dedupeModelFiles(result.Models, logger)
	result.Duration = time.Since(start)

	logger.Info("generated lookml",
		"views", len(result.Views),
		"models", len(result.Models),
		"failed", len(result.Failed),
		"duration_ms", result.Duration.Milliseconds())

	return result, errors.Join(errs...)
}

func compileModel(c *lookml.Compiler, m *core.Model) compiled {
	view, err := c.CompileView(m)
	if err != nil {
		return compiled{err: fmt.Errorf("model %s: %w", m.Name, err)}
	}
	model, err := c.CompileModel(m)
	if err != nil {
		return compiled{err: fmt.Errorf("model %s: %w", m.Name, err)}
	}
	return compiled{view: &view.File, model: &model}
}

func compileExposure(c *lookml.Compiler, x *core.Exposure) compiled {
	f, ok, err := c.CompileExposure(x)
	if err != nil {
		return compiled{err: fmt.Errorf("exposure %s: %w", x.Name, err)}
	}
	if !ok {
		return compiled{}
	}
	return compiled{model: &f}
}

func unitName(models []*core.Model, exposures []*core.Exposure, i int) string {
	if i < len(models) {
		return models[i].Name
	}
	return exposures[i-len(models)].Name
}

// dedupeModelFiles keeps the last file of each name. Exposure files follow
// model files, so an exposure replaces a model of the same name.
func dedupeModelFiles(files []core.File, logger *slog.Logger) []core.File {
	byName := make(map[string]int, len(files))
	for i, f := range files {
		byName[f.Name] = i
	}
	out := make([]core.File, 0, len(files))
	for i, f := range files {
		if last := byName[f.Name]; last != i {
			logger.Warn("exposure model file replaces model file", "file", f.Name)
			continue
		}
		out = append(out, f)
	}
	return out
}

// Write stores the files of result under the output directory: views in
// views/, model files at the top level.
func (e *Engine) Write(result *Result) error {
	viewsDir := filepath.Join(e.cfg.OutputDir, ViewsDir)
	if err := os.MkdirAll(viewsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, f := range result.Views {
		if err := os.WriteFile(filepath.Join(viewsDir, f.Name), f.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write view %s: %w", f.Name, err)
		}
	}
	e.logger.Info("generated lookml views", "count", len(result.Views), "dir", viewsDir)

	for _, f := range result.Models {
		if err := os.WriteFile(filepath.Join(e.cfg.OutputDir, f.Name), f.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write model %s: %w", f.Name, err)
		}
	}
	e.logger.Info("generated lookml models", "count", len(result.Models), "dir", e.cfg.OutputDir)
	return nil
}
