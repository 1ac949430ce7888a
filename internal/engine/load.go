package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/leapstack-labs/leaplook/internal/catalog"
	"github.com/leapstack-labs/leaplook/internal/loader"
	"github.com/leapstack-labs/leaplook/internal/registry"
	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/dialect"
)

// LoadResult contains statistics about the load stage.
type LoadResult struct {
	AdapterType string
	ProjectName string

	ModelsTotal    int // selected from the manifest
	ModelsSkipped  int // missing from the catalog
	ExposuresTotal int

	Duration time.Duration
}

// Summary returns a human-readable summary.
func (r *LoadResult) Summary() string {
	return fmt.Sprintf(
		"Project: %s (%s) | Models: %d total (%d skipped) | Exposures: %d | Duration: %s",
		r.ProjectName, r.AdapterType, r.ModelsTotal, r.ModelsSkipped, r.ExposuresTotal,
		r.Duration.Round(time.Millisecond),
	)
}

// Load reads the dbt artifacts, reconciles the selected models with the
// catalog and indexes the result. It replaces the state of any previous load.
func (e *Engine) Load(ctx context.Context) (*LoadResult, error) {
	start := time.Now()

	e.logger.Info("loading dbt artifacts", "target_dir", e.cfg.TargetDir)

	project, err := loader.LoadProject(e.cfg.ProjectDir)
	if err != nil {
		return nil, err
	}

	manifest, err := loader.LoadManifest(e.artifact(loader.ManifestFile), loader.Options{Tag: e.cfg.Tag})
	if err != nil {
		return nil, err
	}
	project.AdapterType = manifest.AdapterType
	e.logger.Debug("detected valid manifest",
		"adapter_type", manifest.AdapterType,
		"models", len(manifest.Models),
		"exposures", len(manifest.Exposures))

	d, err := dialect.Require(manifest.AdapterType)
	if err != nil {
		return nil, err
	}

	nodes, err := e.loadCatalog(ctx, manifest.Models)
	if err != nil {
		return nil, err
	}

	models := catalog.Reconcile(manifest.Models, nodes, e.logger)

	reg := registry.NewModelRegistry()
	for _, m := range models {
		reg.Register(m)
	}
	reg.MarkKnown(manifest.Known...)
	if err := reg.AttachExposures(manifest.Exposures, e.logger); err != nil {
		return nil, err
	}

	var skipped []string
	for _, m := range manifest.Models {
		if !reg.Has(m.Name) {
			skipped = append(skipped, m.Name)
		}
	}

	e.mu.Lock()
	e.project = project
	e.manifest = manifest
	e.dialect = d
	e.registry = reg
	e.skipped = skipped
	e.mu.Unlock()

	result := &LoadResult{
		AdapterType:    manifest.AdapterType,
		ProjectName:    project.Name,
		ModelsTotal:    len(manifest.Models),
		ModelsSkipped:  len(skipped),
		ExposuresTotal: len(manifest.Exposures),
		Duration:       time.Since(start),
	}

	e.logger.Info("load completed",
		"models_total", result.ModelsTotal,
		"models_skipped", result.ModelsSkipped,
		"exposures_total", result.ExposuresTotal,
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

// loadCatalog reads catalog.json or introspects the live warehouse.
func (e *Engine) loadCatalog(ctx context.Context, models []*core.Model) (map[string]core.CatalogNode, error) {
	switch e.cfg.CatalogSource {
	case CatalogFromFile:
		return loader.LoadCatalog(e.artifact(loader.CatalogFile))
	case CatalogFromDatabase:
		if e.cfg.Target == nil || e.cfg.Target.Type == "" {
			return nil, fmt.Errorf("catalog source %q requires catalog.target.type", CatalogFromDatabase)
		}
		cfg := e.cfg.Target.AdapterConfig()

		e.logger.Debug("connecting to database", "adapter_type", cfg.Type)
		db, err := e.newAdapter(cfg, e.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create database adapter: %w", err)
		}
		if err := db.Connect(ctx, cfg); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() { _ = db.Close() }()

		return catalog.Introspect(ctx, db, models, e.logger)
	default:
		return nil, fmt.Errorf("unknown catalog source %q, expected %q or %q",
			e.cfg.CatalogSource, CatalogFromFile, CatalogFromDatabase)
	}
}
