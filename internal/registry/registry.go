// Package registry indexes the models selected for compilation and attaches
// the exposure fields that reference them.
package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/leaplook/internal/ref"
	"github.com/leapstack-labs/leaplook/pkg/core"
)

// ModelRegistry maps model names to models.
type ModelRegistry struct {
	mu sync.RWMutex

	// byName maps model names to models: "orders" → *Model
	byName map[string]*core.Model

	// byTable maps relation names to model names
	// Supports multiple lookup formats:
	//   "shop.orders" → "orders"
	//   "analytics.shop.orders" → "orders"
	byTable map[string]string

	// known holds every model name in the manifest, including models
	// filtered out of compilation by tag
	known map[string]struct{}
}

// NewModelRegistry creates a new empty registry.
func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{
		byName:  make(map[string]*core.Model),
		byTable: make(map[string]string),
		known:   make(map[string]struct{}),
	}
}

// Register adds a model to the registry.
// It registers the model under its name and relation variants.
func (r *ModelRegistry) Register(model *core.Model) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[model.Name] = model
	r.known[model.Name] = struct{}{}

	// Register the qualified table and the full location, unquoted and lower-cased
	r.byTable[tableKey(model.QualifiedTable())] = model.Name
	r.byTable[tableKey(model.Location())] = model.Name
}

// MarkKnown records manifest model names that are not compiled.
// Exposures may still reference them.
func (r *ModelRegistry) MarkKnown(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.known[name] = struct{}{}
	}
}

// Has reports whether name is a registered model.
func (r *ModelRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

// Resolve maps a relation name to a model name. Explores use it to accept a
// bare main_model. Quoting and case are ignored; a bare table name matches on
// the model name.
func (r *ModelRegistry) Resolve(tableName string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := tableKey(tableName)
	if name, ok := r.byTable[key]; ok {
		return name, true
	}
	if _, ok := r.byName[tableName]; ok {
		return tableName, true
	}
	if parts := strings.Split(key, "."); len(parts) > 1 {
		if name, ok := r.byTable[strings.Join(parts[len(parts)-2:], ".")]; ok {
			return name, true
		}
	}
	return "", false
}

// AllModels returns all registered models ordered by name.
func (r *ModelRegistry) AllModels() []*core.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]*core.Model, 0, len(r.byName))
	for _, name := range slices.Sorted(maps.Keys(r.byName)) {
		models = append(models, r.byName[name])
	}
	return models
}

// AttachExposures distributes exposure fields to the models they reference.
// Each field names its model with a ref token. Models are replaced by
// copies, so models handed out earlier are left untouched.
func (r *ModelRegistry) AttachExposures(exposures []*core.Exposure, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	updated := make(map[string]*core.Model)
	target := func(exposure, field, expr string) (*core.Model, error) {
		name, err := ref.Single(expr)
		if err != nil {
			return nil, &core.ConfigError{Model: exposure, Field: field, Message: err.Error()}
		}
		if m, ok := updated[name]; ok {
			return m, nil
		}
		m, ok := r.byName[name]
		if !ok {
			if _, known := r.known[name]; known {
				logger.Debug("exposure references a model that is not compiled",
					slog.String("exposure", exposure), slog.String("model", name))
				return nil, nil
			}
			return nil, &core.ConfigError{
				Model:   exposure,
				Field:   field,
				Message: fmt.Sprintf("references unknown model %q", name),
			}
		}
		clone := *m
		updated[name] = &clone
		return &clone, nil
	}

	for _, e := range exposures {
		for _, f := range e.Measures {
			m, err := target(e.UniqueID, "measure "+f.Name, f.Model)
			if err != nil {
				return err
			}
			if m != nil {
				m.ExposureMeasures = append(slices.Clip(m.ExposureMeasures), f)
			}
		}
		for _, f := range e.Dimensions {
			m, err := target(e.UniqueID, "dimension "+f.Name, f.Model)
			if err != nil {
				return err
			}
			if m != nil {
				m.CalculatedDimensions = append(slices.Clip(m.CalculatedDimensions), f)
			}
		}
		for _, f := range e.DimensionGroups {
			m, err := target(e.UniqueID, "dimension_group "+f.Name, f.Model)
			if err != nil {
				return err
			}
			if m != nil {
				m.DurationGroups = append(slices.Clip(m.DurationGroups), f)
			}
		}
		for _, f := range e.Parameters {
			m, err := target(e.UniqueID, "parameter "+f.Name, f.Model)
			if err != nil {
				return err
			}
			if m != nil {
				m.Parameters = append(slices.Clip(m.Parameters), f)
			}
		}
		for _, f := range e.Filters {
			m, err := target(e.UniqueID, "filter "+f.Name, f.Model)
			if err != nil {
				return err
			}
			if m != nil {
				m.Filters = append(slices.Clip(m.Filters), f)
			}
		}
	}

	for name, m := range updated {
		r.byName[name] = m
	}
	return nil
}

func tableKey(name string) string {
	return strings.ToLower(strings.NewReplacer("`", "", `"`, "").Replace(name))
}
