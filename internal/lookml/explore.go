package lookml

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leaplook/internal/ref"
	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/lkml"
)

// viewsInclude is the include glob of every model file.
const viewsInclude = "views/*"

// CompileModel renders the LookML model file of m.
func (c *Compiler) CompileModel(m *core.Model) (core.File, error) {
	doc, err := c.ModelDocument(m)
	if err != nil {
		return core.File{}, err
	}
	return c.render(m.Name, doc)
}

// CompileExposure renders the LookML model file of an exposure.
// Exposures without an explore produce no file.
func (c *Compiler) CompileExposure(e *core.Exposure) (core.File, bool, error) {
	if e.Explore == nil {
		return core.File{}, false, nil
	}
	doc, err := c.exploreDocument(e.UniqueID, e.Description, e.Explore)
	if err != nil {
		return core.File{}, false, err
	}
	f, err := c.render(e.Name, doc)
	return f, err == nil, err
}

// ModelDocument assembles the model document of m. An explore declared in
// the model's meta replaces the default explore over the model's own view.
func (c *Compiler) ModelDocument(m *core.Model) (lkml.Map, error) {
	if m.Meta.Explore != nil {
		return c.exploreDocument(m.UniqueID, m.Description, m.Meta.Explore)
	}

	joins := make([]lkml.Map, len(m.Meta.Joins))
	for i, j := range m.Meta.Joins {
		joins[i] = joinLKML(j.Join, j, j.SQLOn)
	}
	explore := lkml.Map{}.
		Set("name", m.Name).
		Set("description", m.Description).
		Set("joins", joins)

	return lkml.Map{}.
		Set("connection", c.projectName).
		Set("include", viewsInclude).
		Set("explore", explore), nil
}

// exploreDocument assembles a model document from an explore definition,
// resolving ref tokens in the main model, join targets and join conditions.
func (c *Compiler) exploreDocument(owner, description string, ex *core.Explore) (lkml.Map, error) {
	name, err := c.mainModel(owner, ex.MainModel)
	if err != nil {
		return nil, err
	}

	connection := ex.Connection
	if connection == "" {
		connection = c.projectName
	}

	joins := make([]lkml.Map, len(ex.Joins))
	for i, j := range ex.Joins {
		joins[i] = joinLKML(ref.Resolve(j.Join, true), j, ref.Resolve(j.SQLOn, true))
	}

	explore := lkml.Map{}.
		Set("name", name).
		Set("description", description).
		Set("joins", joins)
	if ex.SQLAlwaysWhere != "" {
		explore = explore.Set("sql_always_where", ref.StripEscapes(ref.Resolve(ex.SQLAlwaysWhere, false)))
	}

	return lkml.Map{}.
		Set("connection", connection).
		Set("include", viewsInclude).
		Set("explore", explore), nil
}

// mainModel resolves an explore's main model to a view name.
func (c *Compiler) mainModel(owner, expr string) (string, error) {
	name, err := ref.Single(expr)
	if err != nil {
		// A bare model or relation name is accepted when it matches a model.
		if c.models != nil {
			if resolved, ok := c.models.Resolve(expr); ok {
				return resolved, nil
			}
		}
		c.logger.Error("invalid ref", slog.String("owner", owner), slog.String("main_model", expr))
		return "", &core.ConfigError{Model: owner, Field: "main_model", Message: err.Error()}
	}
	if c.models != nil && !c.models.Has(name) {
		return "", &core.ConfigError{
			Model:   owner,
			Field:   "main_model",
			Message: fmt.Sprintf("references unknown model %q", name),
		}
	}
	return name, nil
}

func joinLKML(name string, j core.Join, sqlOn string) lkml.Map {
	return lkml.Map{}.
		Set("name", name).
		Set("type", string(j.Type)).
		Set("relationship", string(j.Relationship)).
		Set("sql_on", sqlOn)
}

func (c *Compiler) render(name string, doc lkml.Map) (core.File, error) {
	content, err := lkml.Marshal(doc)
	if err != nil {
		c.logger.Error("error dumping lookml for model", slog.String("model", name), slog.Any("error", err))
		return core.File{}, fmt.Errorf("rendering model %s: %w", name, err)
	}
	return core.File{Name: name + ModelSuffix, Content: content}, nil
}
