// Package catalog reconciles declared model columns with the observed
// warehouse schema.
//
// Reconciliation never mutates its inputs: each kept model is copied with
// column data types filled in from its catalog node.
package catalog

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/leapstack-labs/leaplook/pkg/core"
)

// ColumnDiff describes how declared columns differ from observed ones.
type ColumnDiff struct {
	// Undocumented are observed columns with no declaration
	Undocumented []string
	// Missing are declared columns absent from the warehouse
	Missing []string
}

// Empty reports whether the column sets are identical.
func (d ColumnDiff) Empty() bool {
	return len(d.Undocumented) == 0 && len(d.Missing) == 0
}

// Diff compares declared and observed column names.
func Diff(declared, observed []string) ColumnDiff {
	declaredSet := make(map[string]struct{}, len(declared))
	for _, c := range declared {
		declaredSet[c] = struct{}{}
	}
	observedSet := make(map[string]struct{}, len(observed))
	for _, c := range observed {
		observedSet[c] = struct{}{}
	}

	var diff ColumnDiff
	for _, c := range observed {
		if _, ok := declaredSet[c]; !ok {
			diff.Undocumented = append(diff.Undocumented, c)
		}
	}
	for _, c := range declared {
		if _, ok := observedSet[c]; !ok {
			diff.Missing = append(diff.Missing, c)
		}
	}
	slices.Sort(diff.Undocumented)
	slices.Sort(diff.Missing)
	return diff
}

// Reconcile returns the models that have a catalog node, each enriched with
// observed column types. Models without a node are dropped with a warning.
func Reconcile(models []*core.Model, nodes map[string]core.CatalogNode, logger *slog.Logger) []*core.Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	out := make([]*core.Model, 0, len(models))
	for _, m := range models {
		node, ok := nodes[m.UniqueID]
		if !ok {
			logger.Warn("model not found in catalog, skipping",
				slog.String("model", m.Name),
				slog.String("location", m.Location()))
			continue
		}

		reportColumnDiff(m, node, logger)

		cols := make(map[string]core.Column, len(m.Columns))
		untyped := 0
		for name, col := range m.Columns {
			col.DataType = node.Columns[name]
			if col.DataType == "" {
				untyped++
			}
			cols[name] = col
		}
		if untyped > 0 {
			logger.Debug("model has columns without a data type",
				slog.String("model", m.Name),
				slog.Int("untyped", untyped),
				slog.Int("columns", len(cols)))
		}

		out = append(out, m.WithColumns(cols))
	}
	return out
}

// reportColumnDiff logs declared/observed mismatches. When every declared
// column exists, only the undocumented ones are reported; otherwise only the
// missing ones are.
func reportColumnDiff(m *core.Model, node core.CatalogNode, logger *slog.Logger) {
	diff := Diff(m.ColumnNames(), slices.Sorted(maps.Keys(node.Columns)))
	if diff.Empty() {
		return
	}
	if len(diff.Missing) == 0 {
		for _, c := range diff.Undocumented {
			logger.Warn("column is not documented in the model",
				slog.String("model", m.Name),
				slog.String("column", c))
		}
		return
	}
	for _, c := range diff.Missing {
		logger.Warn("documented column not found in the catalog",
			slog.String("model", m.Name),
			slog.String("column", c))
	}
}
