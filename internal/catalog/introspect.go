package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leaplook/pkg/adapter"
	"github.com/leapstack-labs/leaplook/pkg/core"
)

// MetadataSource reads table metadata from a live warehouse.
type MetadataSource interface {
	GetTableMetadata(ctx context.Context, table string) (*core.TableMetadata, error)
}

// Introspect builds catalog nodes for models by querying src.
// Tables that do not exist are left out, so Reconcile skips their models.
func Introspect(ctx context.Context, src MetadataSource, models []*core.Model, logger *slog.Logger) (map[string]core.CatalogNode, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	nodes := make(map[string]core.CatalogNode, len(models))
	for _, m := range models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table := m.QualifiedTable()
		md, err := src.GetTableMetadata(ctx, table)
		if errors.Is(err, adapter.ErrTableNotFound) {
			logger.Debug("table not found during introspection", slog.String("model", m.Name), slog.String("table", table))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("introspecting %s: %w", m.Name, err)
		}

		cols := make(map[string]string, len(md.Columns))
		for _, c := range md.Columns {
			cols[strings.ToLower(c.Name)] = c.Type
		}
		nodes[m.UniqueID] = core.CatalogNode{UniqueID: m.UniqueID, Columns: cols}
	}

	logger.Debug("catalog introspection complete", slog.Int("models", len(models)), slog.Int("found", len(nodes)))
	return nodes, nil
}
