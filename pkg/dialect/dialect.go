// Package dialect provides warehouse type maps used to classify column types.
//
// This package contains the public contract for type maps. Concrete maps
// are registered from pkg/dialects/*/ packages.
package dialect

import (
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leaplook/pkg/core"
)

// Dialect maps one warehouse's native column types onto Looker types.
type Dialect struct {
	// Name is the dbt adapter type (e.g., "bigquery")
	Name string
	// Types maps normalized native type names to Looker types
	Types map[string]core.LookerType
	// Normalize rewrites a native type before lookup; nil means identity
	Normalize func(string) string
}

// Lookup returns the Looker type for nativeType without logging.
func (d *Dialect) Lookup(nativeType string) (core.LookerType, bool) {
	if nativeType == "" {
		return "", false
	}
	key := nativeType
	if d.Normalize != nil {
		key = d.Normalize(key)
	}
	t, ok := d.Types[key]
	return t, ok
}

// Classify returns the Looker type for nativeType.
// An empty type is absent without diagnostics; an unmapped type is absent
// and produces a single warning on logger.
func (d *Dialect) Classify(nativeType string, logger *slog.Logger) (core.LookerType, bool) {
	t, ok := d.Lookup(nativeType)
	if ok || nativeType == "" {
		return t, ok
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Warn("column type not supported, no dimension will be created",
		slog.String("type", nativeType),
		slog.String("adapter", d.Name))
	return "", false
}

// StripPrecision removes a parenthesised suffix such as "(10,2)".
func StripPrecision(nativeType string) string {
	if i := strings.IndexByte(nativeType, '('); i >= 0 {
		return nativeType[:i]
	}
	return nativeType
}
