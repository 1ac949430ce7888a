// Package redshift provides the Amazon Redshift column type map.
package redshift

import (
	"strings"

	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/dialect"
)

func init() {
	dialect.Register(Redshift)
}

// Redshift is the Redshift type map.
// Catalog types are reported in lower case, so lookups are case-insensitive.
var Redshift = &dialect.Dialect{
	Name:      "redshift",
	Types:     Types(),
	Normalize: strings.ToUpper,
}

// Types returns a fresh copy of the Redshift type map.
// The Postgres map extends it.
func Types() map[string]core.LookerType {
	return map[string]core.LookerType{
		"SMALLINT":          core.LookerNumber,
		"INT2":              core.LookerNumber,
		"INTEGER":           core.LookerNumber,
		"INT":               core.LookerNumber,
		"INT4":              core.LookerNumber,
		"BIGINT":            core.LookerNumber,
		"INT8":              core.LookerNumber,
		"DECIMAL":           core.LookerNumber,
		"NUMERIC":           core.LookerNumber,
		"REAL":              core.LookerNumber,
		"FLOAT4":            core.LookerNumber,
		"DOUBLE PRECISION":  core.LookerNumber,
		"FLOAT8":            core.LookerNumber,
		"FLOAT":             core.LookerNumber,
		"BOOLEAN":           core.LookerYesNo,
		"BOOL":              core.LookerYesNo,
		"CHAR":              core.LookerString,
		"CHARACTER":         core.LookerString,
		"NCHAR":             core.LookerString,
		"BPCHAR":            core.LookerString,
		"VARCHAR":           core.LookerString,
		"CHARACTER VARYING": core.LookerString,
		"NVARCHAR":          core.LookerString,
		"TEXT":              core.LookerString,
		"DATE":              core.LookerDate,
		"TIMESTAMP":         core.LookerTimestamp,
		// TIMESTAMPTZ and TIMESTAMP WITH TIME ZONE have no mapping
		"TIMESTAMP WITHOUT TIME ZONE": core.LookerTimestamp,
		"GEOMETRY":                    core.LookerString,
		"TIME":                        core.LookerString,
		"TIME WITHOUT TIME ZONE":      core.LookerString,
	}
}
