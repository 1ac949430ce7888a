// Package snowflake provides the Snowflake column type map.
package snowflake

import (
	"strings"

	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/dialect"
)

func init() {
	dialect.Register(Snowflake)
}

// Snowflake is the Snowflake type map.
var Snowflake = &dialect.Dialect{
	Name:      "snowflake",
	Normalize: strings.ToUpper,
	Types: map[string]core.LookerType{
		"NUMBER":           core.LookerNumber,
		"DECIMAL":          core.LookerNumber,
		"NUMERIC":          core.LookerNumber,
		"INT":              core.LookerNumber,
		"INTEGER":          core.LookerNumber,
		"BIGINT":           core.LookerNumber,
		"SMALLINT":         core.LookerNumber,
		"FLOAT":            core.LookerNumber,
		"FLOAT4":           core.LookerNumber,
		"FLOAT8":           core.LookerNumber,
		"DOUBLE":           core.LookerNumber,
		"DOUBLE PRECISION": core.LookerNumber,
		"REAL":             core.LookerNumber,
		"VARCHAR":          core.LookerString,
		"CHAR":             core.LookerString,
		"CHARACTER":        core.LookerString,
		"STRING":           core.LookerString,
		"TEXT":             core.LookerString,
		"BINARY":           core.LookerString,
		"VARBINARY":        core.LookerString,
		"BOOLEAN":          core.LookerYesNo,
		"DATE":             core.LookerDate,
		"DATETIME":         core.LookerDateTime,
		"TIME":             core.LookerString,
		"TIMESTAMP":        core.LookerTimestamp,
		"TIMESTAMP_NTZ":    core.LookerTimestamp,
		// TIMESTAMP_LTZ and TIMESTAMP_TZ have no mapping
		"VARIANT":   core.LookerString,
		"OBJECT":    core.LookerString,
		"ARRAY":     core.LookerString,
		"GEOGRAPHY": core.LookerString,
	},
}
