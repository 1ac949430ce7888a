// Package bigquery provides the BigQuery column type map.
package bigquery

import (
	"strings"

	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/dialect"
)

func init() {
	dialect.Register(BigQuery)
}

// BigQuery is the BigQuery type map.
var BigQuery = &dialect.Dialect{
	Name:      "bigquery",
	Normalize: strings.ToUpper,
	Types: map[string]core.LookerType{
		"INT64":     core.LookerNumber,
		"INTEGER":   core.LookerNumber,
		"FLOAT":     core.LookerNumber,
		"FLOAT64":   core.LookerNumber,
		"NUMERIC":   core.LookerNumber,
		"BOOLEAN":   core.LookerYesNo,
		"BOOL":      core.LookerYesNo,
		"STRING":    core.LookerString,
		"TIMESTAMP": core.LookerTimestamp,
		"DATETIME":  core.LookerDateTime,
		"DATE":      core.LookerDate,
		"TIME":      core.LookerString,
		"ARRAY":     core.LookerString,
		"GEOGRAPHY": core.LookerString,
	},
}
