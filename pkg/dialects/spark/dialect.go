// Package spark provides the Spark column type map.
package spark

import (
	"strings"

	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/dialect"
)

func init() {
	dialect.Register(Spark)
}

// Spark is the Spark type map.
// Types are matched without their precision, so decimal(10,2) is decimal.
var Spark = &dialect.Dialect{
	Name:      "spark",
	Normalize: normalize,
	Types: map[string]core.LookerType{
		"byte":      core.LookerNumber,
		"short":     core.LookerNumber,
		"integer":   core.LookerNumber,
		"long":      core.LookerNumber,
		"float":     core.LookerNumber,
		"double":    core.LookerNumber,
		"decimal":   core.LookerNumber,
		"string":    core.LookerString,
		"varchar":   core.LookerString,
		"char":      core.LookerString,
		"boolean":   core.LookerYesNo,
		"timestamp": core.LookerTimestamp,
		"date":      core.LookerDateTime,
	},
}

func normalize(nativeType string) string {
	return strings.ToLower(dialect.StripPrecision(nativeType))
}
