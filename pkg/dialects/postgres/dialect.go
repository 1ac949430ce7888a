// Package postgres provides the PostgreSQL column type map.
package postgres

import (
	"strings"

	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/dialect"
	"github.com/leapstack-labs/leaplook/pkg/dialects/redshift"
)

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL type map: the Redshift types plus Postgres-only ones.
var Postgres = &dialect.Dialect{
	Name:      "postgres",
	Types:     types(),
	Normalize: strings.ToUpper,
}

func types() map[string]core.LookerType {
	t := redshift.Types()
	for _, name := range []string{"XML", "UUID", "PG_LSN", "MACADDR", "JSON", "JSONB", "CIDR", "INET"} {
		t[name] = core.LookerString
	}
	for _, name := range []string{"MONEY", "SMALLSERIAL", "SERIAL2", "SERIAL", "SERIAL4", "BIGSERIAL", "SERIAL8"} {
		t[name] = core.LookerNumber
	}
	return t
}
