// Package postgres provides a PostgreSQL database adapter for leaplook.
//
// This file registers the postgres and redshift adapters with the adapter registry.
// Import this package with a blank identifier to register them:
//
//	import _ "github.com/leapstack-labs/leaplook/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/leaplook/pkg/adapter"
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
	adapter.Register("redshift", func(logger *slog.Logger) adapter.Adapter { return NewRedshift(logger) })
}
