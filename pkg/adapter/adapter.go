// Package adapter provides database adapter interfaces used to read the
// warehouse catalog directly instead of from catalog.json.
//
// This package contains the public contract that all database adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
package adapter

import (
	"context"
	"errors"

	"github.com/leapstack-labs/leaplook/pkg/core"
)

// Type aliases for the core types adapters exchange.
type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata
)

// ErrTableNotFound is returned when a table has no columns in information_schema.
var ErrTableNotFound = errors.New("table not found")

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// GetTableMetadata retrieves column metadata for a "schema.table" reference.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)
}
