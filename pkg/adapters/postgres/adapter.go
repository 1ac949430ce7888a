// Package postgres provides a PostgreSQL database adapter for leaplook.
// Redshift speaks the same protocol and is served by the same adapter.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// Register the pgx database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/leaplook/pkg/adapter"
)

// Default ports per flavour.
const (
	defaultPostgresPort = 5432
	defaultRedshiftPort = 5439
)

// Adapter implements the adapter.Adapter interface for PostgreSQL and Redshift.
type Adapter struct {
	adapter.BaseSQLAdapter
	flavour string
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return newAdapter(logger, "postgres")
}

// NewRedshift creates an adapter for Amazon Redshift.
func NewRedshift(logger *slog.Logger) *Adapter {
	return newAdapter(logger, "redshift")
}

func newAdapter(logger *slog.Logger, flavour string) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
		flavour:        flavour,
	}
}

// DialectName returns the type map name for this adapter.
func (a *Adapter) DialectName() string {
	return a.flavour
}

// Connect establishes a connection to the database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildPostgresDSN(cfg, a.defaultPort())

	a.Logger.Debug("connecting to "+a.flavour, slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", a.flavour, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s: %w", a.flavour, err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

func (a *Adapter) defaultPort() int {
	if a.flavour == "redshift" {
		return defaultRedshiftPort
	}
	return defaultPostgresPort
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg adapter.Config, defaultPort int) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}

	return dsn
}

// GetTableMetadata retrieves column metadata for a "schema.table" reference.
// Unqualified names resolve against the configured schema, else "public".
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	schema := a.Cfg.Schema
	if schema == "" {
		schema = "public"
	}
	return a.GetTableMetadataCommon(ctx, table, schema, adapter.DollarPlaceholder)
}
