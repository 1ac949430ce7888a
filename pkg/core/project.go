package core

// Project holds the dbt project facts the compiler needs.
type Project struct {
	// Name is the dbt project name, the default LookML connection
	Name string
	// AdapterType is the warehouse adapter recorded in the manifest
	AdapterType string
}

// CatalogNode is the observed physical schema of one model.
type CatalogNode struct {
	UniqueID string
	// Columns maps lower-cased column names to warehouse types
	Columns map[string]string
}

// File is a rendered output document.
type File struct {
	// Name is the file name relative to its output directory
	Name    string
	Content []byte
}

// TargetConfig holds database target configuration for live catalog introspection.
type TargetConfig struct {
	Type     string `koanf:"type"` // postgres, redshift
	Database string `koanf:"database"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Schema   string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
}

// AdapterConfig converts t into an adapter connection config.
func (t *TargetConfig) AdapterConfig() AdapterConfig {
	return AdapterConfig{
		Type:     t.Type,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
	}
}

// ColumnMetadata describes a column observed in the warehouse.
type ColumnMetadata struct {
	Name     string
	Type     string
	Nullable bool
	Position int
}

// TableMetadata holds metadata about a warehouse table.
type TableMetadata struct {
	Schema  string
	Name    string
	Columns []ColumnMetadata
}
