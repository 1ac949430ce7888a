package core

import (
	"maps"
	"slices"
	"strings"
)

// Model is a dbt model node selected for compilation.
// Values are treated as immutable once loaded; use WithColumns to derive
// an enriched copy.
type Model struct {
	// UniqueID is the dbt node id (e.g., "model.shop.orders")
	UniqueID string
	// Name is the model name, also used as the view name
	Name string
	// Database, Schema and Alias locate the physical relation
	Database string
	Schema   string
	Alias    string
	// RelationName is the fully qualified relation used as sql_table_name
	RelationName string
	// Description is the model description
	Description string
	// Tags are dbt tags
	Tags []string
	// Columns are keyed by lower-cased column name
	Columns map[string]Column
	// Meta holds the decoded model-level meta block
	Meta ModelMeta

	// Fields contributed by exposures that reference this model.
	CalculatedDimensions []CalculatedDimension
	DurationGroups       []DurationDimensionGroup
	ExposureMeasures     []ExposureMeasure
	Parameters           []Parameter
	Filters              []Filter
}

// HasTag reports whether the model carries tag.
func (m *Model) HasTag(tag string) bool {
	return slices.Contains(m.Tags, tag)
}

// Location returns a human-readable location of the model's relation.
func (m *Model) Location() string {
	if m.RelationName != "" {
		return m.RelationName
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{m.Database, m.Schema, m.relationAlias()} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// QualifiedTable returns "schema.alias", the form adapters look tables up by.
func (m *Model) QualifiedTable() string {
	if m.Schema == "" {
		return m.relationAlias()
	}
	return m.Schema + "." + m.relationAlias()
}

func (m *Model) relationAlias() string {
	if m.Alias != "" {
		return m.Alias
	}
	return m.Name
}

// ColumnNames returns the declared column names in sorted order.
func (m *Model) ColumnNames() []string {
	return slices.Sorted(maps.Keys(m.Columns))
}

// SortedColumns returns the declared columns ordered by name.
func (m *Model) SortedColumns() []Column {
	names := m.ColumnNames()
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		cols = append(cols, m.Columns[name])
	}
	return cols
}

// WithColumns returns a shallow copy of m carrying cols.
// The receiver is left untouched.
func (m *Model) WithColumns(cols map[string]Column) *Model {
	clone := *m
	clone.Columns = cols
	return &clone
}

// Column is a declared model column.
type Column struct {
	Name        string
	Description string
	// DataType is the warehouse type; empty until reconciled with the catalog
	DataType string
	Meta     ColumnMeta
}

// ColumnMeta holds per-column annotations.
type ColumnMeta struct {
	Dimension DimensionOverride
	// Measures holds measure maps by the meta key they were declared under
	Measures map[MeasureAlias]map[string]Measure
}

// MeasureAlias is a meta key that may declare column measures.
type MeasureAlias string

// Measure aliases.
const (
	AliasLookerMeasures MeasureAlias = "looker.measures"
	AliasMeasures       MeasureAlias = "measures"
	AliasMeasure        MeasureAlias = "measure"
	AliasMetrics        MeasureAlias = "metrics"
	AliasMetric         MeasureAlias = "metric"
)

// MeasureAliasOrder is the merge order of measure aliases.
// Later entries shadow earlier ones by measure name.
var MeasureAliasOrder = []MeasureAlias{
	AliasLookerMeasures,
	AliasMeasures,
	AliasMeasure,
	AliasMetrics,
	AliasMetric,
}

// NamedMeasure is a measure paired with its declared name.
type NamedMeasure struct {
	Name string
	Measure
}

// MergedMeasures merges all alias blocks in MeasureAliasOrder and returns the
// result ordered by measure name.
func (m ColumnMeta) MergedMeasures() []NamedMeasure {
	merged := make(map[string]Measure)
	for _, alias := range MeasureAliasOrder {
		for name, measure := range m.Measures[alias] {
			merged[name] = measure
		}
	}
	out := make([]NamedMeasure, 0, len(merged))
	for _, name := range slices.Sorted(maps.Keys(merged)) {
		out = append(out, NamedMeasure{Name: name, Measure: merged[name]})
	}
	return out
}

// DimensionOverride holds optional per-column dimension overrides.
// A nil field means "use the computed default".
type DimensionOverride struct {
	Enabled         *bool
	Name            *string
	SQL             *string
	Description     *string
	ValueFormatName *string
}

// IsEnabled reports whether the column should produce a dimension.
func (d DimensionOverride) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// NameOr returns the name override or def.
func (d DimensionOverride) NameOr(def string) string {
	return valueOr(d.Name, def)
}

// SQLOr returns the SQL override or def.
func (d DimensionOverride) SQLOr(def string) string {
	return valueOr(d.SQL, def)
}

// DescriptionOr returns the description override or def.
func (d DimensionOverride) DescriptionOr(def string) string {
	return valueOr(d.Description, def)
}

// ValueFormat returns the value format name, if set.
func (d DimensionOverride) ValueFormat() (string, bool) {
	if d.ValueFormatName == nil {
		return "", false
	}
	return *d.ValueFormatName, true
}

func valueOr(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}

// Measure is a column measure declared in meta.
type Measure struct {
	Type            AggregateType
	SQL             string
	Description     string
	ValueFormatName string
	Filters         []MeasureFilter
}

// MeasureFilter restricts a measure to rows where Column matches Expression.
type MeasureFilter struct {
	Column     string
	Expression string
}

// ModelMeta holds model-level annotations.
type ModelMeta struct {
	// PrimaryKey is a column name or a comma separated compound key
	PrimaryKey string
	Joins      []Join
	// Explore overrides the generated explore when set
	Explore *Explore
	// Snowflake carries integration properties used for relation naming
	Snowflake *SnowflakeProperties
}

// CompoundKey returns the key columns when PrimaryKey names more than one.
func (m ModelMeta) CompoundKey() ([]string, bool) {
	if !strings.Contains(m.PrimaryKey, ",") {
		return nil, false
	}
	var cols []string
	for _, part := range strings.Split(m.PrimaryKey, ",") {
		if part = strings.TrimSpace(part); part != "" {
			cols = append(cols, part)
		}
	}
	return cols, true
}

// Join is an explore join.
type Join struct {
	// Join names the joined view; it may be a ref token
	Join         string
	Type         JoinType
	Relationship Relationship
	SQLOn        string
}

// Explore is an explore definition supplied by a model or exposure.
type Explore struct {
	// MainModel is a ref token naming the base view
	MainModel      string
	Connection     string
	Joins          []Join
	SQLAlwaysWhere string
}

// SnowflakeProperties holds the Snowflake integration relation parts.
type SnowflakeProperties struct {
	Schema string
	Table  string
}

// SnowflakeTag selects Snowflake integration relation naming.
const SnowflakeTag = "yoda_snowflake"
