package loader

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leaplook/pkg/core"
)

// validate is shared; validator instances cache struct metadata and are
// safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report meta keys rather than Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// columnMeta is the meta block of a model column.
type columnMeta struct {
	Dimension dimensionMeta `mapstructure:"dimension"`
	Looker    struct {
		Measures map[string]measureMeta `mapstructure:"measures" validate:"dive"`
	} `mapstructure:"looker"`

	// Legacy aliases
	Measures map[string]measureMeta `mapstructure:"measures" validate:"dive"`
	Measure  map[string]measureMeta `mapstructure:"measure" validate:"dive"`
	Metrics  map[string]measureMeta `mapstructure:"metrics" validate:"dive"`
	Metric   map[string]measureMeta `mapstructure:"metric" validate:"dive"`
}

type dimensionMeta struct {
	Enabled         *bool   `mapstructure:"enabled"`
	Name            *string `mapstructure:"name"`
	SQL             *string `mapstructure:"sql"`
	Description     *string `mapstructure:"description"`
	ValueFormatName *string `mapstructure:"value_format_name"`
}

type measureMeta struct {
	Type            string `mapstructure:"type" validate:"required,oneof=average average_distinct count count_distinct list max median median_distinct min sum sum_distinct"`
	SQL             string `mapstructure:"sql"`
	Description     string `mapstructure:"description"`
	ValueFormatName string `mapstructure:"value_format_name"`
	// Each filter maps exactly one column to an expression
	Filters []map[string]string `mapstructure:"filters" validate:"dive,len=1"`
}

// modelMeta is the meta block of a model.
type modelMeta struct {
	PrimaryKey        string       `mapstructure:"primary_key"`
	Joins             []joinMeta   `mapstructure:"joins" validate:"dive"`
	Looker            *exploreMeta `mapstructure:"looker"`
	IntegrationConfig struct {
		Snowflake struct {
			Properties *snowflakeMeta `mapstructure:"properties"`
		} `mapstructure:"snowflake"`
	} `mapstructure:"integration_config"`
}

type joinMeta struct {
	Join         string `mapstructure:"join" validate:"required"`
	Type         string `mapstructure:"type" validate:"oneof=left_outer full_outer inner cross"`
	Relationship string `mapstructure:"relationship" validate:"oneof=many_to_one many_to_many one_to_many one_to_one"`
	SQLOn        string `mapstructure:"sql_on"`
}

type exploreMeta struct {
	MainModel      string     `mapstructure:"main_model" validate:"required"`
	Connection     string     `mapstructure:"connection"`
	Joins          []joinMeta `mapstructure:"joins" validate:"dive"`
	SQLAlwaysWhere string     `mapstructure:"sql_always_where"`
}

type snowflakeMeta struct {
	Schema string `mapstructure:"sf_schema" validate:"required"`
	Table  string `mapstructure:"table" validate:"required"`
}

// exposureMeta is the meta block of an exposure.
type exposureMeta struct {
	Looker struct {
		MainModel       string              `mapstructure:"main_model"`
		Connection      string              `mapstructure:"connection"`
		Joins           []joinMeta          `mapstructure:"joins" validate:"dive"`
		SQLAlwaysWhere  string              `mapstructure:"sql_always_where"`
		Measures        []exposureMeasure   `mapstructure:"measures" validate:"dive"`
		Dimensions      []exposureDimension `mapstructure:"dimensions" validate:"dive"`
		DimensionGroups []exposureDuration  `mapstructure:"dimension_groups" validate:"dive"`
		Parameters      []exposureParameter `mapstructure:"parameters" validate:"dive"`
		Filters         []exposureFilter    `mapstructure:"filters" validate:"dive"`
	} `mapstructure:"looker"`
}

type exposureMeasure struct {
	Model       string `mapstructure:"model" validate:"required"`
	Name        string `mapstructure:"name" validate:"required"`
	Type        string `mapstructure:"type" validate:"required,oneof=number string yesno date"`
	SQL         string `mapstructure:"sql" validate:"required"`
	Description string `mapstructure:"description"`
}

type exposureDimension struct {
	Model       string `mapstructure:"model" validate:"required"`
	Name        string `mapstructure:"name" validate:"required"`
	Type        string `mapstructure:"type" validate:"required"`
	SQL         string `mapstructure:"sql" validate:"required"`
	Description string `mapstructure:"description"`
	Hidden      *bool  `mapstructure:"hidden"`
}

type exposureDuration struct {
	Model       string   `mapstructure:"model" validate:"required"`
	Name        string   `mapstructure:"name" validate:"required"`
	Type        string   `mapstructure:"type"`
	SQLStart    string   `mapstructure:"sql_start" validate:"required"`
	SQLEnd      string   `mapstructure:"sql_end" validate:"required"`
	Description string   `mapstructure:"description"`
	Datatype    string   `mapstructure:"datatype"`
	Intervals   []string `mapstructure:"intervals"`
}

type exposureParameter struct {
	Model         string `mapstructure:"model" validate:"required"`
	Name          string `mapstructure:"name" validate:"required"`
	Type          string `mapstructure:"type" validate:"required"`
	Description   string `mapstructure:"description"`
	Label         string `mapstructure:"label"`
	AllowedValues []struct {
		Label string `mapstructure:"label"`
		Value string `mapstructure:"value" validate:"required"`
	} `mapstructure:"allowed_value" validate:"dive"`
}

type exposureFilter struct {
	Model       string `mapstructure:"model" validate:"required"`
	Name        string `mapstructure:"name" validate:"required"`
	Type        string `mapstructure:"type" validate:"required"`
	Description string `mapstructure:"description"`
	Label       string `mapstructure:"label"`
	SQL         string `mapstructure:"sql"`
}

// decodeMeta decodes raw into out and validates the result.
// field prefixes reported paths, e.g. "columns.amount".
func decodeMeta(node, field string, raw map[string]any, out any, defaults func()) error {
	if len(raw) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           out,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return err
		}
		if err := dec.Decode(raw); err != nil {
			return fmt.Errorf("%s: decoding %s meta: %w", node, field, err)
		}
	}
	if defaults != nil {
		defaults()
	}

	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return fmt.Errorf("%s: validating %s meta: %w", node, field, err)
		}
		fe := verrs[0]
		path := fe.Namespace()
		// Drop the root struct name
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		if field != "" {
			path = field + "." + path
		}
		return &ValidationError{Node: node, Field: path, Rule: fe.Tag(), Value: fe.Value()}
	}
	return nil
}

func applyJoinDefaults(joins []joinMeta) {
	for i := range joins {
		if joins[i].Type == "" {
			joins[i].Type = string(core.JoinLeftOuter)
		}
		if joins[i].Relationship == "" {
			joins[i].Relationship = string(core.ManyToOne)
		}
	}
}

// decodeColumnMeta converts a raw column meta block.
func decodeColumnMeta(node, column string, raw map[string]any) (core.ColumnMeta, error) {
	var meta columnMeta
	if err := decodeMeta(node, "columns."+column, raw, &meta, nil); err != nil {
		return core.ColumnMeta{}, err
	}

	out := core.ColumnMeta{
		Dimension: core.DimensionOverride{
			Enabled:         meta.Dimension.Enabled,
			Name:            meta.Dimension.Name,
			SQL:             meta.Dimension.SQL,
			Description:     meta.Dimension.Description,
			ValueFormatName: meta.Dimension.ValueFormatName,
		},
	}
	aliases := map[core.MeasureAlias]map[string]measureMeta{
		core.AliasLookerMeasures: meta.Looker.Measures,
		core.AliasMeasures:       meta.Measures,
		core.AliasMeasure:        meta.Measure,
		core.AliasMetrics:        meta.Metrics,
		core.AliasMetric:         meta.Metric,
	}
	for alias, measures := range aliases {
		if len(measures) == 0 {
			continue
		}
		if out.Measures == nil {
			out.Measures = make(map[core.MeasureAlias]map[string]core.Measure)
		}
		converted := make(map[string]core.Measure, len(measures))
		for name, m := range measures {
			converted[name] = m.toCore()
		}
		out.Measures[alias] = converted
	}
	return out, nil
}

func (m measureMeta) toCore() core.Measure {
	out := core.Measure{
		Type:            core.AggregateType(m.Type),
		SQL:             m.SQL,
		Description:     m.Description,
		ValueFormatName: m.ValueFormatName,
	}
	for _, f := range m.Filters {
		for col, expr := range f {
			out.Filters = append(out.Filters, core.MeasureFilter{Column: col, Expression: expr})
		}
	}
	return out
}

// decodeModelMeta converts a raw model meta block.
func decodeModelMeta(node string, raw map[string]any) (core.ModelMeta, error) {
	var meta modelMeta
	defaults := func() {
		applyJoinDefaults(meta.Joins)
		if meta.Looker != nil {
			applyJoinDefaults(meta.Looker.Joins)
		}
	}
	if err := decodeMeta(node, "", raw, &meta, defaults); err != nil {
		return core.ModelMeta{}, err
	}

	out := core.ModelMeta{
		PrimaryKey: meta.PrimaryKey,
		Joins:      toCoreJoins(meta.Joins),
	}
	if meta.Looker != nil {
		out.Explore = &core.Explore{
			MainModel:      meta.Looker.MainModel,
			Connection:     meta.Looker.Connection,
			Joins:          toCoreJoins(meta.Looker.Joins),
			SQLAlwaysWhere: meta.Looker.SQLAlwaysWhere,
		}
	}
	if p := meta.IntegrationConfig.Snowflake.Properties; p != nil {
		out.Snowflake = &core.SnowflakeProperties{Schema: p.Schema, Table: p.Table}
	}
	return out, nil
}

// decodeExposureMeta fills the looker fields of e from its raw meta block.
func decodeExposureMeta(e *core.Exposure, raw map[string]any) error {
	var meta exposureMeta
	defaults := func() { applyJoinDefaults(meta.Looker.Joins) }
	if err := decodeMeta(e.UniqueID, "", raw, &meta, defaults); err != nil {
		return err
	}

	lk := meta.Looker
	if lk.MainModel != "" {
		e.Explore = &core.Explore{
			MainModel:      lk.MainModel,
			Connection:     lk.Connection,
			Joins:          toCoreJoins(lk.Joins),
			SQLAlwaysWhere: lk.SQLAlwaysWhere,
		}
	}
	for _, m := range lk.Measures {
		e.Measures = append(e.Measures, core.ExposureMeasure(m))
	}
	for _, d := range lk.Dimensions {
		e.Dimensions = append(e.Dimensions, core.CalculatedDimension(d))
	}
	for _, g := range lk.DimensionGroups {
		e.DimensionGroups = append(e.DimensionGroups, core.DurationDimensionGroup(g))
	}
	for _, p := range lk.Parameters {
		param := core.Parameter{
			Model:       p.Model,
			Name:        p.Name,
			Type:        p.Type,
			Description: p.Description,
			Label:       p.Label,
		}
		for _, v := range p.AllowedValues {
			param.AllowedValues = append(param.AllowedValues, core.AllowedValue{Label: v.Label, Value: v.Value})
		}
		e.Parameters = append(e.Parameters, param)
	}
	for _, f := range lk.Filters {
		e.Filters = append(e.Filters, core.Filter(f))
	}
	return nil
}

func toCoreJoins(joins []joinMeta) []core.Join {
	if len(joins) == 0 {
		return nil
	}
	out := make([]core.Join, len(joins))
	for i, j := range joins {
		out[i] = core.Join{
			Join:         j.Join,
			Type:         core.JoinType(j.Type),
			Relationship: core.Relationship(j.Relationship),
			SQLOn:        j.SQLOn,
		}
	}
	return out
}
