package core

// Exposure is a dbt exposure describing a Looker explore.
type Exposure struct {
	UniqueID    string
	Name        string
	Description string
	Tags        []string
	// Explore is the explore to emit; nil when the exposure has no looker meta
	Explore *Explore

	Measures        []ExposureMeasure
	Dimensions      []CalculatedDimension
	DimensionGroups []DurationDimensionGroup
	Parameters      []Parameter
	Filters         []Filter
}

// ExposureMeasure is a measure defined on an exposure for one model.
type ExposureMeasure struct {
	// Model is a ref token naming the model the measure belongs to
	Model string
	Name  string
	// Type is a non-aggregate measure type (number, string, yesno, date)
	Type        string
	SQL         string
	Description string
}

// CalculatedDimension is a SQL dimension defined on an exposure.
type CalculatedDimension struct {
	Model       string
	Name        string
	Type        string
	SQL         string
	Description string
	Hidden      *bool
}

// DurationDimensionGroup is a duration dimension group defined on an exposure.
type DurationDimensionGroup struct {
	Model       string
	Name        string
	Type        string
	SQLStart    string
	SQLEnd      string
	Description string
	Datatype    string
	Intervals   []string
}

// Parameter is a LookML parameter defined on an exposure.
type Parameter struct {
	Model         string
	Name          string
	Type          string
	Description   string
	Label         string
	AllowedValues []AllowedValue
}

// AllowedValue is one choice of a parameter.
type AllowedValue struct {
	Label string
	Value string
}

// Filter is a LookML templated filter defined on an exposure.
type Filter struct {
	Model       string
	Name        string
	Type        string
	Description string
	Label       string
	SQL         string
}
