package core

// LookerType is the target dimension type a vendor column type maps to.
type LookerType string

// Looker type constants.
const (
	LookerNumber    LookerType = "number"
	LookerYesNo     LookerType = "yesno"
	LookerString    LookerType = "string"
	LookerDate      LookerType = "date"
	LookerDateTime  LookerType = "datetime"
	LookerTimestamp LookerType = "timestamp"
)

// TypeKind groups Looker types by how they are rendered.
type TypeKind int

// Type kinds.
const (
	KindUnknown TypeKind = iota
	// KindScalar types become plain dimensions.
	KindScalar
	// KindDateTime types become time dimension groups with intraday timeframes.
	KindDateTime
	// KindDate types become time dimension groups with calendar timeframes only.
	KindDate
)

// Kind returns the rendering kind of t.
func (t LookerType) Kind() TypeKind {
	switch t {
	case LookerNumber, LookerYesNo, LookerString:
		return KindScalar
	case LookerDateTime, LookerTimestamp:
		return KindDateTime
	case LookerDate:
		return KindDate
	default:
		return KindUnknown
	}
}

// AggregateType is a measure aggregation.
type AggregateType string

// Aggregate measure types.
const (
	AggregateAverage         AggregateType = "average"
	AggregateAverageDistinct AggregateType = "average_distinct"
	AggregateCount           AggregateType = "count"
	AggregateCountDistinct   AggregateType = "count_distinct"
	AggregateList            AggregateType = "list"
	AggregateMax             AggregateType = "max"
	AggregateMedian          AggregateType = "median"
	AggregateMedianDistinct  AggregateType = "median_distinct"
	AggregateMin             AggregateType = "min"
	AggregateSum             AggregateType = "sum"
	AggregateSumDistinct     AggregateType = "sum_distinct"
)

// JoinType is the SQL join kind of an explore join.
type JoinType string

// Join types.
const (
	JoinLeftOuter JoinType = "left_outer"
	JoinFullOuter JoinType = "full_outer"
	JoinInner     JoinType = "inner"
	JoinCross     JoinType = "cross"
)

// Relationship is the cardinality of an explore join.
type Relationship string

// Join relationships.
const (
	ManyToOne  Relationship = "many_to_one"
	ManyToMany Relationship = "many_to_many"
	OneToMany  Relationship = "one_to_many"
	OneToOne   Relationship = "one_to_one"
)

// DateTimeTimeframes are emitted for date-time dimension groups.
var DateTimeTimeframes = []string{"raw", "time", "hour", "date", "week", "month", "quarter", "year"}

// DateTimeframes are emitted for date-only dimension groups.
var DateTimeframes = []string{"raw", "date", "week", "month", "quarter", "year"}
