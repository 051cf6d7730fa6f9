package types

// SchemaType identifies the type of a column.
type SchemaType int

const (
	Integer SchemaType = iota
	Long
	Double
	Varchar
	Boolean
)

// String returns the string representation of the SchemaType.
func (t SchemaType) String() string {
	switch t {
	case Integer:
		return "int"
	case Long:
		return "long"
	case Double:
		return "double"
	case Varchar:
		return "varchar"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether values of this type can participate in
// arithmetic aggregates and cross-type numeric comparisons.
func (t SchemaType) IsNumeric() bool {
	switch t {
	case Integer, Long, Double:
		return true
	default:
		return false
	}
}

// Compatible reports whether two column types can be compared for
// equality. Identical types are always compatible; distinct numeric types
// are compatible through coercion to float64.
func Compatible(a, b SchemaType) bool {
	if a == b {
		return true
	}
	return a.IsNumeric() && b.IsNumeric()
}

// FieldInfo describes a single column of a schema.
type FieldInfo struct {
	Type SchemaType
}
