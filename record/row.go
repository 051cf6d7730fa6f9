package record

import (
	"fmt"

	"github.com/quiverdb/quiver/types"
)

// Row is a fixed-arity tuple of typed values matching a Schema. Rows are
// immutable once constructed; all accessors return values by copy.
type Row struct {
	values []any
}

// NewRow creates a row from the given values, in schema column order.
func NewRow(values ...any) Row {
	copied := make([]any, len(values))
	copy(copied, values)
	return Row{values: copied}
}

// Arity returns the number of values in the row.
func (r Row) Arity() int {
	return len(r.values)
}

// Value returns the value at the given column ordinal.
func (r Row) Value(i int) any {
	return r.values[i]
}

// Values returns a copy of the row's values.
func (r Row) Values() []any {
	copied := make([]any, len(r.values))
	copy(copied, r.values)
	return copied
}

// Conforms checks that the row matches the schema: same arity, and every
// value assignable to its column's type.
func (r Row) Conforms(schema *Schema) error {
	if len(r.values) != schema.Arity() {
		return fmt.Errorf("row has %d values, schema has %d columns", len(r.values), schema.Arity())
	}
	for i, field := range schema.Fields() {
		if err := CheckValue(r.values[i], schema.Type(field)); err != nil {
			return fmt.Errorf("column %q: %w", field, err)
		}
	}
	return nil
}

// CheckValue verifies that a value is assignable to a column of the given
// type.
func CheckValue(value any, fieldType types.SchemaType) error {
	var ok bool
	switch fieldType {
	case types.Integer:
		_, ok = value.(int)
	case types.Long:
		_, ok = value.(int64)
	case types.Double:
		_, ok = value.(float64)
	case types.Varchar:
		_, ok = value.(string)
	case types.Boolean:
		_, ok = value.(bool)
	}
	if !ok {
		return fmt.Errorf("value %v (%T) is not a %s", value, value, fieldType)
	}
	return nil
}

// String returns a compact representation of the row, mainly for logs
// and error messages.
func (r Row) String() string {
	return fmt.Sprintf("%v", r.values)
}
