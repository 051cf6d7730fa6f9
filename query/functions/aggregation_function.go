package functions

import (
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/types"
)

// AggregationFunction computes a scalar over a sequence of rows.
// ProcessFirst is called with the first row of the sequence and
// ProcessNext with every subsequent row; Value returns the accumulated
// scalar.
type AggregationFunction interface {
	// Validate eagerly checks that the function can run against the
	// schema, before any row is touched.
	Validate(schema *record.Schema) error

	// ProcessFirst resets the accumulator with the first row.
	ProcessFirst(schema *record.Schema, row record.Row) error

	// ProcessNext folds one more row into the accumulator.
	ProcessNext(schema *record.Schema, row record.Row) error

	// FieldName returns the output column name, e.g. "avgOflikes".
	FieldName() string

	// Describe returns the display form of the aggregate, e.g. "avg(likes)".
	Describe() string

	// OutputType returns the column type of the scalar result.
	OutputType(schema *record.Schema) types.SchemaType

	// Value returns the accumulated scalar.
	Value() any
}

// validateNumericField checks that the column exists and is numeric.
func validateNumericField(schema *record.Schema, fieldName string) error {
	if !schema.HasField(fieldName) {
		return qerr.New(qerr.SchemaError, "aggregate column %q not found", fieldName)
	}
	if !schema.Type(fieldName).IsNumeric() {
		return qerr.New(qerr.SchemaError, "aggregate column %q has non-numeric type %s", fieldName, schema.Type(fieldName))
	}
	return nil
}

// numericValue extracts the column's value from the row as float64.
// A value that cannot be coerced is an execution-time failure: the schema
// said the column was numeric, but this particular row disagrees.
func numericValue(schema *record.Schema, row record.Row, fieldName string) (float64, error) {
	index := schema.Index(fieldName)
	if index < 0 {
		return 0, qerr.New(qerr.SchemaError, "aggregate column %q not found", fieldName)
	}
	value, ok := types.AsFloat64(row.Value(index))
	if !ok {
		return 0, qerr.New(qerr.ExecutionError, "column %q: value %v (%T) is not numeric", fieldName, row.Value(index), row.Value(index))
	}
	return value, nil
}
