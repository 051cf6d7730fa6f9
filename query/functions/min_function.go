package functions

import (
	"fmt"

	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/types"
)

var _ AggregationFunction = &MinFunction{}

const minFunctionPrefix = "minOf"

// MinFunction tracks the smallest value of a column. Works on any
// orderable column type.
type MinFunction struct {
	fieldName string
	min       any
}

// NewMinFunction creates a new min aggregation function for the specified column.
func NewMinFunction(fieldName string) *MinFunction {
	return &MinFunction{fieldName: fieldName}
}

// Validate checks that the column exists.
func (f *MinFunction) Validate(schema *record.Schema) error {
	if !schema.HasField(f.fieldName) {
		return qerr.New(qerr.SchemaError, "aggregate column %q not found", f.fieldName)
	}
	return nil
}

// ProcessFirst sets the initial minimum.
func (f *MinFunction) ProcessFirst(schema *record.Schema, row record.Row) error {
	index := schema.Index(f.fieldName)
	f.min = row.Value(index)
	return nil
}

// ProcessNext replaces the minimum if the column value is smaller.
func (f *MinFunction) ProcessNext(schema *record.Schema, row record.Row) error {
	index := schema.Index(f.fieldName)
	val := row.Value(index)
	if types.CompareSupportedTypes(val, f.min, types.LT) {
		f.min = val
	}
	return nil
}

// FieldName returns the column's name, prepended by minFunctionPrefix.
func (f *MinFunction) FieldName() string {
	return minFunctionPrefix + f.fieldName
}

// Describe returns the display form of the aggregate.
func (f *MinFunction) Describe() string {
	return fmt.Sprintf("min(%s)", f.fieldName)
}

// OutputType returns the type of the source column.
func (f *MinFunction) OutputType(schema *record.Schema) types.SchemaType {
	return schema.Type(f.fieldName)
}

// Value returns the current minimum.
func (f *MinFunction) Value() any {
	return f.min
}
