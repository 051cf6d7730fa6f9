package functions

import (
	"fmt"

	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/types"
)

var _ AggregationFunction = &MaxFunction{}

const maxFunctionPrefix = "maxOf"

// MaxFunction tracks the largest value of a column. Works on any
// orderable column type.
type MaxFunction struct {
	fieldName string
	max       any
}

// NewMaxFunction creates a new max aggregation function for the specified column.
func NewMaxFunction(fieldName string) *MaxFunction {
	return &MaxFunction{fieldName: fieldName}
}

// Validate checks that the column exists.
func (f *MaxFunction) Validate(schema *record.Schema) error {
	if !schema.HasField(f.fieldName) {
		return qerr.New(qerr.SchemaError, "aggregate column %q not found", f.fieldName)
	}
	return nil
}

// ProcessFirst sets the initial maximum.
func (f *MaxFunction) ProcessFirst(schema *record.Schema, row record.Row) error {
	index := schema.Index(f.fieldName)
	f.max = row.Value(index)
	return nil
}

// ProcessNext replaces the maximum if the column value is larger.
func (f *MaxFunction) ProcessNext(schema *record.Schema, row record.Row) error {
	index := schema.Index(f.fieldName)
	val := row.Value(index)
	if types.CompareSupportedTypes(val, f.max, types.GT) {
		f.max = val
	}
	return nil
}

// FieldName returns the column's name, prepended by maxFunctionPrefix.
func (f *MaxFunction) FieldName() string {
	return maxFunctionPrefix + f.fieldName
}

// Describe returns the display form of the aggregate.
func (f *MaxFunction) Describe() string {
	return fmt.Sprintf("max(%s)", f.fieldName)
}

// OutputType returns the type of the source column.
func (f *MaxFunction) OutputType(schema *record.Schema) types.SchemaType {
	return schema.Type(f.fieldName)
}

// Value returns the current maximum.
func (f *MaxFunction) Value() any {
	return f.max
}
