package functions

import (
	"fmt"

	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/types"
)

var _ AggregationFunction = &CountFunction{}

const countFunctionPrefix = "countOf"

// CountFunction counts the rows of a column of any type.
type CountFunction struct {
	fieldName string
	count     int64
}

// NewCountFunction creates a new count aggregation function for the specified column.
func NewCountFunction(fieldName string) *CountFunction {
	return &CountFunction{fieldName: fieldName}
}

// Validate checks that the column exists. Count works on any type.
func (f *CountFunction) Validate(schema *record.Schema) error {
	if !schema.HasField(f.fieldName) {
		return qerr.New(qerr.SchemaError, "aggregate column %q not found", f.fieldName)
	}
	return nil
}

// ProcessFirst resets the count to one.
func (f *CountFunction) ProcessFirst(_ *record.Schema, _ record.Row) error {
	f.count = 1
	return nil
}

// ProcessNext increments the count.
func (f *CountFunction) ProcessNext(_ *record.Schema, _ record.Row) error {
	f.count++
	return nil
}

// FieldName returns the column's name, prepended by countFunctionPrefix.
func (f *CountFunction) FieldName() string {
	return countFunctionPrefix + f.fieldName
}

// Describe returns the display form of the aggregate.
func (f *CountFunction) Describe() string {
	return fmt.Sprintf("count(%s)", f.fieldName)
}

// OutputType returns the type of the scalar result.
func (f *CountFunction) OutputType(_ *record.Schema) types.SchemaType {
	return types.Long
}

// Value returns the current count.
func (f *CountFunction) Value() any {
	return f.count
}
