package functions

import (
	"fmt"

	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/types"
)

var _ AggregationFunction = &AvgFunction{}

const avgFunctionPrefix = "avgOf"

// AvgFunction computes the arithmetic mean of a numeric column.
type AvgFunction struct {
	fieldName string
	sum       float64
	count     int64
}

// NewAvgFunction creates a new avg aggregation function for the specified column.
func NewAvgFunction(fieldName string) *AvgFunction {
	return &AvgFunction{fieldName: fieldName}
}

// Validate checks that the column exists and is numeric.
func (f *AvgFunction) Validate(schema *record.Schema) error {
	return validateNumericField(schema, f.fieldName)
}

// ProcessFirst sets the initial sum and count.
func (f *AvgFunction) ProcessFirst(schema *record.Schema, row record.Row) error {
	val, err := numericValue(schema, row, f.fieldName)
	if err != nil {
		return err
	}
	f.sum = val
	f.count = 1
	return nil
}

// ProcessNext adds the column value to the sum and increments the count.
func (f *AvgFunction) ProcessNext(schema *record.Schema, row record.Row) error {
	val, err := numericValue(schema, row, f.fieldName)
	if err != nil {
		return err
	}
	f.sum += val
	f.count++
	return nil
}

// FieldName returns the column's name, prepended by avgFunctionPrefix.
func (f *AvgFunction) FieldName() string {
	return avgFunctionPrefix + f.fieldName
}

// Describe returns the display form of the aggregate.
func (f *AvgFunction) Describe() string {
	return fmt.Sprintf("avg(%s)", f.fieldName)
}

// OutputType returns the type of the scalar result.
func (f *AvgFunction) OutputType(_ *record.Schema) types.SchemaType {
	return types.Double
}

// Value returns the current average as a float64.
func (f *AvgFunction) Value() any {
	if f.count == 0 {
		return float64(0)
	}
	return f.sum / float64(f.count)
}
