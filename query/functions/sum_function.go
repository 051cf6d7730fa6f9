package functions

import (
	"fmt"

	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/types"
)

var _ AggregationFunction = &SumFunction{}

const sumFunctionPrefix = "sumOf"

// SumFunction computes the sum of a numeric column.
type SumFunction struct {
	fieldName string
	sum       float64
}

// NewSumFunction creates a new sum aggregation function for the specified column.
func NewSumFunction(fieldName string) *SumFunction {
	return &SumFunction{fieldName: fieldName}
}

// Validate checks that the column exists and is numeric.
func (f *SumFunction) Validate(schema *record.Schema) error {
	return validateNumericField(schema, f.fieldName)
}

// ProcessFirst sets the initial sum.
func (f *SumFunction) ProcessFirst(schema *record.Schema, row record.Row) error {
	val, err := numericValue(schema, row, f.fieldName)
	if err != nil {
		return err
	}
	f.sum = val
	return nil
}

// ProcessNext adds the column value to the sum.
func (f *SumFunction) ProcessNext(schema *record.Schema, row record.Row) error {
	val, err := numericValue(schema, row, f.fieldName)
	if err != nil {
		return err
	}
	f.sum += val
	return nil
}

// FieldName returns the column's name, prepended by sumFunctionPrefix.
func (f *SumFunction) FieldName() string {
	return sumFunctionPrefix + f.fieldName
}

// Describe returns the display form of the aggregate.
func (f *SumFunction) Describe() string {
	return fmt.Sprintf("sum(%s)", f.fieldName)
}

// OutputType returns the type of the scalar result.
func (f *SumFunction) OutputType(_ *record.Schema) types.SchemaType {
	return types.Double
}

// Value returns the current sum.
func (f *SumFunction) Value() any {
	return f.sum
}
