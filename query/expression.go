package query

import (
	"fmt"

	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
)

// Expression is either a column reference or a constant value.
type Expression struct {
	value     any
	fieldName string
}

// NewFieldExpression creates a new expression for a column name.
func NewFieldExpression(fieldName string) *Expression {
	return &Expression{value: nil, fieldName: fieldName}
}

// NewConstantExpression creates a new expression for a constant value.
func NewConstantExpression(value any) *Expression {
	return &Expression{value: value, fieldName: ""}
}

// Evaluate the expression against a row under the given schema.
func (e *Expression) Evaluate(schema *record.Schema, row record.Row) (any, error) {
	if e.fieldName == "" {
		return e.value, nil
	}
	index := schema.Index(e.fieldName)
	if index < 0 {
		return nil, qerr.New(qerr.ExecutionError, "column %q not found in schema", e.fieldName)
	}
	return row.Value(index), nil
}

// IsFieldName returns true if the expression is a column reference.
func (e *Expression) IsFieldName() bool {
	return e.fieldName != ""
}

// FieldName returns the column name if the expression is a column
// reference, or an empty string otherwise.
func (e *Expression) FieldName() string {
	return e.fieldName
}

// AppliesTo determines if all the columns mentioned in this expression
// are contained in the specified schema.
func (e *Expression) AppliesTo(schema *record.Schema) bool {
	return e.fieldName == "" || schema.HasField(e.fieldName)
}

func (e *Expression) String() string {
	if e.fieldName != "" {
		return e.fieldName
	}
	return fmt.Sprintf("%v", e.value)
}
