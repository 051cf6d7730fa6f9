package query

import (
	"fmt"

	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/types"
)

// Term is a comparison between two expressions.
type Term struct {
	lhs *Expression
	rhs *Expression
	op  types.Operator
}

// NewTerm creates a new term comparing lhs against rhs with the given
// operator.
func NewTerm(lhs, rhs *Expression, op types.Operator) *Term {
	return &Term{lhs: lhs, rhs: rhs, op: op}
}

// IsSatisfied evaluates both sides against the row and applies the
// operator. Numeric values of different widths are coerced before
// comparison.
func (t *Term) IsSatisfied(schema *record.Schema, row record.Row) (bool, error) {
	lhsVal, err := t.lhs.Evaluate(schema, row)
	if err != nil {
		return false, err
	}
	rhsVal, err := t.rhs.Evaluate(schema, row)
	if err != nil {
		return false, err
	}
	return types.CompareSupportedTypes(lhsVal, rhsVal, t.op), nil
}

// AppliesTo determines if both sides of the term reference only columns
// contained in the specified schema.
func (t *Term) AppliesTo(schema *record.Schema) bool {
	return t.lhs.AppliesTo(schema) && t.rhs.AppliesTo(schema)
}

// String returns a string representation of the term.
func (t *Term) String() string {
	return fmt.Sprintf("%s %s %s", t.lhs, t.op, t.rhs)
}
