package types

import "fmt"

// Operator is the type of comparison Operator used in a predicate term.
type Operator int

const (
	NONE Operator = -1
	// EQ is the equal Operator.
	EQ Operator = iota
	// NE is the not equal Operator.
	NE
	// LT is the less than Operator.
	LT
	// LE is the less than or equal Operator.
	LE
	// GT is the greater than Operator.
	GT
	// GE is the greater than or equal Operator.
	GE
)

// String returns the string representation of the Operator.
func (op Operator) String() string {
	switch op {
	case EQ:
		return "="
	case NE:
		return "<>"
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	default:
		return ""
	}
}

// OperatorFromString returns the Operator from the given string.
func OperatorFromString(op string) (Operator, error) {
	switch op {
	case "=":
		return EQ, nil
	case "<>", "!=":
		return NE, nil
	case "<":
		return LT, nil
	case "<=":
		return LE, nil
	case ">":
		return GT, nil
	case ">=":
		return GE, nil
	default:
		return NONE, fmt.Errorf("invalid operator: %s", op)
	}
}

// IsRange reports whether the operator is an ordering comparison,
// i.e. one of <, <=, >, >=.
func (op Operator) IsRange() bool {
	switch op {
	case LT, LE, GT, GE:
		return true
	default:
		return false
	}
}
