package types

// AsFloat64 coerces a numeric value to float64. It returns false for
// non-numeric values.
func AsFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// CompareSupportedTypes handles comparison for supported value types.
// Values of distinct numeric types are coerced to float64 before
// comparison, so an integer column value can be compared against a float
// aggregate threshold. Comparisons involving nil always return false.
func CompareSupportedTypes(lhs, rhs any, op Operator) bool {
	if lhs == nil || rhs == nil {
		return false
	}

	switch l := lhs.(type) {
	case int:
		if r, ok := rhs.(int); ok {
			return compareOrdered(l, r, op)
		}
	case int64:
		if r, ok := rhs.(int64); ok {
			return compareOrdered(l, r, op)
		}
	case float64:
		if r, ok := rhs.(float64); ok {
			return compareOrdered(l, r, op)
		}
	case string:
		if r, ok := rhs.(string); ok {
			return compareOrdered(l, r, op)
		}
	case bool:
		if r, ok := rhs.(bool); ok {
			return compareBools(l, r, op)
		}
	}

	// Mixed numeric types fall through to float64 coercion.
	lf, lok := AsFloat64(lhs)
	rf, rok := AsFloat64(rhs)
	if lok && rok {
		return compareOrdered(lf, rf, op)
	}

	return false
}

func compareOrdered[T int | int64 | float64 | string](lhs, rhs T, op Operator) bool {
	switch op {
	case EQ:
		return lhs == rhs
	case NE:
		return lhs != rhs
	case LT:
		return lhs < rhs
	case LE:
		return lhs <= rhs
	case GT:
		return lhs > rhs
	case GE:
		return lhs >= rhs
	default:
		return false
	}
}

func compareBools(lhs, rhs bool, op Operator) bool {
	switch op {
	case EQ:
		return lhs == rhs
	case NE:
		return lhs != rhs
	default:
		return false
	}
}
