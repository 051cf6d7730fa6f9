package types

import (
	"hash/fnv"
	"math"
)

// Hash returns a non-negative hash for a column value. It is the
// assignment function for key-hash repartitioning, so it must be
// deterministic across processes and runs.
func Hash(value any) int {
	if value == nil {
		return 0
	}

	switch v := value.(type) {
	case int:
		return nonNegative(v)
	case int64:
		return nonNegative(int(v))
	case float64:
		return nonNegative(int(math.Float64bits(v)))
	case string:
		h := fnv.New32a()
		_, _ = h.Write([]byte(v))
		return nonNegative(int(h.Sum32()))
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func nonNegative(h int) int {
	if h < 0 {
		return -(h + 1)
	}
	return h
}
