package engine

import (
	"fmt"
	"sync"

	"github.com/quiverdb/quiver/dataset"
	"github.com/quiverdb/quiver/plan"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/query/functions"
	"github.com/quiverdb/quiver/types"
)

// JoinKey references one column in each side's schema that must compare
// equal. Both columns must exist and be type-compatible, or planning
// fails.
type JoinKey struct {
	LeftColumn  string
	RightColumn string
}

// FilterSpec describes an aggregate-derived filter: the named column is
// compared against a scalar aggregate computed over the column's dataset.
type FilterSpec struct {
	Column     string
	Aggregate  string
	Comparator types.Operator
}

// filterSide records which input the filter predicate is bound to.
type filterSide int

const (
	filterNone filterSide = iota
	filterLeft
	filterRight
)

// Query is a planned join between two datasets. Plan builds it as a
// pure, inspectable structure; Execute is the only phase with side
// effects. A Query can be explained before execution (logical plan only)
// and after (both plans).
type Query struct {
	left   *dataset.Dataset
	right  *dataset.Dataset
	key    JoinKey
	filter *FilterSpec

	// side the filter column binds to, and whether the predicate is
	// pushed below the join. Pushdown happens when the predicate
	// references only the left side and is independent of the join
	// output.
	side     filterSide
	pushdown bool

	logical *plan.Node

	mu       sync.Mutex
	physical *plan.Node
	result   *dataset.Dataset
}

// Plan builds the logical plan for an inner equi-join of left and right
// on the given key, with an optional aggregate-derived filter. All
// schema and predicate checks run eagerly here, before any partition is
// touched.
func Plan(left, right *dataset.Dataset, key JoinKey, filter *FilterSpec) (*Query, error) {
	if !left.Schema().HasField(key.LeftColumn) {
		return nil, qerr.New(qerr.SchemaError, "join key column %q not found in dataset %q", key.LeftColumn, left.Name())
	}
	if !right.Schema().HasField(key.RightColumn) {
		return nil, qerr.New(qerr.SchemaError, "join key column %q not found in dataset %q", key.RightColumn, right.Name())
	}
	leftType := left.Schema().Type(key.LeftColumn)
	rightType := right.Schema().Type(key.RightColumn)
	if !types.Compatible(leftType, rightType) {
		return nil, qerr.New(qerr.SchemaError, "join key columns %q (%s) and %q (%s) are not type-compatible",
			key.LeftColumn, leftType, key.RightColumn, rightType)
	}

	q := &Query{left: left, right: right, key: key, filter: filter}

	var probeNode *plan.Node
	if filter != nil {
		if !filter.Comparator.IsRange() {
			return nil, qerr.New(qerr.InvalidArgument, "filter comparator %q must be one of <, <=, >, >=", filter.Comparator)
		}
		switch {
		case left.Schema().HasField(filter.Column):
			q.side = filterLeft
			q.pushdown = true
		case right.Schema().HasField(filter.Column):
			// A right-side predicate is evaluated against the joined
			// output; only left-side predicates are pushed below the join.
			q.side = filterRight
			q.pushdown = false
		default:
			return nil, qerr.New(qerr.ValidationError, "filter column %q not found in dataset %q or %q", filter.Column, left.Name(), right.Name())
		}

		fn, err := aggregateFor(filter)
		if err != nil {
			return nil, err
		}
		target := q.filterTarget()
		if err := fn.Validate(target.Schema()); err != nil {
			return nil, qerr.Wrap(qerr.KindOf(err), err, "filter aggregate %s over dataset %q", fn.Describe(), target.Name())
		}
		probeNode = plan.NewAggregateProbe(fmt.Sprintf("%s over %s", fn.Describe(), target.Name()), target.Plan())
	}

	q.logical = q.buildLogical(probeNode)
	return q, nil
}

// filterTarget returns the dataset the filter predicate is bound to.
func (q *Query) filterTarget() *dataset.Dataset {
	if q.side == filterRight {
		return q.right
	}
	return q.left
}

// buildLogical assembles the plan tree. With pushdown the filter sits
// below the join on the left input; otherwise it sits above the join.
func (q *Query) buildLogical(probeNode *plan.Node) *plan.Node {
	joinDesc := fmt.Sprintf("%s.%s = %s.%s", q.left.Name(), q.key.LeftColumn, q.right.Name(), q.key.RightColumn)
	estParts := q.probeSide().PartitionCount()

	if q.filter == nil {
		return plan.NewJoin(joinDesc, estParts, q.left.Plan(), q.right.Plan())
	}

	filterDesc := fmt.Sprintf("%s %s %s(%s)", q.filter.Column, q.filter.Comparator, q.filter.Aggregate, q.filter.Column)
	if q.pushdown {
		filterNode := plan.NewFilter(filterDesc, q.left.PartitionCount(), q.left.Plan(), probeNode)
		return plan.NewJoin(joinDesc, estParts, filterNode, q.right.Plan())
	}
	joinNode := plan.NewJoin(joinDesc, estParts, q.left.Plan(), q.right.Plan())
	return plan.NewFilter(filterDesc, estParts, joinNode, probeNode)
}

// probeSide returns the input with more rows. The result is partitioned
// like this side, and the hash join probes it with a table built over the
// other side. Ties go to the left input.
func (q *Query) probeSide() *dataset.Dataset {
	if q.right.NumRows() > q.left.NumRows() {
		return q.right
	}
	return q.left
}

// Logical returns the logical plan tree built at planning time.
func (q *Query) Logical() *plan.Node {
	return q.logical
}

// Result returns the dataset produced by Execute, or nil before
// execution.
func (q *Query) Result() *dataset.Dataset {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.result
}

// Explain renders the query's plan tree(s). Logical mode works before
// execution; physical and both require the query to have been executed.
func (q *Query) Explain(mode plan.ExplainMode) (string, error) {
	q.mu.Lock()
	physical := q.physical
	q.mu.Unlock()
	return plan.Explain(q.logical, physical, mode)
}

// aggregateFor maps a FilterSpec to its aggregation function.
func aggregateFor(filter *FilterSpec) (functions.AggregationFunction, error) {
	switch filter.Aggregate {
	case "mean", "avg":
		return functions.NewAvgFunction(filter.Column), nil
	case "sum":
		return functions.NewSumFunction(filter.Column), nil
	case "count":
		return functions.NewCountFunction(filter.Column), nil
	case "min":
		return functions.NewMinFunction(filter.Column), nil
	case "max":
		return functions.NewMaxFunction(filter.Column), nil
	default:
		return nil, qerr.New(qerr.InvalidArgument, "unsupported filter aggregate %q", filter.Aggregate)
	}
}
