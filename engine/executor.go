package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/quiverdb/quiver/dataset"
	"github.com/quiverdb/quiver/plan"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/query"
	"github.com/quiverdb/quiver/query/functions"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/types"
)

// Execute performs the physical join: a partitioned hash join that builds
// a table over the smaller input and probes it with the partitions of the
// larger input, in parallel. The result has the same partition count as
// the larger input, with each output row assigned to the partition of its
// originating larger-side row, so already co-located data is never
// implicitly shuffled.
//
// If the query carries a pushed-down filter, candidate rows are tested
// before the join probe; a filter that could not be pushed down is
// evaluated against the joined output instead. Execution is all or
// nothing: any failure, including cancellation, returns no dataset.
// Observed partition and row counts are recorded into the physical plan
// tree for later explanation. Execute is idempotent; a second call
// returns the cached result.
func (q *Query) Execute(ctx context.Context) (*dataset.Dataset, error) {
	q.mu.Lock()
	if q.result != nil {
		result := q.result
		q.mu.Unlock()
		return result, nil
	}
	q.mu.Unlock()

	// Resolve the aggregate threshold before touching any join partition.
	// The probe over the filter's dataset is the prerequisite step the
	// predicate depends on.
	var pred *query.Predicate
	if q.filter != nil {
		fn, err := aggregateFor(q.filter)
		if err != nil {
			return nil, err
		}
		scalar, err := functions.Evaluate(ctx, q.filterTarget(), fn)
		if err != nil {
			return nil, err
		}
		threshold := scalar.Partition(0).Row(0).Value(0)
		pred = query.NewPredicateFromTerm(query.NewTerm(
			query.NewFieldExpression(q.filter.Column),
			query.NewConstantExpression(threshold),
			q.filter.Comparator,
		))
	}

	probeSide := q.probeSide()
	buildSide := q.right
	leftIsProbe := probeSide == q.left
	if !leftIsProbe {
		buildSide = q.left
	}

	outSchema, rightKeep := joinedSchema(q.left.Schema(), q.right.Schema())

	// Join keys of distinct numeric types are coerced to float64 so that
	// equal values hash and compare equally across the two sides.
	coerce := q.left.Schema().Type(q.key.LeftColumn) != q.right.Schema().Type(q.key.RightColumn)

	buildKey, probeKey := q.key.RightColumn, q.key.LeftColumn
	if !leftIsProbe {
		buildKey, probeKey = q.key.LeftColumn, q.key.RightColumn
	}

	// Filters pushed below the join apply to the left input, whichever
	// role it plays in the hash join.
	filterOnBuild := q.pushdown && !leftIsProbe
	filterOnProbe := q.pushdown && leftIsProbe
	filterAbove := q.filter != nil && !q.pushdown

	// Build phase: hash every (surviving) build-side row by its key.
	table := make(map[any][]record.Row)
	filteredBuild := 0
	for _, p := range buildSide.Partitions() {
		if err := ctx.Err(); err != nil {
			return nil, qerr.Wrap(qerr.ExecutionError, err, "join %q: cancelled before build partition %d", buildSide.Name(), p.Index())
		}
		for i := 0; i < p.NumRows(); i++ {
			row := p.Row(i)
			if filterOnBuild {
				ok, err := pred.IsSatisfied(buildSide.Schema(), row)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				filteredBuild++
			}
			key, err := extractKey(buildSide.Schema(), row, buildKey, coerce)
			if err != nil {
				return nil, err
			}
			table[key] = append(table[key], row)
		}
	}

	// Probe phase: partitions are independent, so fan out with one
	// goroutine per probe partition and collect per-partition results.
	out := make([][]record.Row, probeSide.PartitionCount())
	filteredProbe := make([]int, probeSide.PartitionCount())
	joined := make([]int, probeSide.PartitionCount())

	g, gctx := errgroup.WithContext(ctx)
	for pi, p := range probeSide.Partitions() {
		pi, p := pi, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return qerr.Wrap(qerr.ExecutionError, err, "join %q: cancelled before probe partition %d", probeSide.Name(), p.Index())
			}
			var rows []record.Row
			for i := 0; i < p.NumRows(); i++ {
				row := p.Row(i)
				if filterOnProbe {
					ok, err := pred.IsSatisfied(probeSide.Schema(), row)
					if err != nil {
						return err
					}
					if !ok {
						continue
					}
					filteredProbe[pi]++
				}
				key, err := extractKey(probeSide.Schema(), row, probeKey, coerce)
				if err != nil {
					return err
				}
				for _, match := range table[key] {
					leftRow, rightRow := row, match
					if !leftIsProbe {
						leftRow, rightRow = match, row
					}
					combined := combineRows(leftRow, rightRow, q.left.Schema().Arity(), rightKeep)
					joined[pi]++
					if filterAbove {
						ok, err := pred.IsSatisfied(outSchema, combined)
						if err != nil {
							return err
						}
						if !ok {
							continue
						}
					}
					rows = append(rows, combined)
				}
			}
			out[pi] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	joinedTotal, finalTotal := 0, 0
	for pi := range out {
		joinedTotal += joined[pi]
		finalTotal += len(out[pi])
	}
	pushdownTotal := filteredBuild
	for _, n := range filteredProbe {
		pushdownTotal += n
	}

	physical := q.annotatePhysical(len(out), joinedTotal, finalTotal, pushdownTotal)

	name := fmt.Sprintf("%s_join_%s", q.left.Name(), q.right.Name())
	result := dataset.FromPartitionRows(name, outSchema, out, physical)

	q.mu.Lock()
	q.physical = physical
	q.result = result
	q.mu.Unlock()
	return result, nil
}

// annotatePhysical clones the logical tree and fills in observed counts.
func (q *Query) annotatePhysical(partitions, joinedRows, finalRows, pushdownRows int) *plan.Node {
	root := q.logical.Clone()

	var joinNode, filterNode, probeNode *plan.Node
	switch {
	case q.filter == nil:
		joinNode = root
	case q.pushdown:
		joinNode = root
		filterNode = joinNode.Children[0]
		probeNode = filterNode.Children[1]
	default:
		filterNode = root
		joinNode = filterNode.Children[0]
		probeNode = filterNode.Children[1]
	}

	joinNode.ActualPartitions = partitions
	joinNode.ActualRows = joinedRows
	if filterNode != nil {
		if q.pushdown {
			filterNode.ActualPartitions = q.left.PartitionCount()
			filterNode.ActualRows = pushdownRows
		} else {
			filterNode.ActualPartitions = partitions
			filterNode.ActualRows = finalRows
		}
	}
	if probeNode != nil {
		probeNode.ActualPartitions = 1
		probeNode.ActualRows = 1
	}
	return root
}

// joinedSchema is the output schema of the join: all left columns, then
// every right column whose name does not collide with a left column. The
// returned indexes are the right-side ordinals that survive.
func joinedSchema(left, right *record.Schema) (*record.Schema, []int) {
	out := record.NewSchema()
	out.AddAll(left)
	var keep []int
	for i, field := range right.Fields() {
		if left.HasField(field) {
			continue
		}
		out.Add(field, right)
		keep = append(keep, i)
	}
	return out, keep
}

// combineRows concatenates a matching pair into one output row.
func combineRows(leftRow, rightRow record.Row, leftArity int, rightKeep []int) record.Row {
	values := make([]any, 0, leftArity+len(rightKeep))
	for i := 0; i < leftArity; i++ {
		values = append(values, leftRow.Value(i))
	}
	for _, i := range rightKeep {
		values = append(values, rightRow.Value(i))
	}
	return record.NewRow(values...)
}

// extractKey reads the join key value from a row, verifying at execution
// time that the value matches the column's declared type. Mismatches on a
// specific row abort the whole join.
func extractKey(schema *record.Schema, row record.Row, column string, coerce bool) (any, error) {
	index := schema.Index(column)
	if index < 0 {
		return nil, qerr.New(qerr.ExecutionError, "join key column %q missing at execution time", column)
	}
	value := row.Value(index)
	if coerce {
		f, ok := types.AsFloat64(value)
		if !ok {
			return nil, qerr.New(qerr.ExecutionError, "join key column %q: value %v (%T) cannot be coerced to a numeric key", column, value, value)
		}
		return f, nil
	}
	if err := record.CheckValue(value, schema.Type(column)); err != nil {
		return nil, qerr.Wrap(qerr.ExecutionError, err, "join key column %q: row value does not match declared type", column)
	}
	return value, nil
}
