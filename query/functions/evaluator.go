package functions

import (
	"context"
	"fmt"

	"github.com/quiverdb/quiver/dataset"
	"github.com/quiverdb/quiver/plan"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
)

// Evaluate computes a scalar aggregate over every partition of the
// dataset and binds the result to a synthetic single-row, single-column
// dataset, so the scalar can be referenced symbolically inside a later
// predicate. The scan is read-only; cancellation is checked before each
// partition. Validation failures (missing or ill-typed column) surface
// before any row is read.
func Evaluate(ctx context.Context, d *dataset.Dataset, fn AggregationFunction) (*dataset.Dataset, error) {
	schema := d.Schema()
	if err := fn.Validate(schema); err != nil {
		return nil, qerr.Wrap(qerr.KindOf(err), err, "aggregate %s over dataset %q", fn.Describe(), d.Name())
	}

	first := true
	for _, p := range d.Partitions() {
		if err := ctx.Err(); err != nil {
			return nil, qerr.Wrap(qerr.ExecutionError, err, "aggregate %s over %q: cancelled before partition %d", fn.Describe(), d.Name(), p.Index())
		}
		for i := 0; i < p.NumRows(); i++ {
			var err error
			if first {
				err = fn.ProcessFirst(schema, p.Row(i))
				first = false
			} else {
				err = fn.ProcessNext(schema, p.Row(i))
			}
			if err != nil {
				return nil, err
			}
		}
	}

	resultSchema := record.NewSchema()
	resultSchema.AddField(fn.FieldName(), fn.OutputType(schema))

	probe := plan.NewAggregateProbe(fmt.Sprintf("%s over %s", fn.Describe(), d.Name()), d.Plan())
	probe.ActualPartitions = 1
	probe.ActualRows = 1

	name := fmt.Sprintf("%s_%s", d.Name(), fn.FieldName())
	rows := [][]record.Row{{record.NewRow(fn.Value())}}
	return dataset.FromPartitionRows(name, resultSchema, rows, probe), nil
}
