package dataset

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/quiverdb/quiver/plan"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/types"
)

type repartitionConfig struct {
	hashKey string
}

// RepartitionOption configures a repartition operation.
type RepartitionOption func(*repartitionConfig)

// WithHashKey switches row assignment from round-robin to hashing the
// given column, so that rows with equal key values land in the same
// target partition.
func WithHashKey(column string) RepartitionOption {
	return func(cfg *repartitionConfig) {
		cfg.hashKey = column
	}
}

// Repartition redistributes all rows across exactly n new partitions.
// Assignment is deterministic: round-robin over the dataset's logical row
// order by default, or key-hash when WithHashKey is given. This is a full
// redistribution; its cost is proportional to the total row count and the
// resulting plan node is tagged as requiring full data movement.
//
// Source partitions are processed in parallel, one goroutine per
// partition, with cancellation checked before each partition's work
// begins. A cancelled repartition returns no dataset; the receiver is
// never modified.
func (d *Dataset) Repartition(ctx context.Context, n int, opts ...RepartitionOption) (*Dataset, error) {
	if n < 1 {
		return nil, qerr.New(qerr.InvalidArgument, "repartition %q: partition count must be at least 1, got %d", d.name, n)
	}

	var cfg repartitionConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	keyIndex := -1
	if cfg.hashKey != "" {
		keyIndex = d.schema.Index(cfg.hashKey)
		if keyIndex < 0 {
			return nil, qerr.New(qerr.SchemaError, "repartition %q: hash key column %q not found", d.name, cfg.hashKey)
		}
	}

	// Each source partition needs the number of rows preceding it so that
	// round-robin assignment follows the dataset's logical row order.
	offsets := make([]int, len(d.partitions))
	total := 0
	for i, p := range d.partitions {
		offsets[i] = total
		total += p.NumRows()
	}

	// Fan out over source partitions; each produces its own target
	// buckets so no synchronization is needed beyond the final merge.
	buckets := make([][][]record.Row, len(d.partitions))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range d.partitions {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return qerr.Wrap(qerr.ExecutionError, err, "repartition %q: cancelled before partition %d", d.name, p.Index())
			}
			local := make([][]record.Row, n)
			for j := 0; j < p.NumRows(); j++ {
				row := p.Row(j)
				var target int
				if keyIndex >= 0 {
					target = types.Hash(row.Value(keyIndex)) % n
				} else {
					target = (offsets[i] + j) % n
				}
				local[target] = append(local[target], row)
			}
			buckets[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge in source-partition order to keep the assignment
	// deterministic regardless of goroutine scheduling.
	target := make([][]record.Row, n)
	for t := 0; t < n; t++ {
		for i := range buckets {
			target[t] = append(target[t], buckets[i][t]...)
		}
	}

	lineage := plan.NewRepartition(d.lineage, n, total)
	return FromPartitionRows(d.name, d.schema, target, lineage), nil
}
