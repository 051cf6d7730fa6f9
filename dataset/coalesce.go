package dataset

import (
	"github.com/quiverdb/quiver/plan"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
)

// Coalesce narrows the dataset to n partitions by merging contiguous
// partition ranges. The ranges are as even as possible: earlier groups
// receive at most one extra source partition. Row order within each
// merged partition is the concatenation, in original order, of its source
// partitions' rows; no row moves between non-adjacent source partitions,
// which is what makes this operator cheap relative to a repartition.
//
// Coalesce only narrows: n must satisfy 1 <= n <= PartitionCount. The
// receiver is never modified.
func (d *Dataset) Coalesce(n int) (*Dataset, error) {
	count := len(d.partitions)
	if n < 1 {
		return nil, qerr.New(qerr.InvalidArgument, "coalesce %q: partition count must be at least 1, got %d", d.name, n)
	}
	if n > count {
		return nil, qerr.New(qerr.InvalidArgument, "coalesce %q: cannot widen from %d to %d partitions, coalesce only narrows", d.name, count, n)
	}

	partitions := make([]*Partition, n)
	base := count / n
	extra := count % n
	source := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		group := d.partitions[source : source+size]
		source += size

		if len(group) == 1 {
			// A group of one keeps its row storage, only the index changes.
			partitions[i] = group[0].withIndex(i)
			continue
		}
		merged := make([]record.Row, 0)
		for _, p := range group {
			merged = append(merged, p.Rows()...)
		}
		partitions[i] = NewPartition(i, merged)
	}

	lineage := plan.NewCoalesce(d.lineage, n, d.NumRows())
	return &Dataset{
		name:       d.name,
		schema:     d.schema,
		partitions: partitions,
		lineage:    lineage,
	}, nil
}
