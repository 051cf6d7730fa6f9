package dataset

import (
	"github.com/quiverdb/quiver/plan"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
)

// Dataset is a named collection of partitions sharing one schema. A
// dataset is immutable once constructed: repartition, coalesce, and join
// all produce new Dataset instances, so concurrent readers need no
// locking. Partition indexes are contiguous from 0 to count-1 at all
// times, and the union of all partitions' rows, taken in partition then
// row order, is the dataset's logical row sequence.
type Dataset struct {
	name       string
	schema     *record.Schema
	partitions []*Partition
	lineage    *plan.Node
}

// New creates a dataset from a logical row sequence, splitting it into
// numPartitions contiguous chunks (earlier partitions receive at most one
// extra row). Every row must conform to the schema, and column names must
// be unique.
func New(name string, schema *record.Schema, rows []record.Row, numPartitions int) (*Dataset, error) {
	if numPartitions < 1 {
		return nil, qerr.New(qerr.InvalidArgument, "dataset %q: partition count must be at least 1, got %d", name, numPartitions)
	}
	if schema.HasDuplicates() {
		return nil, qerr.New(qerr.SchemaError, "dataset %q: schema contains duplicate column names", name)
	}
	for i, row := range rows {
		if err := row.Conforms(schema); err != nil {
			return nil, qerr.Wrap(qerr.SchemaError, err, "dataset %q: row %d does not conform to schema", name, i)
		}
	}

	partitions := make([]*Partition, numPartitions)
	base := len(rows) / numPartitions
	extra := len(rows) % numPartitions
	offset := 0
	for i := 0; i < numPartitions; i++ {
		size := base
		if i < extra {
			size++
		}
		partitions[i] = NewPartition(i, rows[offset:offset+size])
		offset += size
	}

	return &Dataset{
		name:       name,
		schema:     schema,
		partitions: partitions,
		lineage:    plan.NewScan(name, numPartitions, len(rows)),
	}, nil
}

// FromPartitionRows assembles a dataset from per-partition row slices
// produced by an operator. The lineage node describes the operator that
// produced the dataset. Rows are assumed to already conform to the
// schema.
func FromPartitionRows(name string, schema *record.Schema, partitionRows [][]record.Row, lineage *plan.Node) *Dataset {
	partitions := make([]*Partition, len(partitionRows))
	for i, rows := range partitionRows {
		partitions[i] = NewPartition(i, rows)
	}
	return &Dataset{
		name:       name,
		schema:     schema,
		partitions: partitions,
		lineage:    lineage,
	}
}

// Name returns the dataset's name, used for plan display and catalog
// lookups.
func (d *Dataset) Name() string {
	return d.name
}

// Schema returns the dataset's schema.
func (d *Dataset) Schema() *record.Schema {
	return d.schema
}

// PartitionCount returns the current number of partitions.
func (d *Dataset) PartitionCount() int {
	return len(d.partitions)
}

// Partition returns the partition at the given index.
func (d *Dataset) Partition(i int) *Partition {
	return d.partitions[i]
}

// Partitions returns the dataset's partitions in index order. The
// returned slice must not be modified.
func (d *Dataset) Partitions() []*Partition {
	return d.partitions
}

// NumRows returns the total number of rows across all partitions.
func (d *Dataset) NumRows() int {
	total := 0
	for _, p := range d.partitions {
		total += p.NumRows()
	}
	return total
}

// Rows returns the dataset's logical row sequence: all partitions' rows
// concatenated in partition then row order.
func (d *Dataset) Rows() []record.Row {
	rows := make([]record.Row, 0, d.NumRows())
	for _, p := range d.partitions {
		rows = append(rows, p.Rows()...)
	}
	return rows
}

// Plan returns the lineage node describing how this dataset was
// produced. Join planning attaches it as a child of the join's plan
// tree, so layout operators applied to an input show up in explain
// output.
func (d *Dataset) Plan() *plan.Node {
	return d.lineage
}
