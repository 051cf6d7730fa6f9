package dataset

import "github.com/quiverdb/quiver/record"

// Partition is an ordered, immutable sequence of rows tagged with its
// index within the owning dataset's current partitioning. Transformations
// never mutate a partition in place; they produce new partitions.
type Partition struct {
	index int
	rows  []record.Row
}

// NewPartition creates a partition with the given index and rows. The row
// slice is not copied; callers hand over ownership.
func NewPartition(index int, rows []record.Row) *Partition {
	return &Partition{index: index, rows: rows}
}

// Index returns the partition's index within its owning dataset.
func (p *Partition) Index() int {
	return p.index
}

// NumRows returns the number of rows in the partition.
func (p *Partition) NumRows() int {
	return len(p.rows)
}

// Row returns the row at the given position within the partition.
func (p *Partition) Row(i int) record.Row {
	return p.rows[i]
}

// Rows returns the partition's rows in order. The returned slice is the
// partition's backing storage and must not be modified.
func (p *Partition) Rows() []record.Row {
	return p.rows
}

// withIndex returns a partition holding the same rows under a new index.
// Used when a dataset renumbers partitions after coalesce.
func (p *Partition) withIndex(index int) *Partition {
	return &Partition{index: index, rows: p.rows}
}
