package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/plan"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
)

func TestCoalesce_MergesContiguousPartitions(t *testing.T) {
	rows := testRows(10)
	d, err := New("events", testSchema(), rows, 5)
	require.NoError(t, err)

	c, err := d.Coalesce(2)
	require.NoError(t, err)
	require.Equal(t, 2, c.PartitionCount())

	// 5 source partitions into 2 groups: the first group takes the one
	// extra source, so the split is [0,1,2] and [3,4].
	var firstGroup []record.Row
	for i := 0; i < 3; i++ {
		firstGroup = append(firstGroup, d.Partition(i).Rows()...)
	}
	var secondGroup []record.Row
	for i := 3; i < 5; i++ {
		secondGroup = append(secondGroup, d.Partition(i).Rows()...)
	}
	assert.Equal(t, firstGroup, c.Partition(0).Rows())
	assert.Equal(t, secondGroup, c.Partition(1).Rows())

	// Coalesce preserves the logical row sequence, not just the multiset.
	assert.Equal(t, rows, c.Rows())
	for i, p := range c.Partitions() {
		assert.Equal(t, i, p.Index())
	}
}

func TestCoalesce_ToSameCountIsNoOp(t *testing.T) {
	d, err := New("events", testSchema(), testRows(6), 3)
	require.NoError(t, err)

	c, err := d.Coalesce(3)
	require.NoError(t, err)
	require.Equal(t, 3, c.PartitionCount())
	for i := 0; i < 3; i++ {
		assert.Equal(t, d.Partition(i).Rows(), c.Partition(i).Rows())
	}
	assert.Equal(t, d.Rows(), c.Rows())
}

func TestCoalesce_RejectsWidening(t *testing.T) {
	d, err := New("events", testSchema(), testRows(4), 2)
	require.NoError(t, err)

	_, err = d.Coalesce(3)
	require.Error(t, err)
	assert.True(t, qerr.IsKind(err, qerr.InvalidArgument))
	assert.Contains(t, err.Error(), "narrows")

	// The original dataset is unaffected.
	assert.Equal(t, 2, d.PartitionCount())
}

func TestCoalesce_RejectsBadCount(t *testing.T) {
	d, err := New("events", testSchema(), testRows(4), 2)
	require.NoError(t, err)

	for _, n := range []int{0, -2} {
		_, err := d.Coalesce(n)
		require.Error(t, err)
		assert.True(t, qerr.IsKind(err, qerr.InvalidArgument))
	}
}

func TestCoalesce_LineageHasNoMovement(t *testing.T) {
	d, err := New("events", testSchema(), testRows(6), 3)
	require.NoError(t, err)

	c, err := d.Coalesce(1)
	require.NoError(t, err)

	node := c.Plan()
	require.Equal(t, plan.Coalesce, node.Type)
	assert.False(t, node.FullMovement)
	assert.Equal(t, 1, node.ActualPartitions)
	require.Len(t, node.Children, 1)
	assert.Equal(t, plan.Scan, node.Children[0].Type)
}
