package functions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/dataset"
	"github.com/quiverdb/quiver/plan"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/types"
)

// likesDataset builds a dataset with a single numeric column spread
// across multiple partitions.
func likesDataset(t *testing.T, values ...int) *dataset.Dataset {
	t.Helper()
	schema := record.NewSchema()
	schema.AddStringField("id")
	schema.AddIntField("likes")

	rows := make([]record.Row, 0, len(values))
	for i, v := range values {
		rows = append(rows, record.NewRow(string(rune('A'+i)), v))
	}
	d, err := dataset.New("videos", schema, rows, 2)
	require.NoError(t, err)
	return d
}

func TestEvaluate_AvgSpansPartitions(t *testing.T) {
	d := likesDataset(t, 10, 50, 30, 70)

	scalar, err := Evaluate(context.Background(), d, NewAvgFunction("likes"))
	require.NoError(t, err)

	// The result is a synthetic single-partition, single-row dataset.
	require.Equal(t, 1, scalar.PartitionCount())
	require.Equal(t, 1, scalar.NumRows())
	assert.Equal(t, "videos_avgOflikes", scalar.Name())
	assert.Equal(t, []string{"avgOflikes"}, scalar.Schema().Fields())
	assert.Equal(t, types.Double, scalar.Schema().Type("avgOflikes"))
	assert.Equal(t, 40.0, scalar.Partition(0).Row(0).Value(0))

	// Its lineage records the probe over the source's scan.
	node := scalar.Plan()
	require.Equal(t, plan.AggregateProbe, node.Type)
	assert.Equal(t, 1, node.ActualPartitions)
	assert.Equal(t, 1, node.ActualRows)
	require.Len(t, node.Children, 1)
	assert.Equal(t, plan.Scan, node.Children[0].Type)
}

func TestEvaluate_SumCountMinMax(t *testing.T) {
	d := likesDataset(t, 10, 50, 30)

	scalar, err := Evaluate(context.Background(), d, NewSumFunction("likes"))
	require.NoError(t, err)
	assert.Equal(t, 90.0, scalar.Partition(0).Row(0).Value(0))

	scalar, err = Evaluate(context.Background(), d, NewCountFunction("id"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), scalar.Partition(0).Row(0).Value(0))
	assert.Equal(t, types.Long, scalar.Schema().Type("countOfid"))

	scalar, err = Evaluate(context.Background(), d, NewMinFunction("likes"))
	require.NoError(t, err)
	assert.Equal(t, 10, scalar.Partition(0).Row(0).Value(0))
	assert.Equal(t, types.Integer, scalar.Schema().Type("minOflikes"))

	scalar, err = Evaluate(context.Background(), d, NewMaxFunction("likes"))
	require.NoError(t, err)
	assert.Equal(t, 50, scalar.Partition(0).Row(0).Value(0))
}

func TestEvaluate_MissingColumn(t *testing.T) {
	d := likesDataset(t, 10)

	_, err := Evaluate(context.Background(), d, NewAvgFunction("dislikes"))
	require.Error(t, err)
	assert.True(t, qerr.IsKind(err, qerr.SchemaError))
	assert.Contains(t, err.Error(), "dislikes")
	assert.Contains(t, err.Error(), "videos")
}

func TestEvaluate_NonNumericColumn(t *testing.T) {
	d := likesDataset(t, 10)

	// avg over a varchar column fails validation before any row is read.
	_, err := Evaluate(context.Background(), d, NewAvgFunction("id"))
	require.Error(t, err)
	assert.True(t, qerr.IsKind(err, qerr.SchemaError))

	// count accepts any column type.
	_, err = Evaluate(context.Background(), d, NewCountFunction("id"))
	require.NoError(t, err)
}

func TestEvaluate_Cancelled(t *testing.T) {
	d := likesDataset(t, 10, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Evaluate(ctx, d, NewAvgFunction("likes"))
	require.Error(t, err)
	assert.True(t, qerr.IsKind(err, qerr.ExecutionError))
}

func TestAvgFunction_EmptyInput(t *testing.T) {
	d, err := dataset.New("empty", func() *record.Schema {
		s := record.NewSchema()
		s.AddIntField("likes")
		return s
	}(), nil, 1)
	require.NoError(t, err)

	scalar, err := Evaluate(context.Background(), d, NewAvgFunction("likes"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, scalar.Partition(0).Row(0).Value(0))
}

func TestDescribeAndFieldNames(t *testing.T) {
	assert.Equal(t, "avg(likes)", NewAvgFunction("likes").Describe())
	assert.Equal(t, "avgOflikes", NewAvgFunction("likes").FieldName())
	assert.Equal(t, "sum(likes)", NewSumFunction("likes").Describe())
	assert.Equal(t, "count(id)", NewCountFunction("id").Describe())
	assert.Equal(t, "min(likes)", NewMinFunction("likes").Describe())
	assert.Equal(t, "max(likes)", NewMaxFunction("likes").Describe())
}
