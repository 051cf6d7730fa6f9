package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/dataset"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
)

func storedSchema() *record.Schema {
	schema := record.NewSchema()
	schema.AddStringField("id")
	schema.AddIntField("likes")
	schema.AddDoubleField("score")
	schema.AddBoolField("published")
	return schema
}

func storedDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	d, err := dataset.New("videos", storedSchema(), []record.Row{
		record.NewRow("V1", 10, 0.5, true),
		record.NewRow("V2", 50, 2.25, false),
		record.NewRow("V3", 30, -1.0, true),
	}, 2)
	require.NoError(t, err)
	return d
}

func TestParquetStore_RoundTrip(t *testing.T) {
	store := NewParquetStore(t.TempDir(), 2)
	d := storedDataset(t)

	require.NoError(t, store.Save(context.Background(), d, "videos", Overwrite))

	loaded, err := store.Load(context.Background(), "videos", storedSchema())
	require.NoError(t, err)

	// Values and order survive the round trip; the partition count comes
	// from the store.
	assert.Equal(t, 2, loaded.PartitionCount())
	require.Equal(t, d.NumRows(), loaded.NumRows())
	for i, row := range d.Rows() {
		assert.Equal(t, row.Values(), loaded.Rows()[i].Values(), "row %d", i)
	}
}

func TestParquetStore_OverwriteReplaces(t *testing.T) {
	store := NewParquetStore(t.TempDir(), 1)
	d := storedDataset(t)

	require.NoError(t, store.Save(context.Background(), d, "videos", Overwrite))
	require.NoError(t, store.Save(context.Background(), d, "videos", Overwrite))

	loaded, err := store.Load(context.Background(), "videos", storedSchema())
	require.NoError(t, err)
	assert.Equal(t, d.NumRows(), loaded.NumRows())
}

func TestParquetStore_AppendAccumulates(t *testing.T) {
	store := NewParquetStore(t.TempDir(), 1)
	d := storedDataset(t)

	// Append to a missing destination behaves like a fresh write.
	require.NoError(t, store.Save(context.Background(), d, "videos", Append))
	require.NoError(t, store.Save(context.Background(), d, "videos", Append))

	loaded, err := store.Load(context.Background(), "videos", storedSchema())
	require.NoError(t, err)
	assert.Equal(t, 2*d.NumRows(), loaded.NumRows())
}

func TestParquetStore_ErrorIfExists(t *testing.T) {
	store := NewParquetStore(t.TempDir(), 1)
	d := storedDataset(t)

	require.NoError(t, store.Save(context.Background(), d, "videos", ErrorIfExists))

	err := store.Save(context.Background(), d, "videos", ErrorIfExists)
	require.Error(t, err)
	assert.True(t, qerr.IsKind(err, qerr.InvalidArgument))
	assert.Contains(t, err.Error(), "already exists")
}

func TestParquetStore_LoadMissing(t *testing.T) {
	store := NewParquetStore(t.TempDir(), 1)

	_, err := store.Load(context.Background(), "missing", storedSchema())
	require.Error(t, err)
	assert.True(t, qerr.IsKind(err, qerr.InvalidArgument))
}

func TestParquetStore_SaveCancelled(t *testing.T) {
	store := NewParquetStore(t.TempDir(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, storedDataset(t), "videos", Overwrite)
	require.Error(t, err)
	assert.True(t, qerr.IsKind(err, qerr.ExecutionError))
}

func TestParseSaveMode(t *testing.T) {
	for _, name := range []string{"overwrite", "append", "error-if-exists"} {
		mode, err := ParseSaveMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, mode.String())
	}

	mode, err := ParseSaveMode("error_if_exists")
	require.NoError(t, err)
	assert.Equal(t, ErrorIfExists, mode)

	_, err = ParseSaveMode("truncate")
	require.Error(t, err)
	assert.True(t, qerr.IsKind(err, qerr.InvalidArgument))
}
