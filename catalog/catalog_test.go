package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/dataset"
	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
)

func namedDataset(t *testing.T, name string) *dataset.Dataset {
	t.Helper()
	schema := record.NewSchema()
	schema.AddStringField("id")
	d, err := dataset.New(name, schema, []record.Row{record.NewRow("x")}, 1)
	require.NoError(t, err)
	return d
}

func TestCatalog_RegisterAndGet(t *testing.T) {
	c := New()
	videos := namedDataset(t, "videos")

	require.NoError(t, c.Register(videos))

	got, err := c.Get("videos")
	require.NoError(t, err)
	assert.Same(t, videos, got)

	// Registering the same name twice is rejected.
	err = c.Register(namedDataset(t, "videos"))
	require.Error(t, err)
	assert.True(t, qerr.IsKind(err, qerr.InvalidArgument))
}

func TestCatalog_GetUnknown(t *testing.T) {
	c := New()
	_, err := c.Get("missing")
	require.Error(t, err)
	assert.True(t, qerr.IsKind(err, qerr.InvalidArgument))
	assert.Contains(t, err.Error(), "missing")
}

func TestCatalog_ReplaceOverwrites(t *testing.T) {
	c := New()
	require.NoError(t, c.Register(namedDataset(t, "videos")))

	replacement := namedDataset(t, "videos")
	c.Replace(replacement)

	got, err := c.Get("videos")
	require.NoError(t, err)
	assert.Same(t, replacement, got)
}

func TestCatalog_Drop(t *testing.T) {
	c := New()
	require.NoError(t, c.Register(namedDataset(t, "videos")))
	require.NoError(t, c.Drop("videos"))

	_, err := c.Get("videos")
	require.Error(t, err)

	err = c.Drop("videos")
	require.Error(t, err)
	assert.True(t, qerr.IsKind(err, qerr.InvalidArgument))
}

func TestCatalog_NamesSorted(t *testing.T) {
	c := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, c.Register(namedDataset(t, name)))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, c.Names())
}
