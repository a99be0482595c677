package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/suitability.report/internal/overlay"
	"github.com/banshee-data/suitability.report/internal/raster"
)

func testGrid(value float64) *raster.Grid {
	g := raster.NewGrid(raster.Extent{XMin: 0, YMin: 0, XMax: 50, YMax: 30}, 10, -9999)
	g.Fill(value)
	g.Set(0, 0, g.NoData)
	return g
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "layers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PutLookup(t *testing.T) {
	s := openTestStore(t)
	g := testGrid(4)

	require.NoError(t, s.Put(LayerMeta{Name: "slope", Description: "terrain slope"}, g))

	got, err := s.Lookup("slope")
	require.NoError(t, err)
	assert.Equal(t, g.Rows, got.Rows)
	assert.Equal(t, g.Cols, got.Cols)
	assert.Equal(t, g.CellSize, got.CellSize)
	assert.Equal(t, g.Extent, got.Extent)
	assert.Empty(t, cmp.Diff(g.Cells, got.Cells))
}

func TestStore_LookupUnknown(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Lookup("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, overlay.ErrUnknownLayer))
}

func TestStore_PutReplaces(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put(LayerMeta{Name: "slope"}, testGrid(4)))
	require.NoError(t, s.Put(LayerMeta{Name: "slope"}, testGrid(7)))

	got, err := s.Lookup("slope")
	require.NoError(t, err)
	assert.Equal(t, 7.0, got.At(1, 1))
}

func TestStore_ExclusionMask(t *testing.T) {
	s := openTestStore(t)
	g := testGrid(0)
	g.Set(1, 1, 1) // one excluded cell; (0,0) is nodata
	require.NoError(t, s.Put(LayerMeta{Name: "wetlands", Exclusion: true}, g))

	mask, err := s.ExclusionMask("wetlands")
	require.NoError(t, err)
	assert.Equal(t, 1.0, mask.At(1, 1))
	assert.Equal(t, 0.0, mask.At(2, 2), "zero cells are not excluded")
	assert.Equal(t, 0.0, mask.At(0, 0), "nodata cells are not excluded")
}

func TestStore_MetaAndList(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put(LayerMeta{Name: "slope", Description: "terrain slope"}, testGrid(4)))
	require.NoError(t, s.Put(LayerMeta{Name: "floodzone", Exclusion: true}, testGrid(1)))

	m, err := s.Meta("slope")
	require.NoError(t, err)
	assert.Equal(t, "terrain slope", m.Description)
	assert.False(t, m.Exclusion)
	assert.Equal(t, 5, m.Cols)

	layers, err := s.List()
	require.NoError(t, err)
	require.Len(t, layers, 2)
	assert.Equal(t, "floodzone", layers[0].Name)
	assert.True(t, layers[0].Exclusion)
	assert.Equal(t, "slope", layers[1].Name)
}

func TestMemStore(t *testing.T) {
	m := NewMemStore()
	m.Add("a", testGrid(2))
	m.AddExclusion("x", testGrid(1))

	g, err := m.Lookup("a")
	require.NoError(t, err)
	// Mutating the returned grid must not leak into the store.
	g.Fill(99)
	again, err := m.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, 2.0, again.At(1, 1))

	_, err = m.Lookup("missing")
	assert.True(t, errors.Is(err, overlay.ErrUnknownLayer))

	mask, err := m.ExclusionMask("x")
	require.NoError(t, err)
	assert.Equal(t, 1.0, mask.At(1, 1))

	layers, err := m.List()
	require.NoError(t, err)
	require.Len(t, layers, 2)
	assert.Equal(t, "a", layers[0].Name)
}
