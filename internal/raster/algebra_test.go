package raster

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWindow = Extent{0, 0, 100, 100}

func TestWeightedSum_Scenario(t *testing.T) {
	// A all 2, B all 4, weights 0.5/0.5 -> 3 everywhere.
	a := makeGrid(testWindow, 10, 2)
	b := makeGrid(testWindow, 10, 4)

	out, err := WeightedSum(context.Background(), a, []*Grid{a, b}, []float64{0.5, 0.5}, testWindow, SumOptions{})
	require.NoError(t, err)
	for _, v := range out.Cells {
		assert.Equal(t, 3.0, v)
	}
}

func TestWeightedSum_OrderIndependence(t *testing.T) {
	grids := []*Grid{
		makeGrid(testWindow, 10, 2),
		makeGrid(testWindow, 10, 4),
		makeGrid(testWindow, 10, 8),
	}
	// Scatter some structure so permutations have something to disagree on.
	rng := rand.New(rand.NewSource(42))
	for _, g := range grids {
		for i := range g.Cells {
			g.Cells[i] += float64(rng.Intn(5))
		}
	}
	weights := []float64{0.2, 0.3, 0.5}

	base, err := WeightedSum(context.Background(), grids[0], grids, weights, testWindow, SumOptions{})
	require.NoError(t, err)

	perms := [][]int{{0, 2, 1}, {1, 0, 2}, {2, 1, 0}}
	for _, p := range perms {
		pg := []*Grid{grids[p[0]], grids[p[1]], grids[p[2]]}
		pw := []float64{weights[p[0]], weights[p[1]], weights[p[2]]}
		out, err := WeightedSum(context.Background(), grids[0], pg, pw, testWindow, SumOptions{})
		require.NoError(t, err)
		if diff := cmp.Diff(base.Cells, out.Cells); diff != "" {
			t.Fatalf("permutation %v changed the sum (-base +perm):\n%s", p, diff)
		}
	}
}

func TestWeightedSum_SerialMatchesParallel(t *testing.T) {
	a := makeGrid(testWindow, 10, 1)
	for i := range a.Cells {
		a.Cells[i] = float64(i % 13)
	}
	b := makeGrid(testWindow, 10, 5)

	serial, err := WeightedSum(context.Background(), a, []*Grid{a, b}, []float64{2, -1}, testWindow, SumOptions{Workers: 1})
	require.NoError(t, err)
	parallel, err := WeightedSum(context.Background(), a, []*Grid{a, b}, []float64{2, -1}, testWindow, SumOptions{Workers: 4})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(serial.Cells, parallel.Cells))
}

func TestWeightedSum_NoDataPropagates(t *testing.T) {
	a := makeGrid(testWindow, 10, 2)
	b := makeGrid(testWindow, 10, 4)
	b.Set(3, 3, b.NoData)

	out, err := WeightedSum(context.Background(), a, []*Grid{a, b}, []float64{0.5, 0.5}, testWindow, SumOptions{})
	require.NoError(t, err)
	assert.True(t, out.IsNoData(out.At(3, 3)), "nodata in any input must propagate")
	assert.Equal(t, 3.0, out.At(3, 4))
}

func TestWeightedSum_NoDataAsZero(t *testing.T) {
	a := makeGrid(testWindow, 10, 2)
	b := makeGrid(testWindow, 10, 4)
	b.Set(3, 3, b.NoData)

	out, err := WeightedSum(context.Background(), a, []*Grid{a, b}, []float64{0.5, 0.5}, testWindow, SumOptions{NoDataAsZero: true})
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.At(3, 3), "nodata input should count as 0 under the override policy")
}

func TestWeightedSum_PartialCoverage(t *testing.T) {
	// B only covers the eastern half; western output cells go nodata.
	a := makeGrid(testWindow, 10, 2)
	b := makeGrid(Extent{50, 0, 100, 100}, 10, 4)

	out, err := WeightedSum(context.Background(), a, []*Grid{a, b}, []float64{0.5, 0.5}, testWindow, SumOptions{})
	require.NoError(t, err)
	assert.True(t, out.IsNoData(out.At(0, 0)))
	assert.Equal(t, 3.0, out.At(0, 9))
}

func TestWeightedSum_Misaligned(t *testing.T) {
	a := makeGrid(testWindow, 10, 2)

	coarse := makeGrid(testWindow, 25, 4)
	_, err := WeightedSum(context.Background(), a, []*Grid{a, coarse}, []float64{0.5, 0.5}, testWindow, SumOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMisalignedGrid))

	offGrid := makeGrid(Extent{5, 0, 105, 100}, 10, 4)
	_, err = WeightedSum(context.Background(), a, []*Grid{a, offGrid}, []float64{0.5, 0.5}, testWindow, SumOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMisalignedGrid))
}

func TestWeightedSum_WindowSubset(t *testing.T) {
	a := makeGrid(testWindow, 10, 2)
	b := makeGrid(testWindow, 10, 4)

	out, err := WeightedSum(context.Background(), a, []*Grid{a, b}, []float64{1, 1}, Extent{12, 33, 47, 88}, SumOptions{})
	require.NoError(t, err)
	// Snapped outward to the reference lattice: [10,30,50,90].
	assert.Equal(t, 4, out.Cols)
	assert.Equal(t, 6, out.Rows)
	assert.Equal(t, 10.0, out.Extent.XMin)
	assert.Equal(t, 90.0, out.Extent.YMax)
}

func TestClampToByte(t *testing.T) {
	g := makeGrid(Extent{0, 0, 40, 10}, 10, 0)
	g.Cells = []float64{-5, 300, 12.7, g.NoData}

	out := ClampToByte(g)
	assert.Equal(t, 0.0, out.Cells[0])
	assert.Equal(t, 255.0, out.Cells[1])
	assert.Equal(t, 12.0, out.Cells[2], "values truncate, not round")
	assert.True(t, out.IsNoData(out.Cells[3]), "nodata survives until export")

	// Input untouched.
	assert.Equal(t, -5.0, g.Cells[0])
}
