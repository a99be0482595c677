package raster

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrMisalignedGrid is returned when a contributing grid does not share the
// reference grid's cell size or snap alignment.
var ErrMisalignedGrid = errors.New("misaligned grid")

// SumOptions tunes WeightedSum execution.
type SumOptions struct {
	// Workers bounds the number of row bands processed concurrently.
	// Zero means one band per CPU.
	Workers int

	// NoDataAsZero substitutes 0 for nodata input cells instead of
	// propagating nodata to the output.
	NoDataAsZero bool
}

// WeightedSum computes output[cell] = Σ weights[i] × inputs[i][cell] over the
// given window, aligned to ref's cell size and snap. A cell where any input
// is nodata becomes nodata unless NoDataAsZero is set. The inputs may cover
// different extents; points outside an input count as nodata.
//
// The window is snapped outward to ref's lattice before allocation, so the
// result lines up cell-for-cell with ref.
func WeightedSum(ctx context.Context, ref *Grid, inputs []*Grid, weights []float64, window Extent, opts SumOptions) (*Grid, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("weighted sum needs at least one input grid")
	}
	if len(inputs) != len(weights) {
		return nil, fmt.Errorf("got %d input grids but %d weights", len(inputs), len(weights))
	}
	for i, in := range inputs {
		if !ref.AlignedWith(in) {
			return nil, fmt.Errorf("%w: input %d (cell size %g, origin %g,%g) vs reference (cell size %g, origin %g,%g)",
				ErrMisalignedGrid, i, in.CellSize, in.Extent.XMin, in.Extent.YMax,
				ref.CellSize, ref.Extent.XMin, ref.Extent.YMax)
		}
	}
	if window.Empty() {
		return nil, fmt.Errorf("processing window %v encloses no area", window)
	}

	out := NewGrid(ref.SnapWindow(window), ref.CellSize, ref.NoData)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > out.Rows {
		workers = out.Rows
	}

	// Row bands are independent: each output cell depends only on co-located
	// input cells.
	band := (out.Rows + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		r0 := w * band
		r1 := r0 + band
		if r1 > out.Rows {
			r1 = out.Rows
		}
		if r0 >= r1 {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for row := r0; row < r1; row++ {
				for col := 0; col < out.Cols; col++ {
					x, y := out.CellCenter(row, col)
					acc := 0.0
					valid := true
					for i, in := range inputs {
						v := in.Sample(x, y)
						if in.IsNoData(v) {
							if !opts.NoDataAsZero {
								valid = false
								break
							}
							v = 0
						}
						acc += weights[i] * v
					}
					if valid {
						out.Set(row, col, acc)
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ClampToByte copies the grid into the unsigned 8-bit storage range: valid
// values are truncated and clamped to [0, 255]. Nodata cells are preserved in
// the working grid; they collapse to 0 only at export time.
func ClampToByte(g *Grid) *Grid {
	out := g.Clone()
	for i, v := range out.Cells {
		if out.IsNoData(v) {
			continue
		}
		v = math.Trunc(v)
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		out.Cells[i] = v
	}
	return out
}
