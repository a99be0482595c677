package raster

import (
	"fmt"
	"math"
)

// alignEpsilon is the tolerance used when comparing cell sizes and snap
// offsets between grids. Geographic coordinates from different sources
// accumulate small float error even when the grids share a lattice.
const alignEpsilon = 1e-9

// Extent is an axis-aligned bounding rectangle in geographic coordinates.
type Extent struct {
	XMin, YMin, XMax, YMax float64
}

// Width returns the horizontal span of the extent.
func (e Extent) Width() float64 { return e.XMax - e.XMin }

// Height returns the vertical span of the extent.
func (e Extent) Height() float64 { return e.YMax - e.YMin }

// Empty reports whether the extent encloses no area.
func (e Extent) Empty() bool { return e.XMax <= e.XMin || e.YMax <= e.YMin }

// Intersect returns the overlapping region of two extents. The result may be
// empty.
func (e Extent) Intersect(o Extent) Extent {
	return Extent{
		XMin: math.Max(e.XMin, o.XMin),
		YMin: math.Max(e.YMin, o.YMin),
		XMax: math.Min(e.XMax, o.XMax),
		YMax: math.Min(e.YMax, o.YMax),
	}
}

func (e Extent) String() string {
	return fmt.Sprintf("[%g %g %g %g]", e.XMin, e.YMin, e.XMax, e.YMax)
}

// Grid is a single-band numeric raster: row-major cell values over a
// rectangular extent with a fixed cell size and a nodata sentinel.
// Row 0 runs along the extent's top (YMax) edge, matching the usual
// north-up raster layout.
type Grid struct {
	Cols, Rows int
	CellSize   float64
	Extent     Extent
	NoData     float64
	Cells      []float64
}

// NewGrid allocates a grid covering ext at the given cell size. Every cell
// starts at the nodata sentinel. The extent is trimmed to a whole number of
// cells; callers that need lattice alignment should snap the extent first
// (see SnapWindow).
func NewGrid(ext Extent, cellSize, nodata float64) *Grid {
	cols := int(math.Round(ext.Width() / cellSize))
	rows := int(math.Round(ext.Height() / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	g := &Grid{
		Cols:     cols,
		Rows:     rows,
		CellSize: cellSize,
		Extent: Extent{
			XMin: ext.XMin,
			YMin: ext.YMax - float64(rows)*cellSize,
			XMax: ext.XMin + float64(cols)*cellSize,
			YMax: ext.YMax,
		},
		NoData: nodata,
		Cells:  make([]float64, cols*rows),
	}
	g.Fill(nodata)
	return g
}

// Idx converts (row, col) to the flat cell index.
func (g *Grid) Idx(row, col int) int { return row*g.Cols + col }

// At returns the value at (row, col).
func (g *Grid) At(row, col int) float64 { return g.Cells[g.Idx(row, col)] }

// Set writes the value at (row, col).
func (g *Grid) Set(row, col int, v float64) { g.Cells[g.Idx(row, col)] = v }

// IsNoData reports whether v is the grid's nodata sentinel.
func (g *Grid) IsNoData(v float64) bool {
	return v == g.NoData || math.IsNaN(v)
}

// Fill sets every cell to v.
func (g *Grid) Fill(v float64) {
	for i := range g.Cells {
		g.Cells[i] = v
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := *g
	out.Cells = make([]float64, len(g.Cells))
	copy(out.Cells, g.Cells)
	return &out
}

// CellCenter returns the geographic coordinates of the centre of (row, col).
func (g *Grid) CellCenter(row, col int) (x, y float64) {
	x = g.Extent.XMin + (float64(col)+0.5)*g.CellSize
	y = g.Extent.YMax - (float64(row)+0.5)*g.CellSize
	return x, y
}

// CellAt returns the (row, col) containing the point, with ok=false when the
// point falls outside the grid's extent.
func (g *Grid) CellAt(x, y float64) (row, col int, ok bool) {
	col = int(math.Floor((x - g.Extent.XMin) / g.CellSize))
	row = int(math.Floor((g.Extent.YMax - y) / g.CellSize))
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return 0, 0, false
	}
	return row, col, true
}

// Sample returns the cell value at a geographic point, or the nodata
// sentinel when the point lies outside the grid.
func (g *Grid) Sample(x, y float64) float64 {
	row, col, ok := g.CellAt(x, y)
	if !ok {
		return g.NoData
	}
	return g.At(row, col)
}

// AlignedWith reports whether o shares g's cell size and snap: the origins
// must sit on the same lattice even when the extents differ.
func (g *Grid) AlignedWith(o *Grid) bool {
	if math.Abs(g.CellSize-o.CellSize) > alignEpsilon {
		return false
	}
	dx := math.Mod(math.Abs(g.Extent.XMin-o.Extent.XMin), g.CellSize)
	dy := math.Mod(math.Abs(g.Extent.YMax-o.Extent.YMax), g.CellSize)
	offGrid := func(d float64) bool {
		return d > alignEpsilon && g.CellSize-d > alignEpsilon
	}
	return !offGrid(dx) && !offGrid(dy)
}

// SnapWindow expands b outward to g's cell lattice so that a grid built over
// the result lines up cell-for-cell with g.
func (g *Grid) SnapWindow(b Extent) Extent {
	cs := g.CellSize
	return Extent{
		XMin: g.Extent.XMin + math.Floor((b.XMin-g.Extent.XMin)/cs)*cs,
		YMin: g.Extent.YMax - math.Ceil((g.Extent.YMax-b.YMin)/cs)*cs,
		XMax: g.Extent.XMin + math.Ceil((b.XMax-g.Extent.XMin)/cs)*cs,
		YMax: g.Extent.YMax - math.Floor((g.Extent.YMax-b.YMax)/cs)*cs,
	}
}
