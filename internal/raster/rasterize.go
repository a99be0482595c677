package raster

import (
	"image/color"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
)

// InsideSentinel marks polygon-covered cells in a rasterized grid. It is
// distinct from any valid score, which are all non-negative.
const InsideSentinel = -1

// RasterizePolygon burns poly into a grid aligned cell-for-cell with ref.
// Cells covered by the polygon get InsideSentinel, all other cells get 0;
// there are no nodata cells in the result. Holes (inner rings) are honoured
// via the even-odd fill rule.
//
// The polygon is drawn filled at one pixel per cell and each cell is
// classified by its pixel's coverage, so a cell counts as inside when the
// polygon covers at least half of it.
func RasterizePolygon(poly orb.Polygon, ref *Grid) *Grid {
	dc := gg.NewContext(ref.Cols, ref.Rows)
	dc.SetColor(color.Black)
	dc.Clear()
	dc.SetFillRule(gg.FillRuleEvenOdd)
	dc.SetColor(color.White)

	for _, ring := range poly {
		for i, pt := range ring {
			px := (pt.X() - ref.Extent.XMin) / ref.CellSize
			py := (ref.Extent.YMax - pt.Y()) / ref.CellSize
			if i == 0 {
				dc.MoveTo(px, py)
			} else {
				dc.LineTo(px, py)
			}
		}
		dc.ClosePath()
	}
	dc.Fill()

	img := dc.Image()
	out := NewGrid(ref.Extent, ref.CellSize, ref.NoData)
	out.Fill(0)
	for row := 0; row < out.Rows; row++ {
		for col := 0; col < out.Cols; col++ {
			r, _, _, _ := img.At(col, row).RGBA()
			if r >= 0x8000 {
				out.Set(row, col, InsideSentinel)
			}
		}
	}
	return out
}
