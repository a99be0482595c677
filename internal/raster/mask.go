package raster

// MosaicOr merges binary mask grids into one combined mask aligned with ref.
// An output cell is 1 when any contributing mask marks the co-located cell
// nonzero, 0 otherwise. Overlapping masks cannot conflict since OR is
// idempotent. Mask cells outside ref's extent are ignored; mask nodata counts
// as unmarked.
func MosaicOr(ref *Grid, masks []*Grid) *Grid {
	out := NewGrid(ref.Extent, ref.CellSize, ref.NoData)
	out.Fill(0)
	for row := 0; row < out.Rows; row++ {
		for col := 0; col < out.Cols; col++ {
			x, y := out.CellCenter(row, col)
			for _, m := range masks {
				v := m.Sample(x, y)
				if !m.IsNoData(v) && v != 0 {
					out.Set(row, col, 1)
					break
				}
			}
		}
	}
	return out
}

// AnyMarked reports whether the mask has at least one valid nonzero cell.
// Callers use this to skip the override entirely when no mask cell falls
// inside the processing extent.
func AnyMarked(mask *Grid) bool {
	for _, v := range mask.Cells {
		if !mask.IsNoData(v) && v != 0 {
			return true
		}
	}
	return false
}

// ApplyOverride returns a copy of cost where every cell whose co-located mask
// cell satisfies marked gets value, and every other cell keeps its cost.
func ApplyOverride(cost, mask *Grid, marked func(v float64) bool, value float64) *Grid {
	out := cost.Clone()
	for row := 0; row < out.Rows; row++ {
		for col := 0; col < out.Cols; col++ {
			x, y := out.CellCenter(row, col)
			v := mask.Sample(x, y)
			if !mask.IsNoData(v) && marked(v) {
				out.Set(row, col, value)
			}
		}
	}
	return out
}
