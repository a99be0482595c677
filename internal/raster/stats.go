package raster

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the valid cells of a grid.
type Stats struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	ValidCells int     `json:"valid_cells"`
	NoDataCount int    `json:"nodata_cells"`
}

// ValidValues returns a fresh slice of all non-nodata cell values.
func (g *Grid) ValidValues() []float64 {
	vals := make([]float64, 0, len(g.Cells))
	for _, v := range g.Cells {
		if !g.IsNoData(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

// MinMax returns the observed minimum and maximum over valid cells.
// ok is false when the grid holds no valid cells.
func (g *Grid) MinMax() (min, max float64, ok bool) {
	vals := g.ValidValues()
	if len(vals) == 0 {
		return 0, 0, false
	}
	return floats.Min(vals), floats.Max(vals), true
}

// Summary computes descriptive statistics over the grid's valid cells.
func (g *Grid) Summary() Stats {
	vals := g.ValidValues()
	s := Stats{
		ValidCells:  len(vals),
		NoDataCount: len(g.Cells) - len(vals),
	}
	if len(vals) == 0 {
		return s
	}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		s.StdDev = stat.StdDev(vals, nil)
	}
	return s
}
