package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/suitability.report/internal/raster"
)

// ScoreBin is one bar of the score distribution: how many valid cells hold
// the (integer) score.
type ScoreBin struct {
	Score float64
	Count int
}

// ScoreHistogram counts valid cells per distinct score, ordered ascending.
// Cost grids hold small integer score ranges, so exact bucketing beats
// fixed-width binning here.
func ScoreHistogram(g *raster.Grid) []ScoreBin {
	counts := map[float64]int{}
	for _, v := range g.Cells {
		if !g.IsNoData(v) {
			counts[v]++
		}
	}
	bins := make([]ScoreBin, 0, len(counts))
	for score, n := range counts {
		bins = append(bins, ScoreBin{Score: score, Count: n})
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Score < bins[j].Score })
	return bins
}

// SaveHistogramPNG plots the score distribution of the grid to a PNG file.
func SaveHistogramPNG(g *raster.Grid, path string) error {
	vals := g.ValidValues()
	if len(vals) == 0 {
		return fmt.Errorf("grid has no valid cells to plot")
	}

	p := plot.New()
	p.Title.Text = "Suitability score distribution"
	p.X.Label.Text = "score"
	p.Y.Label.Text = "cells"

	h, err := plotter.NewHist(plotter.Values(vals), 16)
	if err != nil {
		return fmt.Errorf("building histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving histogram: %w", err)
	}
	return nil
}
