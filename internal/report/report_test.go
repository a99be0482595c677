package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/suitability.report/internal/overlay"
	"github.com/banshee-data/suitability.report/internal/raster"
)

func scoredGrid() *raster.Grid {
	g := raster.NewGrid(raster.Extent{XMin: 0, YMin: 0, XMax: 40, YMax: 10}, 10, -9999)
	g.Cells = []float64{1, 1, 5, g.NoData}
	return g
}

func TestScoreHistogram(t *testing.T) {
	bins := ScoreHistogram(scoredGrid())
	require.Len(t, bins, 2)
	assert.Equal(t, ScoreBin{Score: 1, Count: 2}, bins[0])
	assert.Equal(t, ScoreBin{Score: 5, Count: 1}, bins[1])
}

func TestWriteHTML(t *testing.T) {
	res := &overlay.Result{
		RunID: "test-run",
		Grid:  scoredGrid(),
	}
	req := overlay.Request{
		Weights: []overlay.WeightEntry{
			{Layer: "slope", Label: "slope raw", Weight: 0.4},
			{Layer: "roads", Label: "roads raw", Weight: 0.6},
		},
	}
	var buf bytes.Buffer
	err := WriteHTML(&buf, res, req, map[string]string{"slope": "Terrain slope"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Suitability score distribution")
	assert.Contains(t, out, "Terrain slope", "description map overrides the label")
	assert.Contains(t, out, "roads raw", "label fallback when no description")
}

func TestSaveHistogramPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist.png")
	require.NoError(t, SaveHistogramPNG(scoredGrid(), path))

	empty := raster.NewGrid(raster.Extent{XMin: 0, YMin: 0, XMax: 10, YMax: 10}, 10, -9999)
	require.Error(t, SaveHistogramPNG(empty, filepath.Join(t.TempDir(), "no.png")))
}
