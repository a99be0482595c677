package export

import (
	"archive/zip"
	"bytes"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/suitability.report/internal/raster"
)

const sampleASC = `ncols 4
nrows 2
xllcorner 100.0
yllcorner 40.0
cellsize 0.5
NODATA_value -9999
1 2 3 4
5 6 -9999 8
`

func TestReadASC(t *testing.T) {
	g, err := ReadASC(strings.NewReader(sampleASC))
	require.NoError(t, err)

	assert.Equal(t, 4, g.Cols)
	assert.Equal(t, 2, g.Rows)
	assert.Equal(t, 0.5, g.CellSize)
	assert.Equal(t, raster.Extent{XMin: 100, YMin: 40, XMax: 102, YMax: 41}, g.Extent)
	assert.Equal(t, 1.0, g.At(0, 0), "first value is the northwest cell")
	assert.Equal(t, 8.0, g.At(1, 3))
	assert.True(t, g.IsNoData(g.At(1, 2)))
}

func TestReadASC_Errors(t *testing.T) {
	_, err := ReadASC(strings.NewReader("ncols 2\nnrows 2\n1 2 3 4\n"))
	require.Error(t, err, "missing georeferencing headers")

	_, err = ReadASC(strings.NewReader("ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 3\n"))
	require.Error(t, err, "cell count mismatch")

	_, err = ReadASC(strings.NewReader("ncols 1\nnrows 1\nxllcenter 0\nyllcorner 0\ncellsize 1\n1\n"))
	require.Error(t, err, "center-referenced grids unsupported")
}

func TestWriteASC_Header(t *testing.T) {
	g := raster.NewGrid(raster.Extent{XMin: 10, YMin: 20, XMax: 40, YMax: 40}, 10, -9999)
	g.Fill(3)
	g.Set(0, 0, g.NoData)

	var buf bytes.Buffer
	require.NoError(t, WriteASC(&buf, g))
	out := buf.String()

	assert.Contains(t, out, "ncols 3")
	assert.Contains(t, out, "nrows 2")
	assert.Contains(t, out, "xllcorner 10")
	assert.Contains(t, out, "yllcorner 20")
	assert.Contains(t, out, "NODATA_value -9999")
	assert.True(t, strings.HasSuffix(strings.TrimRight(out, "\n"), "3 3 3"))

	// Written grids read back with identical georeferencing.
	back, err := ReadASC(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, g.Extent, back.Extent)
	assert.True(t, back.IsNoData(back.At(0, 0)))
}

func TestWritePNG(t *testing.T) {
	g := raster.NewGrid(raster.Extent{XMin: 0, YMin: 0, XMax: 30, YMax: 20}, 10, -9999)
	g.Cells = []float64{1, 5, 10, 1, g.NoData, 10}

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, g))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	_, _, _, a := img.At(1, 1).RGBA()
	assert.Zero(t, a, "nodata renders transparent")
	_, _, _, a = img.At(0, 0).RGBA()
	assert.NotZero(t, a)
}

func TestWriteKMZ(t *testing.T) {
	g := raster.NewGrid(raster.Extent{XMin: -120, YMin: 35, XMax: -119, YMax: 36}, 0.1, -9999)
	g.Fill(5)

	var buf bytes.Buffer
	require.NoError(t, WriteKMZ(&buf, g, "site suitability"))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := map[string]bool{}
	var kmlText string
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name == "doc.kml" {
			rc, err := f.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			rc.Close()
			kmlText = string(data)
		}
	}
	assert.True(t, names["doc.kml"])
	assert.True(t, names["files/overlay.png"])
	assert.Contains(t, kmlText, "<north>36</north>")
	assert.Contains(t, kmlText, "<west>-120</west>")
	assert.Contains(t, kmlText, "files/overlay.png")
}
