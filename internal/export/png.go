package export

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/banshee-data/suitability.report/internal/raster"
)

// rampStops are the low-to-high colors of the suitability ramp: red for the
// worst scores through yellow to green for the best.
var rampStops = []color.RGBA{
	{R: 0xd7, G: 0x30, B: 0x27, A: 0xff},
	{R: 0xfe, G: 0xe0, B: 0x8b, A: 0xff},
	{R: 0x1a, G: 0x96, B: 0x41, A: 0xff},
}

// WritePNG renders the grid as a color-ramped PNG at one pixel per cell.
// The ramp spans the grid's observed value range; nodata cells come out
// fully transparent.
func WritePNG(w io.Writer, g *raster.Grid) error {
	mn, mx, ok := g.MinMax()
	img := image.NewNRGBA(image.Rect(0, 0, g.Cols, g.Rows))
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			v := g.At(row, col)
			if !ok || g.IsNoData(v) {
				continue // zero value is transparent
			}
			t := 0.0
			if mx > mn {
				t = (v - mn) / (mx - mn)
			}
			img.SetNRGBA(col, row, rampColor(t))
		}
	}
	return png.Encode(w, img)
}

// rampColor interpolates the ramp at t in [0,1].
func rampColor(t float64) color.NRGBA {
	if t <= 0 {
		return toNRGBA(rampStops[0])
	}
	if t >= 1 {
		return toNRGBA(rampStops[len(rampStops)-1])
	}
	segs := len(rampStops) - 1
	pos := t * float64(segs)
	i := int(pos)
	f := pos - float64(i)
	a, b := rampStops[i], rampStops[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*f)
	}
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 0xff}
}

func toNRGBA(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
