package raster

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateRange is returned when a rescale cannot be expressed: an
// inverted target range or a grid with no valid cells at all. A grid whose
// observed minimum equals its observed maximum is NOT an error; see Rescale.
var ErrDegenerateRange = errors.New("degenerate rescale range")

// Rescale linearly remaps the grid's valid values into [targetMin, targetMax]
// using the observed, integer-truncated minimum and maximum:
//
//	out = trunc((in - srcMin) * (targetMax - targetMin) / (srcMax - srcMin)) + targetMin
//
// When srcMin == srcMax the mapping is undefined, and Rescale returns an
// unchanged copy instead of failing: a uniform cost surface is a legitimate
// result for uniform inputs, and aborting the run would discard it.
func Rescale(g *Grid, targetMin, targetMax int) (*Grid, error) {
	if targetMax < targetMin {
		return nil, fmt.Errorf("%w: target [%d, %d] is inverted", ErrDegenerateRange, targetMin, targetMax)
	}
	mn, mx, ok := g.MinMax()
	if !ok {
		return nil, fmt.Errorf("%w: grid has no valid cells", ErrDegenerateRange)
	}
	srcMin := math.Trunc(mn)
	srcMax := math.Trunc(mx)

	out := g.Clone()
	if srcMax == srcMin {
		return out, nil
	}

	scale := float64(targetMax-targetMin) / (srcMax - srcMin)
	for i, v := range out.Cells {
		if out.IsNoData(v) {
			continue
		}
		out.Cells[i] = math.Trunc((v-srcMin)*scale) + float64(targetMin)
	}
	return out, nil
}
