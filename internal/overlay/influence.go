package overlay

import (
	"fmt"

	"github.com/banshee-data/suitability.report/internal/geo"
	"github.com/banshee-data/suitability.report/internal/raster"
)

// applyInfluence rasterizes the influence polygon and overrides covered
// cells: negative polarity forces the lowest valid score, positive polarity
// forces the maximum present in the cost grid before the override.
//
// Polarity is validated before anything is rasterized so a bad spec fails
// the run rather than silently leaving the grid unchanged.
func (p *Pipeline) applyInfluence(cost *raster.Grid, spec *InfluenceSpec, lowest float64, diag *Diagnostics) (*raster.Grid, error) {
	polarity, err := ParsePolarity(spec.Polarity)
	if err != nil {
		return nil, err
	}
	poly, err := geo.ParsePolygon(spec.BoundaryWKT)
	if err != nil {
		return nil, fmt.Errorf("influence boundary: %w", err)
	}

	sentinel := raster.RasterizePolygon(poly, cost)

	var value float64
	switch polarity {
	case PolarityNegative:
		value = lowest
	case PolarityPositive:
		// Maximum must come from the grid as it stands before the
		// override is applied.
		_, max, ok := cost.MinMax()
		if !ok {
			return nil, fmt.Errorf("influence: cost grid has no valid cells")
		}
		value = max
	}

	if spec.Description != "" {
		diag.Messages = append(diag.Messages,
			fmt.Sprintf("influence zone (%s): %s", polarity, spec.Description))
	}

	return raster.ApplyOverride(cost, sentinel, func(v float64) bool { return v < 0 }, value), nil
}
