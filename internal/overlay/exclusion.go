package overlay

import (
	"fmt"

	"github.com/banshee-data/suitability.report/internal/raster"
)

// applyExclusions builds the combined exclusion mask from the named layers
// and overrides excluded cells to the lowest valid score. When no exclusion
// cell falls inside the processing extent the stage is a no-op; that check
// runs before any override so the trivial case cannot fail.
func (p *Pipeline) applyExclusions(cost *raster.Grid, layers []string, lowest float64, diag *Diagnostics) (*raster.Grid, error) {
	masks := make([]*raster.Grid, 0, len(layers))
	for _, name := range layers {
		m, err := p.Store.ExclusionMask(name)
		if err != nil {
			return nil, fmt.Errorf("exclusion layer %s: %w", name, err)
		}
		masks = append(masks, m)
	}

	combined := raster.MosaicOr(cost, masks)
	if !raster.AnyMarked(combined) {
		diag.Messages = append(diag.Messages,
			fmt.Sprintf("no exclusion cells from %d layer(s) inside processing extent; exclusion skipped", len(layers)))
		return cost, nil
	}

	return raster.ApplyOverride(cost, combined, func(v float64) bool { return v != 0 }, lowest), nil
}
