package overlay

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/banshee-data/suitability.report/internal/raster"
)

// Sentinel errors surfaced by pipeline runs. Stage failures wrap these with
// context; callers dispatch on them with errors.Is.
var (
	// ErrUnknownLayer is returned when a layer identifier does not resolve
	// in the grid store. Store implementations wrap this themselves.
	ErrUnknownLayer = errors.New("unknown layer")

	// ErrEmptyWeightTable is returned when a run is requested with no
	// weight entries at all.
	ErrEmptyWeightTable = errors.New("empty weight table")

	// ErrUnknownPolarity is returned when an influence spec names a
	// polarity that is neither positive nor negative. There is no default
	// polarity; this is an explicit contract, not a fallthrough.
	ErrUnknownPolarity = errors.New("unknown influence polarity")
)

// GridStore resolves named input grids. Implemented by store.Store (sqlite)
// and store.MemStore (tests).
type GridStore interface {
	// Lookup returns the named grid or an error wrapping ErrUnknownLayer.
	Lookup(name string) (*raster.Grid, error)

	// ExclusionMask returns the layer's exclusion classification as a
	// binary grid: 1 where the cell is excluded, 0 or nodata otherwise.
	ExclusionMask(name string) (*raster.Grid, error)
}

// WeightEntry pairs an input layer with its weight in the overlay sum.
// Weights are signed and carry no normalization requirement.
type WeightEntry struct {
	Layer  string  `json:"layer"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// Polarity selects the influence-zone override direction.
type Polarity string

const (
	// PolarityPositive overrides covered cells to the cost grid's
	// pre-override maximum.
	PolarityPositive Polarity = "POSITIVE"

	// PolarityNegative overrides covered cells to the lowest valid score.
	PolarityNegative Polarity = "NEGATIVE"
)

// ParsePolarity normalizes a polarity string. Anything other than the two
// known polarities fails with ErrUnknownPolarity.
func ParsePolarity(s string) (Polarity, error) {
	switch Polarity(strings.ToUpper(strings.TrimSpace(s))) {
	case PolarityPositive:
		return PolarityPositive, nil
	case PolarityNegative:
		return PolarityNegative, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolarity, s)
}

// InfluenceSpec describes a user-drawn influence zone.
type InfluenceSpec struct {
	BoundaryWKT string `json:"boundary_wkt"`
	Polarity    string `json:"polarity"`
	Description string `json:"description,omitempty"`
}

// Request carries everything a single overlay run needs. All configuration is
// explicit; the pipeline reads no ambient state.
type Request struct {
	// BoundaryWKT is the processing-extent polygon in WKT.
	BoundaryWKT string `json:"boundary_wkt"`

	// Weights is the ordered weight table. The first entry's layer is the
	// reference grid fixing output cell size and snap.
	Weights []WeightEntry `json:"weights"`

	// ExclusionLayers names the exclusion grids; empty skips the stage.
	ExclusionLayers []string `json:"exclusion_layers,omitempty"`

	// Influence is the optional user-drawn influence zone.
	Influence *InfluenceSpec `json:"influence,omitempty"`

	// TargetMin/TargetMax give the output score range; both zero means
	// use the pipeline defaults.
	TargetMin int `json:"target_min,omitempty"`
	TargetMax int `json:"target_max,omitempty"`

	// NoDataAsZero switches the weighted-sum nodata policy from
	// propagation to zero substitution.
	NoDataAsZero bool `json:"nodata_as_zero,omitempty"`
}

// StageTiming records how long one pipeline stage took.
type StageTiming struct {
	Stage    string        `json:"stage"`
	Duration time.Duration `json:"duration_ns"`
}

// Diagnostics accompanies a successful run. Informational only: nothing here
// feeds back into control flow.
type Diagnostics struct {
	RunID    string        `json:"run_id"`
	Window   raster.Extent `json:"window"`
	Stages   []StageTiming `json:"stages"`
	Messages []string      `json:"messages,omitempty"`
	Stats    raster.Stats  `json:"stats"`
}

// Result is the final cost grid plus run diagnostics.
type Result struct {
	RunID       string
	Grid        *raster.Grid
	Diagnostics Diagnostics
}
