package overlay

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/suitability.report/internal/geo"
	"github.com/banshee-data/suitability.report/internal/monitoring"
	"github.com/banshee-data/suitability.report/internal/raster"
)

// Stage identifies a pipeline state. Stages advance strictly in order; the
// two optional stages are skipped when their input is absent.
type Stage int

const (
	StageExtentResolved Stage = iota
	StageSummed
	StageRescaled
	StageExclusionApplied
	StageInfluenceApplied
	StageFinalized
)

var stageNames = map[Stage]string{
	StageExtentResolved:   "extent_resolved",
	StageSummed:           "summed",
	StageRescaled:         "rescaled",
	StageExclusionApplied: "exclusion_applied",
	StageInfluenceApplied: "influence_applied",
	StageFinalized:        "finalized",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Pipeline runs overlay requests against a grid store. A Pipeline is
// stateless across runs: every run works on its own grids under its own run
// ID, so concurrent Run calls are safe.
type Pipeline struct {
	Store GridStore

	// ScoreMin/ScoreMax are the default output range when a request does
	// not set its own. ScoreMin doubles as the "lowest valid score" that
	// exclusion and negative-influence overrides write.
	ScoreMin int
	ScoreMax int

	// Workers bounds per-stage row parallelism. Zero means one per CPU.
	Workers int
}

// NewPipeline returns a pipeline with the conventional 1..10 score range.
func NewPipeline(store GridStore) *Pipeline {
	return &Pipeline{Store: store, ScoreMin: 1, ScoreMax: 10}
}

// Run executes the full pipeline for one request. On any stage failure the
// run aborts and no grid is returned.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	diag := Diagnostics{RunID: runID}

	mark := func(s Stage, start time.Time) {
		d := time.Since(start)
		diag.Stages = append(diag.Stages, StageTiming{Stage: s.String(), Duration: d})
		monitoring.Debugf("[overlay %s] %s took %v", runID, s, d)
	}

	targetMin, targetMax := req.TargetMin, req.TargetMax
	if targetMin == 0 && targetMax == 0 {
		targetMin, targetMax = p.ScoreMin, p.ScoreMax
	}

	// Extent resolution.
	start := time.Now()
	boundary, err := geo.ParsePolygon(req.BoundaryWKT)
	if err != nil {
		return nil, fmt.Errorf("resolving extent: %w", err)
	}
	b := geo.Bounds(boundary)
	window := raster.Extent{XMin: b.Min.X(), YMin: b.Min.Y(), XMax: b.Max.X(), YMax: b.Max.Y()}
	diag.Window = window
	mark(StageExtentResolved, start)

	// Weighted sum.
	start = time.Now()
	if len(req.Weights) == 0 {
		return nil, ErrEmptyWeightTable
	}
	inputs := make([]*raster.Grid, len(req.Weights))
	weights := make([]float64, len(req.Weights))
	for i, entry := range req.Weights {
		g, err := p.Store.Lookup(entry.Layer)
		if err != nil {
			return nil, fmt.Errorf("weight table entry %d (%s): %w", i, entry.Layer, err)
		}
		inputs[i] = g
		weights[i] = entry.Weight
	}
	ref := inputs[0]
	sum, err := raster.WeightedSum(ctx, ref, inputs, weights, window, raster.SumOptions{
		Workers:      p.Workers,
		NoDataAsZero: req.NoDataAsZero,
	})
	if err != nil {
		return nil, fmt.Errorf("weighted sum: %w", err)
	}
	cost := raster.ClampToByte(sum)
	mark(StageSummed, start)

	// Rescale.
	start = time.Now()
	cost, err = raster.Rescale(cost, targetMin, targetMax)
	if err != nil {
		return nil, fmt.Errorf("rescale: %w", err)
	}
	mark(StageRescaled, start)

	// Exclusions (optional).
	if len(req.ExclusionLayers) > 0 {
		start = time.Now()
		cost, err = p.applyExclusions(cost, req.ExclusionLayers, float64(targetMin), &diag)
		if err != nil {
			return nil, err
		}
		mark(StageExclusionApplied, start)
	}

	// Influence zone (optional).
	if req.Influence != nil {
		start = time.Now()
		cost, err = p.applyInfluence(cost, req.Influence, float64(targetMin), &diag)
		if err != nil {
			return nil, err
		}
		mark(StageInfluenceApplied, start)
	}

	diag.Stats = cost.Summary()
	diag.Stages = append(diag.Stages, StageTiming{Stage: StageFinalized.String()})
	monitoring.Logf("[overlay %s] finalized: %d valid cells, scores %g..%g",
		runID, diag.Stats.ValidCells, diag.Stats.Min, diag.Stats.Max)

	return &Result{RunID: runID, Grid: cost, Diagnostics: diag}, nil
}
