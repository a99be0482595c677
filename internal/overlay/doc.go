// Package overlay orchestrates the suitability pipeline.
//
// A run moves through a fixed sequence of stages, each consuming the cost
// grid produced by its predecessor: extent resolution, weighted sum, rescale,
// then the optional exclusion and influence overrides. A failure at any stage
// aborts the whole run; no partial cost grid is ever returned.
//
// Key types: Pipeline, Request, Result, WeightEntry, InfluenceSpec.
package overlay
