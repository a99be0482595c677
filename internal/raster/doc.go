// Package raster owns the grid model and the overlay algebra.
//
// Responsibilities: grid storage and alignment, weighted-sum combination,
// value rescaling, exclusion mosaics and overrides, and polygon
// rasterization. Every operation takes grids in and returns new grids out;
// nothing here mutates an input grid.
//
// All grids combined in one operation must share cell size and snap
// alignment. The reference grid of a run fixes both.
package raster
