// Package geo parses boundary polygon text and derives processing extents.
//
// Boundaries arrive as WKT POLYGON strings in a single geographic reference
// system. No re-projection happens here or anywhere downstream.
package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/planar"
)

// ErrInvalidGeometry is returned when a boundary string cannot be parsed or
// does not describe a closed polygon with at least three vertices.
var ErrInvalidGeometry = errors.New("invalid geometry")

// ParsePolygon parses a WKT POLYGON boundary string into an orb.Polygon.
// The outer ring must be closed and carry at least three distinct vertices.
func ParsePolygon(boundary string) (orb.Polygon, error) {
	poly, err := wkt.UnmarshalPolygon(boundary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	if len(poly) == 0 || len(poly[0]) == 0 {
		return nil, fmt.Errorf("%w: polygon has no rings", ErrInvalidGeometry)
	}
	ring := poly[0]
	// A closed WKT ring repeats its first vertex, so three distinct vertices
	// means at least four points.
	if !ring.Closed() || len(ring) < 4 {
		return nil, fmt.Errorf("%w: boundary ring must be closed with at least 3 vertices", ErrInvalidGeometry)
	}
	if planar.Area(poly) == 0 {
		return nil, fmt.Errorf("%w: boundary polygon has zero area", ErrInvalidGeometry)
	}
	return poly, nil
}

// Bounds returns the polygon's minimal enclosing axis-aligned rectangle.
// No buffering or padding is applied.
func Bounds(poly orb.Polygon) orb.Bound {
	return poly.Bound()
}
