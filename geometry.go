/*
Copyright © 2017 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package patch

import (
	"math"

	"github.com/shopspring/decimal"
)

// decimalScale is the number of fractional digits kept when dividing
// decimal coordinates, per spec: half-up rounding at a fixed scale of 6.
const decimalScale = 6

// GeometryKind discriminates the three Geometry variants.
type GeometryKind int

const (
	KindPoint GeometryKind = iota
	KindCircle
	KindRectangle
)

func (k GeometryKind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindCircle:
		return "circle"
	case KindRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// Geometry is a sum type over Point, Circle, and Square/Rectangle areas in
// grid-space coordinates. Centers use arbitrary-precision decimals so that
// repeated lattice-alignment comparisons never accumulate float drift; only
// the circle-involved intersection math drops to float64, where offset-space
// magnitudes are small and double precision is adequate (spec §3, §9).
type Geometry interface {
	Kind() GeometryKind
	CenterX() decimal.Decimal
	CenterY() decimal.Decimal
	// Width returns the cell width for non-point geometries (the diameter,
	// for a circle) and the zero value for a Point.
	Width() decimal.Decimal
	// Intersects reports whether g and other overlap. The predicate is
	// symmetric: g.Intersects(other) == other.Intersects(g).
	Intersects(other Geometry) bool
}

// Point is a zero-area Geometry variant.
type Point struct {
	X, Y decimal.Decimal
}

// NewPoint constructs a Point geometry.
func NewPoint(x, y decimal.Decimal) Point { return Point{X: x, Y: y} }

func (p Point) Kind() GeometryKind      { return KindPoint }
func (p Point) CenterX() decimal.Decimal { return p.X }
func (p Point) CenterY() decimal.Decimal { return p.Y }
func (p Point) Width() decimal.Decimal   { return decimal.Zero }
func (p Point) Intersects(other Geometry) bool { return intersects(p, other) }

// Rectangle is an axis-aligned square cell (the teacher's grid cells are
// uniformly square; Width applies to both axes).
type Rectangle struct {
	X, Y, W decimal.Decimal
}

// NewRectangle constructs a square Rectangle geometry centered at (x, y).
func NewRectangle(x, y, width decimal.Decimal) Rectangle {
	return Rectangle{X: x, Y: y, W: width}
}

func (r Rectangle) Kind() GeometryKind       { return KindRectangle }
func (r Rectangle) CenterX() decimal.Decimal { return r.X }
func (r Rectangle) CenterY() decimal.Decimal { return r.Y }
func (r Rectangle) Width() decimal.Decimal   { return r.W }
func (r Rectangle) Intersects(other Geometry) bool { return intersects(r, other) }

// Circle is defined by its center and diameter (Width).
type Circle struct {
	X, Y, W decimal.Decimal
}

// NewCircle constructs a Circle geometry centered at (x, y) with the given
// diameter.
func NewCircle(x, y, diameter decimal.Decimal) Circle {
	return Circle{X: x, Y: y, W: diameter}
}

func (c Circle) Kind() GeometryKind       { return KindCircle }
func (c Circle) CenterX() decimal.Decimal { return c.X }
func (c Circle) CenterY() decimal.Decimal { return c.Y }
func (c Circle) Width() decimal.Decimal   { return c.W }
func (c Circle) Intersects(other Geometry) bool { return intersects(c, other) }

// halfUpDiv divides a by b and rounds half-up to decimalScale fractional
// digits, the rounding rule spec §3/§9 mandate for decimal division.
func halfUpDiv(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, decimalScale)
}

// bounds returns the axis-aligned decimal bounding box of g: exact for
// Point and Rectangle, and the circumscribing square for Circle. intersects
// calls it only for point/rectangle pairs; any pair involving a circle goes
// to circleIntersects instead.
func bounds(g Geometry) (minX, minY, maxX, maxY decimal.Decimal) {
	switch g.Kind() {
	case KindPoint:
		return g.CenterX(), g.CenterY(), g.CenterX(), g.CenterY()
	default:
		half := halfUpDiv(g.Width(), decimal.NewFromInt(2))
		return g.CenterX().Sub(half), g.CenterY().Sub(half),
			g.CenterX().Add(half), g.CenterY().Add(half)
	}
}

// intersects implements the symmetric Geometry intersection contract
// (spec §4.E): exact decimal comparisons for point/rectangle pairs, and
// double-precision distance tests for any pair involving a circle.
func intersects(a, b Geometry) bool {
	if a.Kind() == KindCircle || b.Kind() == KindCircle {
		return circleIntersects(a, b)
	}
	aMinX, aMinY, aMaxX, aMaxY := bounds(a)
	bMinX, bMinY, bMaxX, bMaxY := bounds(b)
	// Closed intervals: exact tangency counts as intersection, matching
	// the closed-disc convention adopted for circle tests (spec §9).
	if aMaxX.LessThan(bMinX) || bMaxX.LessThan(aMinX) {
		return false
	}
	if aMaxY.LessThan(bMinY) || bMaxY.LessThan(aMinY) {
		return false
	}
	return true
}

// circleIntersects tests intersection for any pair where at least one
// side is a Circle, using float64 distance math (spec §3: "circle-involved
// cases may use double-precision").
func circleIntersects(a, b Geometry) bool {
	ax, _ := a.CenterX().Float64()
	ay, _ := a.CenterY().Float64()
	bx, _ := b.CenterX().Float64()
	by, _ := b.CenterY().Float64()
	aw, _ := a.Width().Float64()
	bw, _ := b.Width().Float64()

	switch {
	case a.Kind() == KindCircle && b.Kind() == KindCircle:
		ra, rb := aw/2, bw/2
		return dist(ax, ay, bx, by) <= ra+rb
	case a.Kind() == KindCircle && b.Kind() == KindPoint:
		return dist(ax, ay, bx, by) <= aw/2
	case b.Kind() == KindCircle && a.Kind() == KindPoint:
		return dist(ax, ay, bx, by) <= bw/2
	case a.Kind() == KindCircle && b.Kind() == KindRectangle:
		return rectCircleIntersect(bx, by, bw, ax, ay, aw/2)
	case b.Kind() == KindCircle && a.Kind() == KindRectangle:
		return rectCircleIntersect(ax, ay, aw, bx, by, bw/2)
	default:
		return false
	}
}

func dist(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return math.Sqrt(dx*dx + dy*dy)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// rectCircleIntersect tests whether the axis-aligned square centered at
// (rx, ry) with side rw intersects the disc of radius r centered at
// (cx, cy): the closest-point-on-rectangle test used throughout §4.A/§4.B.
func rectCircleIntersect(rx, ry, rw, cx, cy, r float64) bool {
	half := rw / 2
	minX, maxX := rx-half, rx+half
	minY, maxY := ry-half, ry+half
	nearestX := clamp(cx, minX, maxX)
	nearestY := clamp(cy, minY, maxY)
	return dist(cx, cy, nearestX, nearestY) <= r
}
