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

// maxGridDimension is the per-axis cell-count ceiling past which spatial
// index construction fails fatally (spec §4.B, §7 GridTooLarge).
const maxGridDimension = 10000

// AssertUniformCellSize gates a check that every patch fed into a
// PatchSpatialIndex carries the same cell width; a mismatch panics.
// Cell-size uniformity is assumed but unchecked at runtime in the source
// this spec was distilled from (spec §9 Open Question). The flag is a plain
// variable that defaults to true in every build; tests leave it on, and
// production callers may turn it off once a grid has been validated once.
var AssertUniformCellSize = true

// PatchSpatialIndex is a per-snapshot 2-D grid accelerator over a fixed
// set of patches. It is built once (by TimeStep, lazily, behind a
// sync.Once) and is then immutable: every query method is safe for
// unbounded concurrent readers.
type PatchSpatialIndex struct {
	minX, minY decimal.Decimal
	cellSize   decimal.Decimal
	gridWidth  int
	gridHeight int
	cells      [][]*FrozenPatch // cells[x][y]

	// empty is true when no patch in the set carried geometry; queries
	// degenerate to returning every patch (spec §4.B step 4).
	empty   bool
	all     []*FrozenPatch
	cellCnt int
}

// buildPatchSpatialIndex constructs the index over patches. Construction
// is fatal (returns a GridTooLarge error) when either derived grid
// dimension would exceed maxGridDimension.
func buildPatchSpatialIndex(patches map[GeoKey]*FrozenPatch) (*PatchSpatialIndex, error) {
	all := make([]*FrozenPatch, 0, len(patches))
	for _, p := range patches {
		all = append(all, p)
	}

	geomed := make([]*FrozenPatch, 0, len(all))
	for _, p := range all {
		if p.core.hasGeom {
			geomed = append(geomed, p)
		}
	}
	if len(geomed) == 0 {
		return &PatchSpatialIndex{empty: true, all: all}, nil
	}

	if AssertUniformCellSize {
		w := geomed[0].core.geom.Width()
		for _, p := range geomed {
			if !p.core.geom.Width().Equal(w) {
				panic("patch: non-uniform cell size across patches in one timestep")
			}
		}
	}

	minX, minY := geomed[0].core.geom.CenterX(), geomed[0].core.geom.CenterY()
	maxX, maxY := minX, minY
	cellSize := geomed[0].core.geom.Width()
	for _, p := range geomed[1:] {
		cx, cy := p.core.geom.CenterX(), p.core.geom.CenterY()
		if cx.LessThan(minX) {
			minX = cx
		}
		if cx.GreaterThan(maxX) {
			maxX = cx
		}
		if cy.LessThan(minY) {
			minY = cy
		}
		if cy.GreaterThan(maxY) {
			maxY = cy
		}
	}

	gridWidth := roundHalfUpInt(halfUpDiv(maxX.Sub(minX), cellSize)) + 1
	gridHeight := roundHalfUpInt(halfUpDiv(maxY.Sub(minY), cellSize)) + 1
	if gridWidth > maxGridDimension || gridHeight > maxGridDimension {
		return nil, newErr("buildPatchSpatialIndex", KindGridTooLarge)
	}

	cells := make([][]*FrozenPatch, gridWidth)
	for i := range cells {
		cells[i] = make([]*FrozenPatch, gridHeight)
	}

	idx := &PatchSpatialIndex{
		minX: minX, minY: minY, cellSize: cellSize,
		gridWidth: gridWidth, gridHeight: gridHeight, cells: cells, all: all,
	}
	for _, p := range geomed {
		gx, gy := idx.worldToGrid(p.core.geom.CenterX(), p.core.geom.CenterY())
		cells[gx][gy] = p
		idx.cellCnt++
	}
	return idx, nil
}

// worldToGrid converts a world-space center to grid indices using decimal
// subtraction and half-up rounded division, as spec §9 requires.
func (idx *PatchSpatialIndex) worldToGrid(x, y decimal.Decimal) (int, int) {
	gx := roundHalfUpInt(halfUpDiv(x.Sub(idx.minX), idx.cellSize))
	gy := roundHalfUpInt(halfUpDiv(y.Sub(idx.minY), idx.cellSize))
	return gx, gy
}

// roundHalfUpInt rounds d to the nearest integer, half away from zero,
// matching the half-up convention used throughout this package.
func roundHalfUpInt(d decimal.Decimal) int {
	return int(d.Round(0).IntPart())
}

// QueryCandidates returns a superset of the patches whose geometry could
// intersect g. The exhaustive intersection test is the caller's
// responsibility (TimeStep applies it); this method never produces false
// negatives (spec §4.B, §8 invariant 2).
func (idx *PatchSpatialIndex) QueryCandidates(g Geometry) []*FrozenPatch {
	if idx.empty {
		return idx.all
	}
	if g.Kind() == KindCircle {
		return idx.queryCircle(g)
	}
	return idx.queryBox(g)
}

func (idx *PatchSpatialIndex) queryBox(g Geometry) []*FrozenPatch {
	radiusWorld := halfUpDiv(g.Width(), decimal.NewFromInt(2))
	// One extra cell of margin covers the up-to-half-cell gap between the
	// query center and the grid cell that center rounds to.
	radiusCells := roundHalfUpInt(halfUpDiv(radiusWorld, idx.cellSize)) + 1

	cgx, cgy := idx.worldToGrid(g.CenterX(), g.CenterY())
	minGX := clampInt(cgx-radiusCells, 0, idx.gridWidth-1)
	maxGX := clampInt(cgx+radiusCells, 0, idx.gridWidth-1)
	minGY := clampInt(cgy-radiusCells, 0, idx.gridHeight-1)
	maxGY := clampInt(cgy+radiusCells, 0, idx.gridHeight-1)

	out := make([]*FrozenPatch, 0, (maxGX-minGX+1)*(maxGY-minGY+1))
	for x := minGX; x <= maxGX; x++ {
		for y := minGY; y <= maxGY; y++ {
			if p := idx.cells[x][y]; p != nil {
				out = append(out, p)
			}
		}
	}
	return out
}

func (idx *PatchSpatialIndex) queryCircle(g Geometry) []*FrozenPatch {
	cellSize, _ := idx.cellSize.Float64()
	diameter, _ := g.Width().Float64()
	r := diameter / (2 * cellSize)

	if int(math.Ceil(r+math.Sqrt2)) >= minInt(idx.gridWidth, idx.gridHeight) {
		return idx.all
	}

	offsets := GetOffsetsForRadius(r)
	cgx, cgy := idx.worldToGrid(g.CenterX(), g.CenterY())

	out := make([]*FrozenPatch, 0, len(offsets))
	for _, o := range offsets {
		x, y := cgx+int(o.DX), cgy+int(o.DY)
		if x < 0 || x >= idx.gridWidth || y < 0 || y >= idx.gridHeight {
			continue
		}
		if p := idx.cells[x][y]; p != nil {
			out = append(out, p)
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
