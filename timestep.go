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

import "sync"

// TimeStep is an immutable snapshot of every patch that existed in a
// Replicate's live set at the moment it was frozen. The spatial index is
// computed at first query and reused afterward; a one-shot initializer
// guarantees that no reader ever observes a partially built index (spec
// §3, §5): the classic double-checked-locking hazard the teacher's lazy
// CTM-grid rtree construction avoids by building eagerly, solved here with
// sync.Once since index construction is deferred until first query.
type TimeStep struct {
	step    int64
	patches map[GeoKey]*FrozenPatch

	indexOnce sync.Once
	index     *PatchSpatialIndex
	indexErr  error
}

// newTimeStep freezes every patch in live into an immutable snapshot
// numbered step. The live map is not retained; each patch is deep-copied
// via Freeze.
func newTimeStep(step int64, live map[GeoKey]*LivePatch) *TimeStep {
	frozen := make(map[GeoKey]*FrozenPatch, len(live))
	for k, p := range live {
		frozen[k] = p.Freeze()
	}
	return &TimeStep{step: step, patches: frozen}
}

// Step returns the snapshot's step number.
func (t *TimeStep) Step() int64 { return t.step }

// ensureIndex builds (or returns the already-built) spatial index,
// publishing it exactly once regardless of how many goroutines call
// concurrently.
func (t *TimeStep) ensureIndex() (*PatchSpatialIndex, error) {
	t.indexOnce.Do(func() {
		t.index, t.indexErr = buildPatchSpatialIndex(t.patches)
	})
	return t.index, t.indexErr
}

// Patches returns every patch in the snapshot. Result ordering is
// unspecified.
func (t *TimeStep) Patches() []*FrozenPatch {
	out := make([]*FrozenPatch, 0, len(t.patches))
	for _, p := range t.patches {
		out = append(out, p)
	}
	return out
}

// PatchesIn returns the patches whose geometry intersects g. Patches
// without geometry are silently skipped. Pre-allocation sizes the result
// to the candidate count to avoid repeated resizing (spec §4.C).
func (t *TimeStep) PatchesIn(g Geometry) ([]*FrozenPatch, error) {
	idx, err := t.ensureIndex()
	if err != nil {
		return nil, err
	}
	candidates := idx.QueryCandidates(g)
	out := make([]*FrozenPatch, 0, len(candidates))
	for _, p := range candidates {
		if !p.core.hasGeom {
			continue
		}
		if p.core.geom.Intersects(g) {
			out = append(out, p)
		}
	}
	return out, nil
}

// PatchesNamed returns the patches whose geometry intersects g and whose
// Name equals name.
func (t *TimeStep) PatchesNamed(g Geometry, name string) ([]*FrozenPatch, error) {
	idx, err := t.ensureIndex()
	if err != nil {
		return nil, err
	}
	candidates := idx.QueryCandidates(g)
	out := make([]*FrozenPatch, 0, len(candidates))
	for _, p := range candidates {
		if !p.core.hasGeom {
			continue
		}
		if p.core.name == name && p.core.geom.Intersects(g) {
			out = append(out, p)
		}
	}
	return out, nil
}

// PatchByKey returns the frozen patch for key, if present.
func (t *TimeStep) PatchByKey(key GeoKey) (*FrozenPatch, bool) {
	p, ok := t.patches[key]
	return p, ok
}
