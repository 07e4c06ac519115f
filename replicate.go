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

// Query selects patches at a given step, optionally restricted to those
// intersecting a geometry. An absent geometry returns every patch at that
// step (spec §6).
type Query struct {
	Step        int64
	Geometry    Geometry
	HasGeometry bool
}

// NewQuery builds a Query with no geometry restriction.
func NewQuery(step int64) Query { return Query{Step: step} }

// WithGeometry restricts q to patches intersecting g.
func (q Query) WithGeometry(g Geometry) Query {
	q.Geometry, q.HasGeometry = g, true
	return q
}

// Replicate owns one Monte Carlo run's lifecycle: the current mutable
// timestep and a keyed archive of frozen past timesteps. It enforces the
// snapshot and query-time access rules in spec §4.D.
//
// Past access to a single patch's value is deliberately only reachable
// through Query, never through PatchByKey: the source this spec was
// distilled from contains two drafts of this contract, one permissive and
// one strict, and the strict one was picked because it keeps the
// mutable/immutable boundary clean (spec §9 Open Question 1).
type Replicate struct {
	mu          sync.RWMutex
	currentStep int64
	live        map[GeoKey]*LivePatch
	past        map[int64]*TimeStep
}

// NewReplicate creates a Replicate whose current step is startStep and
// whose live set is initially empty.
func NewReplicate(startStep int64) *Replicate {
	return &Replicate{
		currentStep: startStep,
		live:        make(map[GeoKey]*LivePatch),
		past:        make(map[int64]*TimeStep),
	}
}

// InsertLivePatch adds p to the current live set, keyed by its own GeoKey.
// p must carry a key (spec §3: storage requires one).
func (r *Replicate) InsertLivePatch(p *LivePatch) {
	key, ok := p.Key()
	if !ok {
		panic("patch: InsertLivePatch requires a patch with a GeoKey")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[key] = p
}

// CurrentStep returns the replicate's current (live, mutable) step number.
func (r *Replicate) CurrentStep() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.currentStep
}

// AdvanceStep sets the current step number. It does not touch the live
// patch set; the simulation loop mutates live patches directly between
// saves, and may save multiple times under different step numbers before
// or after advancing (spec §4.D).
func (r *Replicate) AdvanceStep(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentStep = n
}

// CurrentPatches returns the mutable live patch collection. The current
// set is never addressable via spatial queries (spec §3).
func (r *Replicate) CurrentPatches() map[GeoKey]*LivePatch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[GeoKey]*LivePatch, len(r.live))
	for k, v := range r.live {
		out[k] = v
	}
	return out
}

// SaveTimeStep freezes every live patch into an immutable TimeStep and
// archives it under n. It fails with KindAlreadyExists if n is already
// present in the archive; saving does not clear the live set, so the
// simulation may continue mutating toward a later step or save again
// under a different n (spec §4.D).
func (r *Replicate) SaveTimeStep(n int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.past[n]; exists {
		return newErr("SaveTimeStep", KindAlreadyExists)
	}
	r.past[n] = newTimeStep(n, r.live)
	return nil
}

// GetTimeStep returns the archived snapshot for step n, if present.
func (r *Replicate) GetTimeStep(n int64) (*TimeStep, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ts, ok := r.past[n]
	return ts, ok
}

// Query dispatches a spatial/temporal query against the archive. It fails
// with KindQueryOnCurrent when q.Step equals the current step number, and
// with KindUnknownStep when q.Step has never been saved.
func (r *Replicate) Query(q Query) ([]*FrozenPatch, error) {
	r.mu.RLock()
	if q.Step == r.currentStep {
		r.mu.RUnlock()
		return nil, newErr("Query", KindQueryOnCurrent)
	}
	ts, ok := r.past[q.Step]
	r.mu.RUnlock()
	if !ok {
		return nil, newErr("Query", KindUnknownStep)
	}
	if !q.HasGeometry {
		return ts.Patches(), nil
	}
	return ts.PatchesIn(q.Geometry)
}

// PatchByKey returns the live patch for key when n is the current step
// number. Past steps must be reached through Query instead, since past
// patches are immutable and live patches are mutable — the two worlds are
// surfaced through different APIs on purpose (spec §4.D).
func (r *Replicate) PatchByKey(key GeoKey, n int64) (*LivePatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n != r.currentStep {
		return nil, newErr("PatchByKey", KindQueryOnPast)
	}
	p, ok := r.live[key]
	if !ok {
		return nil, nil
	}
	return p, nil
}
