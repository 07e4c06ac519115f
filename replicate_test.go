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
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// S1: save a step, recall it by key, confirm immutability.
func TestSaveAndRecall(t *testing.T) {
	r := NewReplicate(0)
	key := NewGeoKey(1)
	p := NewLivePatch(key, true, NewRectangle(decimal.NewFromInt(0), decimal.NewFromInt(0), decimal.NewFromInt(1)), true, "cell")
	p.SetAttribute("temp", NewValue(42, "C"))
	r.InsertLivePatch(p)

	if err := r.SaveTimeStep(0); err != nil {
		t.Fatalf("SaveTimeStep: %v", err)
	}

	ts, ok := r.GetTimeStep(0)
	if !ok {
		t.Fatal("expected timestep 0 to be archived")
	}
	fp, ok := ts.PatchByKey(key)
	if !ok {
		t.Fatal("expected frozen patch to be found by key")
	}
	v, ok := fp.Attribute("temp")
	if !ok || v.Number != 42 {
		t.Fatalf("expected temp=42, got %v ok=%v", v, ok)
	}

	p.SetAttribute("temp", NewValue(100, "C"))
	v2, _ := fp.Attribute("temp")
	if v2.Number != 42 {
		t.Fatalf("frozen patch mutated after live patch changed: %v", v2)
	}
}

// S2: querying the current step is rejected.
func TestQueryOnCurrentRejected(t *testing.T) {
	r := NewReplicate(5)
	_, err := r.Query(NewQuery(5))
	if !errors.Is(err, ErrQueryOnCurrent) {
		t.Fatalf("expected ErrQueryOnCurrent, got %v", err)
	}
}

// S2b: PatchByKey against a non-current step is rejected.
func TestPatchByKeyOnPastRejected(t *testing.T) {
	r := NewReplicate(5)
	if err := r.SaveTimeStep(4); err != nil {
		t.Fatalf("SaveTimeStep: %v", err)
	}
	_, err := r.PatchByKey(NewGeoKey(1), 4)
	if !errors.Is(err, ErrQueryOnPast) {
		t.Fatalf("expected ErrQueryOnPast, got %v", err)
	}
}

// querying an unsaved step fails with KindUnknownStep.
func TestQueryUnknownStep(t *testing.T) {
	r := NewReplicate(0)
	_, err := r.Query(NewQuery(99))
	if !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
}

// saving the same step twice fails with KindAlreadyExists.
func TestSaveTimeStepAlreadyExists(t *testing.T) {
	r := NewReplicate(0)
	if err := r.SaveTimeStep(1); err != nil {
		t.Fatalf("first SaveTimeStep: %v", err)
	}
	err := r.SaveTimeStep(1)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

// S3: circle query over a 10x10 grid returns exactly the cells whose
// square (not just their center) the disc touches — patches are
// Rectangles, so Intersects uses the closest-point-on-square test
// (geometry.go rectCircleIntersect), not a bare center-distance test.
func TestCircleQueryOverGrid(t *testing.T) {
	r := NewReplicate(0)
	const n = 10
	seq := &GeoKeySequence{}
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			key := seq.Next()
			geom := NewRectangle(decimal.NewFromInt(int64(x)), decimal.NewFromInt(int64(y)), decimal.NewFromInt(1))
			p := NewLivePatch(key, true, geom, true, "cell")
			r.InsertLivePatch(p)
		}
	}
	if err := r.SaveTimeStep(0); err != nil {
		t.Fatalf("SaveTimeStep: %v", err)
	}
	r.AdvanceStep(1)

	circle := NewCircle(decimal.NewFromInt(5), decimal.NewFromInt(5), decimal.NewFromInt(4))
	got1, err := r.Query(NewQuery(0).WithGeometry(circle))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	got2, err := r.Query(NewQuery(0).WithGeometry(circle))
	if err != nil {
		t.Fatalf("second Query: %v", err)
	}
	if len(got1) != len(got2) {
		t.Fatalf("repeated queries returned different sizes: %d vs %d", len(got1), len(got2))
	}

	cx, cy := 5.0, 5.0
	radius := 2.0
	want := 0
	seen := make(map[GeoKey]bool)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			half := 0.5
			nearestX := clamp(cx, float64(x)-half, float64(x)+half)
			nearestY := clamp(cy, float64(y)-half, float64(y)+half)
			if dist(cx, cy, nearestX, nearestY) <= radius {
				want++
			}
		}
	}
	if len(got1) != want {
		t.Fatalf("circle query returned %d patches, want %d", len(got1), want)
	}
	if len(got1) < 9 {
		t.Fatalf("expected at least 9 patches within radius 2 of center, got %d", len(got1))
	}
	for _, p := range got1 {
		key, _ := p.Key()
		if seen[key] {
			t.Fatalf("duplicate patch %v in circle query result", key)
		}
		seen[key] = true

		geom, _ := p.Geom()
		if dist(geom.CenterX().InexactFloat64(), geom.CenterY().InexactFloat64(), cx, cy) > 2.5 {
			t.Fatalf("patch %v center is farther than 2.5 from query center", key)
		}
	}
}

// S4: fractional radii that round to the same ceiling key must return the
// exact same cached slice (identity, not just equal contents).
func TestOffsetCacheIdentityForFractionalRadii(t *testing.T) {
	a := GetOffsetsForRadius(3.1)
	b := GetOffsetsForRadius(3.9)
	if len(a) == 0 || len(b) == 0 {
		t.Fatal("expected non-empty offsets")
	}
	if &a[0] != &b[0] {
		t.Fatal("expected identical backing array for radii sharing a ceiling key")
	}
}

// S5: a patch without geometry is skipped by geometry-filtered queries but
// still appears in an unfiltered Patches() listing.
func TestPatchWithoutGeometrySkipped(t *testing.T) {
	r := NewReplicate(0)
	seq := &GeoKeySequence{}

	withGeom := NewLivePatch(seq.Next(), true, NewRectangle(decimal.Zero, decimal.Zero, decimal.NewFromInt(1)), true, "cell")
	withoutGeom := NewLivePatch(seq.Next(), true, nil, false, "floating")
	r.InsertLivePatch(withGeom)
	r.InsertLivePatch(withoutGeom)

	if err := r.SaveTimeStep(0); err != nil {
		t.Fatalf("SaveTimeStep: %v", err)
	}
	ts, _ := r.GetTimeStep(0)

	all := ts.Patches()
	if len(all) != 2 {
		t.Fatalf("expected 2 patches in unfiltered listing, got %d", len(all))
	}

	box := NewRectangle(decimal.Zero, decimal.Zero, decimal.NewFromInt(100))
	filtered, err := ts.PatchesIn(box)
	if err != nil {
		t.Fatalf("PatchesIn: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected geometry-filtered query to skip the geometry-less patch, got %d results", len(filtered))
	}
}

// S6: a grid whose derived dimension exceeds the cell-count ceiling fails
// index construction with KindGridTooLarge.
func TestGridTooLarge(t *testing.T) {
	r := NewReplicate(0)
	seq := &GeoKeySequence{}
	p1 := NewLivePatch(seq.Next(), true, NewRectangle(decimal.Zero, decimal.Zero, decimal.NewFromInt(1)), true, "cell")
	p2 := NewLivePatch(seq.Next(), true, NewRectangle(decimal.NewFromInt(maxGridDimension+10), decimal.Zero, decimal.NewFromInt(1)), true, "cell")
	r.InsertLivePatch(p1)
	r.InsertLivePatch(p2)

	if err := r.SaveTimeStep(0); err != nil {
		t.Fatalf("SaveTimeStep: %v", err)
	}
	ts, _ := r.GetTimeStep(0)
	_, err := ts.PatchesIn(NewPoint(decimal.Zero, decimal.Zero))
	if !errors.Is(err, ErrGridTooLarge) {
		t.Fatalf("expected ErrGridTooLarge, got %v", err)
	}
}

// S8: offset cache construction is safe under concurrent access.
func TestOffsetCacheConcurrentAccess(t *testing.T) {
	done := make(chan []GridOffset, 32)
	for i := 0; i < 32; i++ {
		go func() {
			done <- GetOffsetsForRadius(7.5)
		}()
	}
	first := <-done
	for i := 1; i < 32; i++ {
		got := <-done
		if len(got) != len(first) {
			t.Fatalf("concurrent GetOffsetsForRadius returned mismatched lengths: %d vs %d", len(got), len(first))
		}
	}
}

// Inserting a patch with no key panics, matching the "storage requires
// a key" invariant.
func TestInsertLivePatchRequiresKey(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when inserting a keyless patch")
		}
	}()
	r := NewReplicate(0)
	r.InsertLivePatch(NewLivePatch(GeoKey{}, false, nil, false, "anon"))
}

func TestAdvanceStepDoesNotClearLiveSet(t *testing.T) {
	r := NewReplicate(0)
	key := NewGeoKey(1)
	r.InsertLivePatch(NewLivePatch(key, true, nil, false, "cell"))
	r.AdvanceStep(1)
	if len(r.CurrentPatches()) != 1 {
		t.Fatal("expected live set to survive AdvanceStep")
	}
	if _, err := r.PatchByKey(key, 1); err != nil {
		t.Fatalf("PatchByKey on new current step: %v", err)
	}
}
