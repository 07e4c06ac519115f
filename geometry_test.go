package patch

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(i int64) decimal.Decimal { return decimal.NewFromInt(i) }

func TestRectangleIntersectsExactTangency(t *testing.T) {
	a := NewRectangle(d(0), d(0), d(2))
	b := NewRectangle(d(2), d(0), d(2))
	if !a.Intersects(b) {
		t.Fatal("expected tangent rectangles to count as intersecting")
	}
}

func TestRectangleDoesNotIntersectWhenSeparated(t *testing.T) {
	a := NewRectangle(d(0), d(0), d(2))
	b := NewRectangle(d(3), d(0), d(2))
	if a.Intersects(b) {
		t.Fatal("expected separated rectangles not to intersect")
	}
}

func TestCircleIntersectsPointAtExactRadius(t *testing.T) {
	c := NewCircle(d(0), d(0), d(10))
	p := NewPoint(d(5), d(0))
	if !c.Intersects(p) {
		t.Fatal("expected point exactly on circle boundary to count as intersecting (closed disc)")
	}
}

func TestCircleDoesNotIntersectPointOutsideRadius(t *testing.T) {
	c := NewCircle(d(0), d(0), d(10))
	p := NewPoint(d(6), d(0))
	if c.Intersects(p) {
		t.Fatal("expected point beyond radius not to intersect")
	}
}

func TestIntersectsIsSymmetric(t *testing.T) {
	c := NewCircle(d(0), d(0), d(10))
	r := NewRectangle(d(3), d(3), d(2))
	if c.Intersects(r) != r.Intersects(c) {
		t.Fatal("expected Intersects to be symmetric across geometry kinds")
	}
}

func TestHalfUpDivRoundsHalfAwayFromZero(t *testing.T) {
	// 1/128 = 0.0078125 exactly: the seventh digit is a 5, so the result at
	// six digits must round up to 0.007813.
	got := halfUpDiv(d(1), d(128))
	want := decimal.New(7813, -6)
	if !got.Equal(want) {
		t.Fatalf("halfUpDiv(1,128) = %s, want %s", got, want)
	}
}
