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
	"sync"
	"testing"
)

func TestFreezeIsIdempotentByValue(t *testing.T) {
	p := NewLivePatch(NewGeoKey(1), true, NewRectangle(d(0), d(0), d(1)), true, "cell")
	p.SetAttribute("a", NewValue(1, "m"))

	f1 := p.Freeze()
	f2 := p.Freeze()

	v1, _ := f1.Attribute("a")
	v2, _ := f2.Attribute("a")
	if v1 != v2 {
		t.Fatalf("expected equal-by-value frozen snapshots, got %v vs %v", v1, v2)
	}
}

func TestFreezeDoesNotFreezeLivePatch(t *testing.T) {
	p := NewLivePatch(NewGeoKey(1), true, nil, false, "cell")
	p.Freeze()
	p.SetAttribute("a", NewValue(1, "m"))
	v, ok := p.Attribute("a")
	if !ok || v.Number != 1 {
		t.Fatal("expected live patch to remain mutable after Freeze")
	}
}

func TestReentrantLockSameGoroutine(t *testing.T) {
	p := NewLivePatch(NewGeoKey(1), true, nil, false, "cell")
	p.Lock()
	defer p.Unlock()
	// Re-acquiring from the same goroutine must not deadlock.
	p.Lock()
	p.Unlock()
}

func TestLockExcludesOtherGoroutines(t *testing.T) {
	p := NewLivePatch(NewGeoKey(1), true, nil, false, "cell")
	p.Lock()

	acquired := make(chan struct{})
	go func() {
		p.Lock()
		close(acquired)
		p.Unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("expected other goroutine to block while lock is held")
	default:
	}
	p.Unlock()
	<-acquired
}

func TestUnlockOfUnlockedPatchPanics(t *testing.T) {
	p := NewLivePatch(NewGeoKey(1), true, nil, false, "cell")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic unlocking an unlocked patch")
		}
	}()
	p.Unlock()
}

func TestAttributeNamesCoverSetAttributes(t *testing.T) {
	p := NewLivePatch(NewGeoKey(1), true, nil, false, "cell")
	p.SetAttribute("a", NewValue(1, "m"))
	p.SetAttribute("b", NewValue(2, "s"))
	names := p.AttributeNames()
	if len(names) != 2 {
		t.Fatalf("expected 2 attribute names, got %d", len(names))
	}
}

func TestConcurrentSetAttributeUnderLock(t *testing.T) {
	p := NewLivePatch(NewGeoKey(1), true, nil, false, "cell")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			p.Lock()
			defer p.Unlock()
			p.SetAttribute("count", NewValue(float64(n), ""))
		}(i)
	}
	wg.Wait()
	if _, ok := p.Attribute("count"); !ok {
		t.Fatal("expected attribute to be set after concurrent writers")
	}
}
