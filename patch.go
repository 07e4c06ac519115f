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
	"runtime"
	"strconv"
	"sync"
)

// patchCore holds the fields shared between the live and frozen Patch
// variants. The frozen/live duality is modeled as two concrete types
// wrapping patchCore rather than as a subclass hierarchy or a single
// struct with an isFrozen flag checked on every hot-path access (spec
// §4.E, §9): variant-specific operations (SetAttribute) are exposed only
// on LivePatch, so misuse is a compile error rather than a runtime panic.
type patchCore struct {
	key     GeoKey
	hasKey  bool
	geom    Geometry
	hasGeom bool
	name    string
	attrs   map[string]Value
}

// Key returns the patch's GeoKey and whether it has one. GeoKey is
// optional only for degenerate test fixtures; storage requires it.
func (c *patchCore) Key() (GeoKey, bool) { return c.key, c.hasKey }

// Geom returns the patch's Geometry and whether it has one.
func (c *patchCore) Geom() (Geometry, bool) { return c.geom, c.hasGeom }

// Name returns the patch's type name, used for typed filtering.
func (c *patchCore) Name() string { return c.name }

// Attribute looks up a named attribute.
func (c *patchCore) Attribute(name string) (Value, bool) {
	v, ok := c.attrs[name]
	return v, ok
}

// AttributeNames returns a copy of the attribute map's keys, for iteration
// without exposing the backing map.
func (c *patchCore) AttributeNames() []string {
	names := make([]string, 0, len(c.attrs))
	for k := range c.attrs {
		names = append(names, k)
	}
	return names
}

func cloneAttrs(src map[string]Value) map[string]Value {
	dst := make(map[string]Value, len(src))
	for k, v := range src {
		dst[k] = v // Value is a plain numeric/unit pair: copying it is a deep copy.
	}
	return dst
}

// LivePatch is the mutable Patch variant: the exclusive owner of a
// timestep is the simulation loop driving the Replicate's current state.
type LivePatch struct {
	core patchCore
	lock reentrantLock
}

// NewLivePatch constructs a live patch with the given key, geometry, and
// name. Geometry may be the zero value (hasGeom false) for fixtures that
// don't need spatial queries; key is similarly optional for test
// fixtures, though storage in a Replicate requires one.
func NewLivePatch(key GeoKey, hasKey bool, geom Geometry, hasGeom bool, name string) *LivePatch {
	return &LivePatch{
		core: patchCore{
			key: key, hasKey: hasKey,
			geom: geom, hasGeom: hasGeom,
			name:  name,
			attrs: make(map[string]Value),
		},
	}
}

func (p *LivePatch) Key() (GeoKey, bool)               { return p.core.Key() }
func (p *LivePatch) Geom() (Geometry, bool)            { return p.core.Geom() }
func (p *LivePatch) Name() string                      { return p.core.Name() }
func (p *LivePatch) Attribute(name string) (Value, bool) { return p.core.Attribute(name) }
func (p *LivePatch) AttributeNames() []string          { return p.core.AttributeNames() }
func (p *LivePatch) IsFrozen() bool                    { return false }

// SetAttribute mutates the live patch's attribute map. Only LivePatch
// exposes this; FrozenPatch has no equivalent method.
func (p *LivePatch) SetAttribute(name string, v Value) {
	p.core.attrs[name] = v
}

// Freeze produces an immutable, deep-value-copied snapshot of p. Freezing
// is idempotent: freezing twice yields equal (by value) FrozenPatch
// instances, and the live patch continues to exist and remains mutable
// after being frozen (spec §3 invariants).
func (p *LivePatch) Freeze() *FrozenPatch {
	return &FrozenPatch{core: patchCore{
		key: p.core.key, hasKey: p.core.hasKey,
		geom: p.core.geom, hasGeom: p.core.hasGeom,
		name:  p.core.name,
		attrs: cloneAttrs(p.core.attrs),
	}}
}

// Lock acquires the patch's per-entity lock. The lock is reentrant within
// a single goroutine: the simulation loop can use it to serialize compound
// updates across co-referenced patches without self-deadlocking. The core
// never takes this lock itself; it exists purely as a facility for
// callers (spec §5, §9). It is not required, and has no effect, on
// FrozenPatch — frozen timesteps are immutable and may be read by any
// number of goroutines without locking.
func (p *LivePatch) Lock() { p.lock.Lock() }

// Unlock releases one level of the per-entity lock.
func (p *LivePatch) Unlock() { p.lock.Unlock() }

// FrozenPatch is the immutable Patch variant produced by LivePatch.Freeze.
// It is safe to share across any number of readers without synchronization.
type FrozenPatch struct {
	core patchCore
}

func (p *FrozenPatch) Key() (GeoKey, bool)               { return p.core.Key() }
func (p *FrozenPatch) Geom() (Geometry, bool)            { return p.core.Geom() }
func (p *FrozenPatch) Name() string                      { return p.core.Name() }
func (p *FrozenPatch) Attribute(name string) (Value, bool) { return p.core.Attribute(name) }
func (p *FrozenPatch) AttributeNames() []string          { return p.core.AttributeNames() }
func (p *FrozenPatch) IsFrozen() bool                    { return true }

// reentrantLock is a mutex that may be re-acquired by the same goroutine
// without deadlocking, tracked by a lightweight goroutine id parsed from
// the runtime stack trace header (the same trick several Go codebases use
// in the absence of a blessed goroutine-local-storage API). Depth is
// released on a matching count of Unlock calls.
type reentrantLock struct {
	mu    sync.Mutex
	owner int64
	depth int
	guard sync.Mutex
}

func (l *reentrantLock) Lock() {
	id := goroutineID()
	l.guard.Lock()
	if l.depth > 0 && l.owner == id {
		l.depth++
		l.guard.Unlock()
		return
	}
	l.guard.Unlock()

	l.mu.Lock()
	l.guard.Lock()
	l.owner = id
	l.depth = 1
	l.guard.Unlock()
}

func (l *reentrantLock) Unlock() {
	l.guard.Lock()
	defer l.guard.Unlock()
	if l.depth == 0 {
		panic("patch: Unlock of unlocked LivePatch")
	}
	l.depth--
	if l.depth == 0 {
		l.mu.Unlock()
	}
}

// goroutineID extracts a best-effort numeric id for the calling goroutine
// from runtime.Stack's header line ("goroutine 123 [running]: ..."). It is
// used only to detect reentrant Lock calls from the same goroutine, never
// for scheduling decisions.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	const prefix = "goroutine "
	if len(b) > len(prefix) && string(b[:len(prefix)]) == prefix {
		b = b[len(prefix):]
		i := 0
		for i < len(b) && b[i] >= '0' && b[i] <= '9' {
			i++
		}
		if id, err := strconv.ParseInt(string(b[:i]), 10, 64); err == nil {
			return id
		}
	}
	return -1
}
