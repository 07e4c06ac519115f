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

import "fmt"

// GeoKey is a stable, opaque identifier for a patch within a replicate.
// It is created once when a patch is built and never mutated afterward;
// its lifetime is tied to the replicate that owns the patch. GeoKey is a
// plain comparable value so it can be used directly as a map key, the way
// the teacher model keys its neighbor lists and boundary lists by cell
// pointer identity, except here identity survives freezing.
type GeoKey struct {
	id uint64
}

// NewGeoKey builds a GeoKey from a caller-assigned numeric identifier.
// Callers (typically a grid builder) are responsible for uniqueness
// within a single replicate.
func NewGeoKey(id uint64) GeoKey {
	return GeoKey{id: id}
}

// Uint64 returns the underlying numeric identifier.
func (k GeoKey) Uint64() uint64 {
	return k.id
}

func (k GeoKey) String() string {
	return fmt.Sprintf("geokey:%d", k.id)
}

// GeoKeySequence hands out sequential, unique GeoKeys for one replicate's
// worth of patches.
type GeoKeySequence struct {
	next uint64
}

// Next returns the next unused GeoKey in the sequence.
func (s *GeoKeySequence) Next() GeoKey {
	s.next++
	return GeoKey{id: s.next}
}
