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

package reader

import (
	coord "github.com/SchmidtDSE/josh-sub009/internal/coord"

	patch "github.com/SchmidtDSE/josh-sub009"
)

// NearestNeighborStrategy seeds a single patch's attribute by transforming
// its grid-space center into a reader's native CRS and delegating to
// ReadValueAt (spec §4.F).
type NearestNeighborStrategy struct {
	Transform coord.Transform
}

// NewNearestNeighborStrategy builds a strategy using the given transform.
// A nil transform defaults to coord.Identity.
func NewNearestNeighborStrategy(transform coord.Transform) *NearestNeighborStrategy {
	if transform == nil {
		transform = coord.Identity
	}
	return &NearestNeighborStrategy{Transform: transform}
}

// Seed reads variable for the patch centered at (gridX, gridY) at timestep
// t from r, using crsCode to select the transform target. It returns
// ok=false whenever the reader reports an out-of-bounds or missing value;
// that is not treated as an error (spec §7).
func (s *NearestNeighborStrategy) Seed(r ExternalDataReader, variable string, gridX, gridY float64, crsCode string, t int) (patch.Value, bool, error) {
	rx, ry, err := s.Transform(gridX, gridY, crsCode)
	if err != nil {
		return patch.Value{}, false, newErr("Seed", KindReaderIo, "", variable, err)
	}
	return r.ReadValueAt(variable, rx, ry, t)
}
