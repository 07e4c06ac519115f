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

// Package coord provides the opaque coordinate-reference-system transform
// used to move a patch's grid-space center into a reader's native CRS.
// CRS machinery itself is out of scope for this repository (spec §1); the
// transform is a pluggable function, not an implementation.
package coord

// Transform maps a grid-space (x, y) pair to a reader's native coordinate
// system, identified by crsCode.
type Transform func(x, y float64, crsCode string) (rx, ry float64, err error)

// Identity is a Transform that performs no projection, useful for readers
// whose native CRS already matches the grid's.
func Identity(x, y float64, crsCode string) (float64, float64, error) {
	return x, y, nil
}
