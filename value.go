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

// Value is a dynamically typed, unit-bearing numeric value held in a
// patch's attribute map. It mirrors the `desc`/`units` struct-tag pairs
// the teacher model attaches to each Cell field (see inmap.Cell), except
// here the name/units/number triple is carried at runtime instead of at
// compile time, since attribute sets are not known until a patch set is
// built from external data.
type Value struct {
	Number float64
	Units  string
}

// NewValue constructs a Value with the given number and units.
func NewValue(number float64, units string) Value {
	return Value{Number: number, Units: units}
}
