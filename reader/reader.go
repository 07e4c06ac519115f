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

// Package reader implements the external-data collaborator contract: a
// uniform reader interface over NetCDF, GeoTIFF, CSV, and precomputed-grid
// sources, a nearest-neighbor seeding strategy, and a GeoMapper that
// populates patch attributes from them.
package reader

import (
	"github.com/shopspring/decimal"

	patch "github.com/SchmidtDSE/josh-sub009"
)

// SpatialDimensions describes a reader's horizontal axes and CRS, as
// returned by ExternalDataReader.SpatialDimensions.
type SpatialDimensions struct {
	NameX, NameY, NameT string
	Crs                 string
	CoordsX             []decimal.Decimal
	CoordsY             []decimal.Decimal
}

// ExternalDataReader is the uniform capability set every format adapter
// implements (spec §4.F). It is explicitly not safe for concurrent use;
// the parallel GeoMapper opens one instance per worker.
type ExternalDataReader interface {
	// SetDimensions declares which named dimensions carry the horizontal
	// (and optional temporal) axes. timeDim is empty when the source has
	// no time axis.
	SetDimensions(xDim, yDim, timeDim string) error

	// SetCrsCode declares the reader's native coordinate reference system.
	SetCrsCode(code string)

	// VariableNames returns the data-carrying variables, excluding the
	// declared coordinate axes.
	VariableNames() ([]string, error)

	// TimeDimensionSize returns the length of the time axis, if any.
	TimeDimensionSize() (int, bool)

	// SpatialDimensions returns the reader's axis names, CRS, and
	// coordinate vectors.
	SpatialDimensions() (SpatialDimensions, error)

	// ReadValueAt performs a nearest-index lookup of variable at (x, y,
	// timestep) in the reader's native coordinates. It returns an empty
	// result (ok=false, no error) for NaN, a format-specific sentinel fill
	// value, or a lookup with nothing to find (no coordinates; a timestep
	// outside a NetCDF variable's time axis; a variable missing from a CSV
	// table). Coordinates outside the reader's axes are not rejected: the
	// adapters in this package resolve them to the nearest edge coordinate.
	ReadValueAt(variable string, x, y float64, timestep int) (value patch.Value, ok bool, err error)

	// Close releases the underlying resource. Safe to call once.
	Close() error
}

// CancelFunc reports whether an in-flight read should abort. A nil
// CancelFunc is treated as "never cancelled".
type CancelFunc func() bool

func checkCancel(cancel CancelFunc, op, path string) error {
	if cancel != nil && cancel() {
		return newErr(op, KindCancelled, path, "", nil)
	}
	return nil
}
